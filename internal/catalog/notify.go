package catalog

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisNotifier carries change events over redis pub/sub. Events have no
// payload; receivers reload the full snapshot from the store.
type RedisNotifier struct {
	rdb *redis.Client
}

func NewRedisNotifier(rdb *redis.Client) *RedisNotifier {
	return &RedisNotifier{rdb: rdb}
}

func (n *RedisNotifier) Publish(ctx context.Context, channel string) error {
	return n.rdb.Publish(ctx, channel, "1").Err()
}

// Subscribe returns a channel of event channel names. It closes when ctx is
// cancelled or the underlying subscription dies.
func (n *RedisNotifier) Subscribe(ctx context.Context, channels ...string) (<-chan string, error) {
	sub := n.rdb.Subscribe(ctx, channels...)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, err
	}

	out := make(chan string, 16)
	go func() {
		defer close(out)
		defer sub.Close()
		in := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-in:
				if !ok {
					return
				}
				select {
				case <-ctx.Done():
					return
				case out <- msg.Channel:
				}
			}
		}
	}()
	return out, nil
}
