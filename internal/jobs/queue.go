package jobs

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
)

const TaskViewIncrement = "views:increment"

type ViewIncrementPayload struct {
	EntryID string `json:"entry_id"`
}

// Queue wraps the asynq client/server pair carrying background work.
type Queue struct {
	client *asynq.Client
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewQueue(redisAddr string) *Queue {
	redisOpt := asynq.RedisClientOpt{Addr: redisAddr}
	client := asynq.NewClient(redisOpt)
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 3,
				"low":     1,
			},
		},
	)
	return &Queue{client: client, server: server, mux: asynq.NewServeMux()}
}

// EnqueueViewIncrement schedules a view-counter bump for the entry. View
// counts are best-effort; enqueue failures are logged, never surfaced.
func (q *Queue) EnqueueViewIncrement(entryID string) {
	payload, err := json.Marshal(ViewIncrementPayload{EntryID: entryID})
	if err != nil {
		return
	}
	task := asynq.NewTask(TaskViewIncrement, payload, asynq.Queue("low"))
	if _, err := q.client.Enqueue(task); err != nil {
		log.Printf("[jobs] enqueue %s failed: %v", TaskViewIncrement, err)
	}
}

func (q *Queue) Handle(taskType string, handler asynq.Handler) {
	q.mux.Handle(taskType, handler)
}

func (q *Queue) Start() error {
	if err := q.server.Start(q.mux); err != nil {
		return fmt.Errorf("start job server: %w", err)
	}
	log.Println("[jobs] worker started")
	return nil
}

func (q *Queue) Stop() {
	q.server.Shutdown()
	q.client.Close()
}
