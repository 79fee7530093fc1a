package deeplink

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrBotNotConfigured blocks link construction when no bot identifier is
// set; handing out a broken link is worse than refusing.
var ErrBotNotConfigured = errors.New("messaging bot is not configured")

var ErrEmptyCode = errors.New("delivery code is empty")

// Builder produces messaging-app deep links of the form
// <base>/<bot>?start=<code>.
type Builder struct {
	Base string // link base, e.g. https://t.me
	Bot  string // bot identifier without the leading @
}

func NewBuilder(bot string) Builder {
	return Builder{Base: "https://t.me", Bot: bot}
}

// Link resolves a delivery code into the external deep link.
func (b Builder) Link(code string) (string, error) {
	if b.Bot == "" {
		return "", ErrBotNotConfigured
	}
	if code == "" {
		return "", ErrEmptyCode
	}
	return fmt.Sprintf("%s/%s?start=%s", b.Base, b.Bot, url.QueryEscape(code)), nil
}
