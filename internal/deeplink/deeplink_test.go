package deeplink

import (
	"errors"
	"testing"
)

func TestLinkFormat(t *testing.T) {
	b := NewBuilder("streambox_bot")

	link, err := b.Link("abc123")
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	want := "https://t.me/streambox_bot?start=abc123"
	if link != want {
		t.Fatalf("got %q want %q", link, want)
	}
}

func TestLinkEscapesCode(t *testing.T) {
	b := NewBuilder("bot")

	link, err := b.Link("a b&c")
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if link != "https://t.me/bot?start=a+b%26c" {
		t.Fatalf("code not escaped: %q", link)
	}
}

func TestLinkBlockedWithoutBot(t *testing.T) {
	b := NewBuilder("")

	if _, err := b.Link("abc123"); !errors.Is(err, ErrBotNotConfigured) {
		t.Fatalf("expected ErrBotNotConfigured, got %v", err)
	}
}

func TestLinkBlockedWithoutCode(t *testing.T) {
	b := NewBuilder("bot")

	if _, err := b.Link(""); !errors.Is(err, ErrEmptyCode) {
		t.Fatalf("expected ErrEmptyCode, got %v", err)
	}
}
