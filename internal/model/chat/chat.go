package chat

import (
	"strings"
	"time"
)

// TitleMaxLen caps derived chat titles before the ellipsis is appended.
const TitleMaxLen = 100

// DefaultTitle is shown for chats created without a first message.
const DefaultTitle = "Untitled Chat"

// Chat groups the messages of one conversation under an owning user.
// A chat is written once at creation and never mutated afterwards.
type Chat struct {
	ID        string    `json:"chat_id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created"`
}

// DeriveTitle builds a chat title from the first message of a new
// conversation: the first TitleMaxLen characters, trimmed, with "..."
// appended when the message was longer. An empty first message yields
// an empty title.
func DeriveTitle(firstMessage string) string {
	if firstMessage == "" {
		return ""
	}
	runes := []rune(firstMessage)
	if len(runes) <= TitleMaxLen {
		return firstMessage
	}
	return strings.TrimSpace(string(runes[:TitleMaxLen])) + "..."
}
