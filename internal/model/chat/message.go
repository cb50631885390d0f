package chat

import (
	"log"
	"strings"
	"time"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ParseRole maps a stored role string onto the closed Role set.
// Unknown values fall back to RoleUser so that a bad row never breaks
// history loading.
func ParseRole(s string) Role {
	switch r := Role(strings.ToLower(s)); r {
	case RoleUser, RoleAssistant, RoleSystem:
		return r
	default:
		log.Printf("[chat] unknown role %q, defaulting to user", s)
		return RoleUser
	}
}

// Message persists one side of a conversation turn.
type Message struct {
	ChatID    string    `json:"chat_id"`
	ID        string    `json:"history_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created"`
}
