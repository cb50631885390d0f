// Package history persists chats and messages keyed by user and chat
// identifiers. The orchestration core owns no durable state of its own;
// everything it saves or reads goes through a Store.
package history

import (
	"context"
	"errors"

	"github.com/golfguiders/guiders-ai/backend/internal/model/chat"
)

// ErrNotAcknowledged reports an insert the backend did not confirm.
var ErrNotAcknowledged = errors.New("history: write not acknowledged")

// Store is the persistence contract consumed by the chat history
// manager. Implementations must keep inserts independent: a failed
// message insert never rolls back an earlier one.
type Store interface {
	// InsertChat creates a chat record. Fails with ErrNotAcknowledged
	// when the backend reports no affected rows.
	InsertChat(ctx context.Context, c chat.Chat) error

	// InsertMessage appends a message row.
	InsertMessage(ctx context.Context, m chat.Message) error

	// ChatExists reports whether the chat id is present.
	ChatExists(ctx context.Context, chatID string) (bool, error)

	// ChatsByUser returns the user's chats ordered by creation time
	// descending.
	ChatsByUser(ctx context.Context, userID string) ([]chat.Chat, error)

	// MessagesByChat returns every message of a chat ordered by creation
	// time ascending.
	MessagesByChat(ctx context.Context, chatID string) ([]chat.Message, error)

	// RecentMessages returns up to limit messages ordered by creation
	// time descending. Callers reverse into chronological order.
	RecentMessages(ctx context.Context, chatID string, limit int) ([]chat.Message, error)

	Close() error
}
