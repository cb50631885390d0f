// Package chat manages conversation lifecycle on top of the history
// store: chat resolution, history windows, and turn persistence.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/golfguiders/guiders-ai/backend/internal/model/chat"
	"github.com/golfguiders/guiders-ai/backend/internal/store/history"
)

var (
	ErrInvalidUserID = errors.New("invalid user_id format")
	ErrInvalidChatID = errors.New("invalid chat_id format")
	ErrChatNotFound  = errors.New("chat not found")
)

// StatusForError maps the service's sentinel errors onto HTTP status
// codes. Every handler that surfaces these errors uses this one
// mapping.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, ErrInvalidUserID),
		errors.Is(err, ErrInvalidChatID),
		errors.Is(err, ErrChatNotFound):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Service owns no state of its own; it validates identifiers and
// translates between the store and the orchestration core. One instance
// is shared read-only across all request goroutines.
type Service struct {
	store history.Store
}

func NewService(store history.Store) *Service {
	return &Service{store: store}
}

// GetOrCreateChat resolves an existing chat or creates a new one. A
// supplied chatID must be a well-formed UUID naming an existing chat.
// When absent, a fresh chat is created with a title derived from the
// first message.
func (s *Service) GetOrCreateChat(ctx context.Context, userID, chatID, firstMessage string) (string, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidUserID, userID)
	}

	if chatID != "" {
		if _, err := uuid.Parse(chatID); err != nil {
			return "", fmt.Errorf("%w: %s", ErrInvalidChatID, chatID)
		}
		exists, err := s.store.ChatExists(ctx, chatID)
		if err != nil {
			return "", fmt.Errorf("look up chat: %w", err)
		}
		if !exists {
			return "", fmt.Errorf("%w: %s", ErrChatNotFound, chatID)
		}
		return chatID, nil
	}

	newChat := chat.Chat{
		ID:        uuid.NewString(),
		UserID:    userUUID.String(),
		Title:     chat.DeriveTitle(firstMessage),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.InsertChat(ctx, newChat); err != nil {
		return "", fmt.Errorf("create chat: %w", err)
	}
	return newChat.ID, nil
}

// ChatHistory loads up to limit most-recent messages and returns them
// in chronological order, oldest first. The store query is necessarily
// by recency; the agent must never see storage order.
func (s *Service) ChatHistory(ctx context.Context, chatID string, limit int) ([]chat.Message, error) {
	if _, err := uuid.Parse(chatID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidChatID, chatID)
	}

	messages, err := s.store.RecentMessages(ctx, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// Turn carries the per-request state of one conversation exchange.
// Identifiers and timestamps are fixed before streaming begins so they
// stay stable no matter how long the stream runs.
type Turn struct {
	ChatID             string
	UserMessage        string
	UserMessageID      string
	AssistantMessageID string
	CreatedUser        int64
	CreatedAssistant   int64
}

// NewTurn stamps a turn with fresh message identifiers and timestamps.
// The assistant timestamp is the user timestamp plus one millisecond to
// force ordering between the two rows.
func NewTurn(chatID, userMessage string) Turn {
	created := time.Now().UnixMilli()
	return Turn{
		ChatID:             chatID,
		UserMessage:        userMessage,
		UserMessageID:      uuid.NewString(),
		AssistantMessageID: uuid.NewString(),
		CreatedUser:        created,
		CreatedAssistant:   created + 1,
	}
}

// SaveConversation persists both sides of a completed turn as a unit:
// the user row first, then the assistant row. The two inserts are
// independent; if the assistant insert fails after the user insert
// succeeded, the user row stays committed.
func (s *Service) SaveConversation(ctx context.Context, turn Turn, assistantMessage string) error {
	userMsg := chat.Message{
		ChatID:    turn.ChatID,
		ID:        turn.UserMessageID,
		Role:      chat.RoleUser,
		Content:   turn.UserMessage,
		CreatedAt: time.UnixMilli(turn.CreatedUser).UTC(),
	}
	if err := s.store.InsertMessage(ctx, userMsg); err != nil {
		return fmt.Errorf("save user message to chat %s: %w", turn.ChatID, err)
	}

	assistantMsg := chat.Message{
		ChatID:    turn.ChatID,
		ID:        turn.AssistantMessageID,
		Role:      chat.RoleAssistant,
		Content:   assistantMessage,
		CreatedAt: time.UnixMilli(turn.CreatedAssistant).UTC(),
	}
	if err := s.store.InsertMessage(ctx, assistantMsg); err != nil {
		// The user row is already durable; this partial state is
		// accepted rather than rolled back.
		log.Printf("[chat] assistant message not saved for chat %s: %v", turn.ChatID, err)
		return fmt.Errorf("save assistant message to chat %s: %w", turn.ChatID, err)
	}
	return nil
}

// AllChats lists the user's chats, newest first, with titles and
// timestamps normalized for display.
func (s *Service) AllChats(ctx context.Context, userID string) ([]chat.Chat, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidUserID, userID)
	}

	chats, err := s.store.ChatsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}

	for i := range chats {
		if chats[i].Title == "" {
			chats[i].Title = chat.DefaultTitle
		}
		if chats[i].CreatedAt.IsZero() {
			chats[i].CreatedAt = time.Now().UTC()
		}
	}
	return chats, nil
}

// AllMessages lists every message of a chat in chronological order.
func (s *Service) AllMessages(ctx context.Context, chatID string) ([]chat.Message, error) {
	if _, err := uuid.Parse(chatID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidChatID, chatID)
	}

	messages, err := s.store.MessagesByChat(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	for i := range messages {
		if messages[i].CreatedAt.IsZero() {
			messages[i].CreatedAt = time.Now().UTC()
		}
	}
	return messages, nil
}
