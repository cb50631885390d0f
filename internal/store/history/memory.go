package history

import (
	"context"
	"sort"
	"sync"

	"github.com/golfguiders/guiders-ai/backend/internal/model/chat"
)

// MemoryStore keeps chat history in process memory. It backs local
// development when no DATABASE_URL is configured, and the service
// tests.
type MemoryStore struct {
	mu       sync.RWMutex
	chats    map[string]chat.Chat
	messages map[string][]chat.Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		chats:    make(map[string]chat.Chat),
		messages: make(map[string][]chat.Message),
	}
}

func (s *MemoryStore) InsertChat(_ context.Context, c chat.Chat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats[c.ID] = c
	return nil
}

func (s *MemoryStore) InsertMessage(_ context.Context, m chat.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[m.ChatID] = append(s.messages[m.ChatID], m)
	return nil
}

func (s *MemoryStore) ChatExists(_ context.Context, chatID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.chats[chatID]
	return ok, nil
}

func (s *MemoryStore) ChatsByUser(_ context.Context, userID string) ([]chat.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chats := make([]chat.Chat, 0, 8)
	for _, c := range s.chats {
		if c.UserID == userID {
			chats = append(chats, c)
		}
	}
	sort.Slice(chats, func(i, j int) bool {
		return chats[i].CreatedAt.After(chats[j].CreatedAt)
	})
	return chats, nil
}

func (s *MemoryStore) MessagesByChat(_ context.Context, chatID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := append([]chat.Message(nil), s.messages[chatID]...)
	sort.Slice(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
	return msgs, nil
}

func (s *MemoryStore) RecentMessages(ctx context.Context, chatID string, limit int) ([]chat.Message, error) {
	msgs, err := s.MessagesByChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	// Newest first, like the SQL recency query.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
