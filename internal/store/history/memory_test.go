package history

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/golfguiders/guiders-ai/backend/internal/model/chat"
)

func seedMessages(t *testing.T, store *MemoryStore, chatID string, n int) time.Time {
	t.Helper()
	base := time.Now().UTC().Truncate(time.Millisecond)
	for i := 0; i < n; i++ {
		msg := chat.Message{
			ChatID:    chatID,
			ID:        uuid.NewString(),
			Role:      chat.RoleUser,
			Content:   fmt.Sprintf("m%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Millisecond),
		}
		if err := store.InsertMessage(context.Background(), msg); err != nil {
			t.Fatalf("InsertMessage err: %v", err)
		}
	}
	return base
}

func TestRecentMessagesNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	chatID := uuid.NewString()
	seedMessages(t, store, chatID, 5)

	msgs, err := store.RecentMessages(context.Background(), chatID, 3)
	if err != nil {
		t.Fatalf("RecentMessages err: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	for i, want := range []string{"m4", "m3", "m2"} {
		if msgs[i].Content != want {
			t.Fatalf("msgs[%d] = %q, want %q", i, msgs[i].Content, want)
		}
	}
}

func TestRecentMessagesUnderLimit(t *testing.T) {
	store := NewMemoryStore()
	chatID := uuid.NewString()
	seedMessages(t, store, chatID, 2)

	msgs, err := store.RecentMessages(context.Background(), chatID, 10)
	if err != nil {
		t.Fatalf("RecentMessages err: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Content != "m1" || msgs[1].Content != "m0" {
		t.Fatalf("unexpected order: %q, %q", msgs[0].Content, msgs[1].Content)
	}
}

func TestMessagesByChatAscending(t *testing.T) {
	store := NewMemoryStore()
	chatID := uuid.NewString()

	// Insert out of chronological order.
	base := time.Now().UTC().Truncate(time.Millisecond)
	for _, offset := range []int{2, 0, 1} {
		msg := chat.Message{
			ChatID:    chatID,
			ID:        uuid.NewString(),
			Role:      chat.RoleUser,
			Content:   fmt.Sprintf("m%d", offset),
			CreatedAt: base.Add(time.Duration(offset) * time.Millisecond),
		}
		if err := store.InsertMessage(context.Background(), msg); err != nil {
			t.Fatalf("InsertMessage err: %v", err)
		}
	}

	msgs, err := store.MessagesByChat(context.Background(), chatID)
	if err != nil {
		t.Fatalf("MessagesByChat err: %v", err)
	}
	for i, want := range []string{"m0", "m1", "m2"} {
		if msgs[i].Content != want {
			t.Fatalf("msgs[%d] = %q, want %q", i, msgs[i].Content, want)
		}
	}
}

func TestChatsByUserNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	userID := uuid.NewString()

	base := time.Now().UTC().Truncate(time.Millisecond)
	for i := 0; i < 3; i++ {
		c := chat.Chat{
			ID:        uuid.NewString(),
			UserID:    userID,
			Title:     fmt.Sprintf("c%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Millisecond),
		}
		if err := store.InsertChat(context.Background(), c); err != nil {
			t.Fatalf("InsertChat err: %v", err)
		}
	}
	other := chat.Chat{ID: uuid.NewString(), UserID: uuid.NewString(), CreatedAt: base}
	if err := store.InsertChat(context.Background(), other); err != nil {
		t.Fatalf("InsertChat err: %v", err)
	}

	chats, err := store.ChatsByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("ChatsByUser err: %v", err)
	}
	if len(chats) != 3 {
		t.Fatalf("got %d chats, want 3", len(chats))
	}
	for i, want := range []string{"c2", "c1", "c0"} {
		if chats[i].Title != want {
			t.Fatalf("chats[%d] = %q, want %q", i, chats[i].Title, want)
		}
	}
}

func TestChatExists(t *testing.T) {
	store := NewMemoryStore()
	chatID := uuid.NewString()

	exists, err := store.ChatExists(context.Background(), chatID)
	if err != nil || exists {
		t.Fatalf("ChatExists before insert = %v, %v", exists, err)
	}

	c := chat.Chat{ID: chatID, UserID: uuid.NewString(), CreatedAt: time.Now().UTC()}
	if err := store.InsertChat(context.Background(), c); err != nil {
		t.Fatalf("InsertChat err: %v", err)
	}

	exists, err = store.ChatExists(context.Background(), chatID)
	if err != nil || !exists {
		t.Fatalf("ChatExists after insert = %v, %v", exists, err)
	}
}
