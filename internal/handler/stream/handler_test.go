package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	chatModel "github.com/golfguiders/guiders-ai/backend/internal/model/chat"
	chatService "github.com/golfguiders/guiders-ai/backend/internal/service/chat"
	"github.com/golfguiders/guiders-ai/backend/internal/store/history"
)

// fakeStreamer replays a scripted fragment sequence, optionally
// terminating the stream with an error instead of a clean close.
type fakeStreamer struct {
	fragments []string
	finalErr  error
	lastInput string
	lastHist  []chatModel.Message
}

func (f *fakeStreamer) Stream(_ context.Context, message string, hist []chatModel.Message) (*schema.StreamReader[*schema.Message], error) {
	f.lastInput = message
	f.lastHist = hist

	sr, sw := schema.Pipe[*schema.Message](len(f.fragments) + 1)
	go func() {
		defer sw.Close()
		for _, frag := range f.fragments {
			if closed := sw.Send(schema.AssistantMessage(frag, nil), nil); closed {
				return
			}
		}
		if f.finalErr != nil {
			sw.Send(nil, f.finalErr)
		}
	}()
	return sr, nil
}

func newTestHandler(t *testing.T, agent *fakeStreamer, mode string) (*Handler, *history.MemoryStore, string) {
	t.Helper()
	store := history.NewMemoryStore()
	svc := chatService.NewService(store)

	chatID, err := svc.GetOrCreateChat(context.Background(), uuid.NewString(), "", "seed")
	if err != nil {
		t.Fatalf("GetOrCreateChat err: %v", err)
	}
	return New(agent, svc, 14, mode, nil), store, chatID
}

func postStream(h *Handler, req ChatRequest) *httptest.ResponseRecorder {
	body, _ := json.Marshal(req)
	r := httptest.NewRequest(http.MethodPost, "/chat/stream", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleChatStream(w, r)
	return w
}

func TestHandleChatStreamPlain(t *testing.T) {
	agent := &fakeStreamer{fragments: []string{"Hel", "lo", " world"}}
	h, store, chatID := newTestHandler(t, agent, ModePlain)

	w := postStream(h, ChatRequest{Message: "hi", UserID: uuid.NewString(), ChatID: chatID})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	body := w.Body.String()
	text, rawMeta, found := strings.Cut(body, "\n\n[METADATA]")
	if !found {
		t.Fatalf("no metadata marker in body %q", body)
	}
	if text != "Hello world" {
		t.Fatalf("streamed text = %q, want %q", text, "Hello world")
	}

	var meta TurnMetadata
	if err := json.Unmarshal([]byte(rawMeta), &meta); err != nil {
		t.Fatalf("metadata not valid JSON: %v", err)
	}
	if meta.ChatID != chatID {
		t.Fatalf("metadata chat_id = %s, want %s", meta.ChatID, chatID)
	}

	messages, err := store.MessagesByChat(context.Background(), chatID)
	if err != nil {
		t.Fatalf("MessagesByChat err: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("persisted %d messages, want 2", len(messages))
	}
	if messages[0].Role != chatModel.RoleUser || messages[0].Content != "hi" {
		t.Fatalf("unexpected user row: %+v", messages[0])
	}
	if messages[1].Role != chatModel.RoleAssistant || messages[1].Content != "Hello world" {
		t.Fatalf("unexpected assistant row: %+v", messages[1])
	}
	if messages[1].ID != meta.HistoryID {
		t.Fatalf("metadata history_id %s does not match assistant row %s", meta.HistoryID, messages[1].ID)
	}
}

func TestHandleChatStreamSSE(t *testing.T) {
	agent := &fakeStreamer{fragments: []string{"A", "B"}}
	h, _, chatID := newTestHandler(t, agent, ModeSSE)

	w := postStream(h, ChatRequest{Message: "hi", UserID: uuid.NewString(), ChatID: chatID})
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q, want text/event-stream", ct)
	}

	var events []string
	for _, block := range strings.Split(strings.TrimSpace(w.Body.String()), "\n\n") {
		for _, line := range strings.Split(block, "\n") {
			if name, ok := strings.CutPrefix(line, "event: "); ok {
				events = append(events, name)
			}
		}
	}
	want := []string{"message", "message", "metadata"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
}

func TestHandleChatStreamMidStreamError(t *testing.T) {
	agent := &fakeStreamer{fragments: []string{"partial"}, finalErr: errors.New("model overloaded")}
	h, store, chatID := newTestHandler(t, agent, ModePlain)

	w := postStream(h, ChatRequest{Message: "hi", UserID: uuid.NewString(), ChatID: chatID})
	body := w.Body.String()
	if !strings.Contains(body, "[ERROR] AI generation failed") {
		t.Fatalf("no error marker in body %q", body)
	}
	if strings.Contains(body, "[METADATA]") {
		t.Fatalf("metadata emitted after error: %q", body)
	}

	messages, _ := store.MessagesByChat(context.Background(), chatID)
	if len(messages) != 0 {
		t.Fatalf("persisted %d messages after failed stream, want 0", len(messages))
	}
}

func TestHandleChatStreamClientCanceled(t *testing.T) {
	agent := &fakeStreamer{fragments: []string{"partial"}, finalErr: context.Canceled}
	h, store, chatID := newTestHandler(t, agent, ModePlain)

	w := postStream(h, ChatRequest{Message: "hi", UserID: uuid.NewString(), ChatID: chatID})
	body := w.Body.String()
	if strings.Contains(body, "[ERROR]") || strings.Contains(body, "[METADATA]") {
		t.Fatalf("canceled stream should end silently, got %q", body)
	}

	messages, _ := store.MessagesByChat(context.Background(), chatID)
	if len(messages) != 0 {
		t.Fatalf("persisted %d messages after canceled stream, want 0", len(messages))
	}
}

func TestHandleChatStreamWhitespaceResponse(t *testing.T) {
	agent := &fakeStreamer{fragments: []string{"  ", "\n"}}
	h, store, chatID := newTestHandler(t, agent, ModePlain)

	w := postStream(h, ChatRequest{Message: "hi", UserID: uuid.NewString(), ChatID: chatID})
	body := w.Body.String()
	if strings.Contains(body, "[ERROR]") || strings.Contains(body, "[METADATA]") {
		t.Fatalf("whitespace-only response should end without markers, got %q", body)
	}

	messages, _ := store.MessagesByChat(context.Background(), chatID)
	if len(messages) != 0 {
		t.Fatalf("whitespace-only response must not be persisted, got %d messages", len(messages))
	}
}

func TestHandleChatStreamHistoryWindow(t *testing.T) {
	agent := &fakeStreamer{fragments: []string{"ok"}}
	h, store, chatID := newTestHandler(t, agent, ModePlain)
	svc := chatService.NewService(store)

	for i := 0; i < 10; i++ {
		turn := chatService.NewTurn(chatID, "earlier question")
		if err := svc.SaveConversation(context.Background(), turn, "earlier answer"); err != nil {
			t.Fatalf("SaveConversation err: %v", err)
		}
	}

	postStream(h, ChatRequest{Message: "latest", UserID: uuid.NewString(), ChatID: chatID})
	if len(agent.lastHist) != 14 {
		t.Fatalf("agent saw %d history messages, want 14", len(agent.lastHist))
	}
	for i := 1; i < len(agent.lastHist); i++ {
		if agent.lastHist[i].CreatedAt.Before(agent.lastHist[i-1].CreatedAt) {
			t.Fatal("history passed to agent is not in chronological order")
		}
	}
	if agent.lastInput != "latest" {
		t.Fatalf("agent saw input %q, want %q", agent.lastInput, "latest")
	}
}

func TestHandleChatStreamValidation(t *testing.T) {
	agent := &fakeStreamer{fragments: []string{"ok"}}
	h, _, chatID := newTestHandler(t, agent, ModePlain)

	tests := []struct {
		name string
		req  ChatRequest
		want int
	}{
		{"missing message", ChatRequest{UserID: uuid.NewString()}, http.StatusBadRequest},
		{"bad user id", ChatRequest{Message: "hi", UserID: "not-a-uuid"}, http.StatusBadRequest},
		{"bad chat id", ChatRequest{Message: "hi", UserID: uuid.NewString(), ChatID: "not-a-uuid"}, http.StatusBadRequest},
		{"unknown chat", ChatRequest{Message: "hi", UserID: uuid.NewString(), ChatID: uuid.NewString()}, http.StatusBadRequest},
		{"ok", ChatRequest{Message: "hi", UserID: uuid.NewString(), ChatID: chatID}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := postStream(h, tt.req); w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestHandleChatStreamNotReady(t *testing.T) {
	h := New(nil, nil, 14, ModePlain, nil)

	w := postStream(h, ChatRequest{Message: "hi", UserID: uuid.NewString()})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}
