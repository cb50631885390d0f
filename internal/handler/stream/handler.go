// Package stream implements the turn-streaming endpoint: chat
// resolution, history loading, agent streaming, and post-stream
// persistence, delivered as a plain chunk stream, typed SSE events, or
// WebSocket frames.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	chatModel "github.com/golfguiders/guiders-ai/backend/internal/model/chat"
	"github.com/golfguiders/guiders-ai/backend/internal/observability"
	"github.com/golfguiders/guiders-ai/backend/internal/service/ai"
	chatService "github.com/golfguiders/guiders-ai/backend/internal/service/chat"
	"github.com/golfguiders/guiders-ai/backend/pkg/utils"
)

// Mode selects the delivery format of POST /chat/stream.
const (
	ModePlain = "plain"
	ModeSSE   = "sse"
)

// ChatRequest is the inbound body for one streamed turn.
type ChatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
	ChatID  string `json:"chat_id,omitempty"`
}

// Handler coordinates one turn per request. All fields are long-lived
// handles shared read-only across request goroutines; every piece of
// per-turn state lives on the request stack.
type Handler struct {
	agent        ai.Streamer
	chatSvc      *chatService.Service
	historyLimit int
	mode         string
	metrics      *observability.Metrics
}

// New creates a stream handler. The agent may be nil when the model
// credentials are missing; requests then fail with 503.
func New(agent ai.Streamer, chatSvc *chatService.Service, historyLimit int, mode string, metrics *observability.Metrics) *Handler {
	if historyLimit <= 0 {
		historyLimit = 14
	}
	if mode != ModeSSE {
		mode = ModePlain
	}
	return &Handler{
		agent:        agent,
		chatSvc:      chatSvc,
		historyLimit: historyLimit,
		mode:         mode,
		metrics:      metrics,
	}
}

// HandleChatStream processes POST /chat/stream. Validation failures are
// reported as normal error responses; anything that goes wrong after
// the first byte has been written is reported in-band on the stream.
func (h *Handler) HandleChatStream(w http.ResponseWriter, r *http.Request) {
	if h.agent == nil || h.chatSvc == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "chat service not ready")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	ctx := r.Context()

	// First message seeds the title only when a new chat is created.
	chatID, err := h.chatSvc.GetOrCreateChat(ctx, req.UserID, req.ChatID, req.Message)
	if err != nil {
		utils.RespondError(w, chatService.StatusForError(err), err.Error())
		return
	}

	history, err := h.chatSvc.ChatHistory(ctx, chatID, h.historyLimit)
	if err != nil {
		utils.RespondError(w, chatService.StatusForError(err), err.Error())
		return
	}

	turn := chatService.NewTurn(chatID, req.Message)

	var snk sink
	if h.mode == ModeSSE {
		snk = newSSESink(w, flusher)
	} else {
		snk = newPlainSink(w, flusher)
	}

	h.streamTurn(ctx, snk, turn, history)
}

// streamTurn forwards agent fragments to the sink in emission order
// while accumulating the full response, then persists the turn as a
// unit and emits the metadata payload. Identifiers and timestamps were
// fixed in turn before the stream started.
func (h *Handler) streamTurn(ctx context.Context, snk sink, turn chatService.Turn, history []chatModel.Message) {
	started := time.Now()

	stream, err := h.agent.Stream(ctx, turn.UserMessage, history)
	if err != nil {
		snk.SendError(fmt.Sprintf("AI generation failed: %v", err))
		h.metrics.ObserveTurn("failed", time.Since(started))
		return
	}
	defer stream.Close()

	var full strings.Builder
	for {
		if ctx.Err() != nil {
			h.metrics.ObserveTurn("canceled", time.Since(started))
			return
		}
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			if ctx.Err() != nil || errors.Is(recvErr, context.Canceled) {
				// Client went away: unwind without saving and without
				// emitting anything further.
				h.metrics.ObserveTurn("canceled", time.Since(started))
				return
			}
			snk.SendError(fmt.Sprintf("AI generation failed: %v", recvErr))
			h.metrics.ObserveTurn("failed", time.Since(started))
			return
		}
		if chunk == nil || chunk.Content == "" {
			continue
		}

		snk.SendChunk(chunk.Content)
		full.WriteString(chunk.Content)
		h.metrics.CountChunk()
	}

	// A turn canceled at any point is never persisted, even when the
	// stream managed to finish.
	if ctx.Err() != nil {
		h.metrics.ObserveTurn("canceled", time.Since(started))
		return
	}

	response := full.String()
	if strings.TrimSpace(response) == "" {
		// Nothing to save; not a failure.
		h.metrics.ObserveTurn("empty", time.Since(started))
		return
	}

	if err := h.chatSvc.SaveConversation(ctx, turn, response); err != nil {
		// Tokens are already delivered; the caller keeps the answer and
		// only the metadata confirmation is withheld.
		log.Printf("[stream] failed to save conversation: %v", err)
		h.metrics.ObserveTurn("failed", time.Since(started))
		return
	}

	snk.SendMetadata(TurnMetadata{
		ChatID:    turn.ChatID,
		HistoryID: turn.AssistantMessageID,
		Created:   turn.CreatedAssistant,
	})
	h.metrics.ObserveTurn("completed", time.Since(started))
	log.Printf("[stream] completed turn for chat=%s", turn.ChatID)
}
