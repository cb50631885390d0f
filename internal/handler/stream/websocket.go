package stream

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	chatService "github.com/golfguiders/guiders-ai/backend/internal/service/chat"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// HandleWebSocket serves turns over a WebSocket: the client sends one
// ChatRequest frame per turn and receives the same message/metadata/
// error events as the SSE mode. The connection stays open for further
// turns until the client closes it.
//
// The request context is not canceled on disconnect once the
// connection has been hijacked, so a read pump owns the connection
// reads and cancels the connection context when the peer goes away. An
// in-flight turn then unwinds without persisting.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.agent == nil || h.chatSvc == nil {
		http.Error(w, "chat service not ready", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[stream] websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	requests := make(chan ChatRequest)
	go func() {
		defer cancel()
		for {
			var req ChatRequest
			if err := conn.ReadJSON(&req); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("[stream] websocket read failed: %v", err)
				}
				return
			}
			select {
			case requests <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	snk := &wsSink{conn: conn, cancel: cancel}
	for {
		var req ChatRequest
		select {
		case <-ctx.Done():
			return
		case req = <-requests:
		}

		if req.Message == "" {
			snk.SendError("message is required")
			continue
		}

		chatID, err := h.chatSvc.GetOrCreateChat(ctx, req.UserID, req.ChatID, req.Message)
		if err != nil {
			snk.SendError(err.Error())
			continue
		}

		history, err := h.chatSvc.ChatHistory(ctx, chatID, h.historyLimit)
		if err != nil {
			snk.SendError(err.Error())
			continue
		}

		h.streamTurn(ctx, snk, chatService.NewTurn(chatID, req.Message), history)
	}
}
