package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/golfguiders/guiders-ai/backend/internal/handler/chat"
	"github.com/golfguiders/guiders-ai/backend/internal/handler/stream"
	middlewarePkg "github.com/golfguiders/guiders-ai/backend/internal/middleware"
	"github.com/golfguiders/guiders-ai/backend/internal/observability"
	chatService "github.com/golfguiders/guiders-ai/backend/internal/service/chat"
	"github.com/golfguiders/guiders-ai/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services. A nil streamHandler or
// chatSvc leaves the respective routes mounted but answering 503, so a
// partially initialized process still reports its state instead of
// crashing.
func NewRouter(chatSvc *chatService.Service, streamHandler *stream.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	chatHandler.New(chatSvc).RegisterRoutes(r)

	r.Post("/chat/stream", func(w http.ResponseWriter, req *http.Request) {
		if streamHandler == nil {
			utils.RespondError(w, http.StatusServiceUnavailable, "chat streaming unavailable")
			return
		}
		streamHandler.HandleChatStream(w, req)
	})

	r.Get("/chat/ws", func(w http.ResponseWriter, req *http.Request) {
		if streamHandler == nil {
			utils.RespondError(w, http.StatusServiceUnavailable, "chat streaming unavailable")
			return
		}
		streamHandler.HandleWebSocket(w, req)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Handle("/metrics", observability.MetricsHandler())

	return r
}
