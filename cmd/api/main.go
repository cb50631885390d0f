package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/golfguiders/guiders-ai/backend/internal/config"
	"github.com/golfguiders/guiders-ai/backend/internal/handler"
	"github.com/golfguiders/guiders-ai/backend/internal/handler/stream"
	"github.com/golfguiders/guiders-ai/backend/internal/observability"
	"github.com/golfguiders/guiders-ai/backend/internal/retrieval"
	"github.com/golfguiders/guiders-ai/backend/internal/service/ai"
	chatservice "github.com/golfguiders/guiders-ai/backend/internal/service/chat"
	"github.com/golfguiders/guiders-ai/backend/internal/store/course"
	"github.com/golfguiders/guiders-ai/backend/internal/store/history"
	"github.com/golfguiders/guiders-ai/backend/internal/tool"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	metrics := observability.NewMetrics("guiders")

	// History store: Postgres when configured, otherwise in-memory.
	var historyStore history.Store
	var dataPool *pgxpool.Pool
	if cfg.Storage.DatabaseURL == "" {
		log.Println("warning: DATABASE_URL not set, chat history will not persist across restarts")
		historyStore = history.NewMemoryStore()
	} else {
		pgStore, err := history.NewPostgresStore(ctx, cfg.Storage.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to initialize history store: %v", err)
		}
		defer pgStore.Close()
		historyStore = pgStore

		dataPool, err = newDataPool(ctx, cfg.Storage.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to initialize data pool: %v", err)
		}
		defer dataPool.Close()
	}

	chatSvc := chatservice.NewService(historyStore)

	var streamHandler *stream.Handler
	if cfg.AI.Enabled() {
		aiSvc, err := buildAgent(ctx, cfg, dataPool)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing without AI functionality - check the Ark model environment variables")
		} else {
			streamHandler = stream.New(aiSvc, chatSvc, cfg.Chat.HistoryLimit, cfg.Server.StreamMode, metrics)
			log.Println("AI service initialized successfully")
		}
	} else {
		log.Println("Ark credentials not configured, skipping AI initialization")
	}

	router := handler.NewRouter(chatSvc, streamHandler)

	startServer(ctx, cfg.Server, router)
}

// newDataPool opens the pool shared by the course lookups and the
// vector search, with pgvector types registered on every connection.
func newDataPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}
	return pgxpool.NewWithConfig(ctx, poolCfg)
}

// buildAgent assembles the chat model, retrieval engines, tools, and
// the agent itself. Engines and lookups degrade to nil when their
// backends are unavailable; the tools then answer with an
// "unavailable" message instead of failing.
func buildAgent(ctx context.Context, cfg *config.Config, dataPool *pgxpool.Pool) (*ai.Service, error) {
	chatModel, err := cfg.AI.NewChatModel(ctx)
	if err != nil {
		return nil, err
	}

	var golfEngine, manualEngine retrieval.Engine
	var courseStore course.Store
	if dataPool != nil {
		embedder, err := cfg.AI.NewEmbedder(ctx)
		if err != nil {
			log.Printf("warning: retrieval disabled: %v", err)
		} else {
			golfEngine, err = retrieval.NewPgVectorEngine(ctx, dataPool, chatModel, embedder, cfg.Retrieval.GolfCollection, cfg.Retrieval.TopK)
			if err != nil {
				return nil, err
			}
			manualEngine, err = retrieval.NewPgVectorEngine(ctx, dataPool, chatModel, embedder, cfg.Retrieval.ManualCollection, cfg.Retrieval.TopK)
			if err != nil {
				return nil, err
			}
		}
		courseStore = course.NewPostgresStore(dataPool)
	}

	golfTool, err := tool.NewGolfCoursesTool(golfEngine)
	if err != nil {
		return nil, err
	}
	manualTool, err := tool.NewAppManualTool(manualEngine)
	if err != nil {
		return nil, err
	}
	scorecardTool, err := tool.NewScorecardTool(courseStore)
	if err != nil {
		return nil, err
	}
	teeTool, err := tool.NewTeeDetailsTool(courseStore)
	if err != nil {
		return nil, err
	}

	tools := []einotool.BaseTool{golfTool, manualTool, scorecardTool, teeTool}
	return ai.NewService(ctx, chatModel, tools, cfg.AI.MaxSteps)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Guiders AI backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
