package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	arkembed "github.com/cloudwego/eino-ext/components/embedding/ark"
	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every setting of the service.
type Config struct {
	Server    ServerConfig
	AI        AIConfig
	Storage   StorageConfig
	Retrieval RetrievalConfig
	Chat      ChatConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	retrieval, err := loadRetrievalConfig()
	if err != nil {
		return nil, err
	}

	chat, err := loadChatConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:    server,
		AI:        ai,
		Storage:   StorageConfig{DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL"))},
		Retrieval: retrieval,
		Chat:      chat,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr       string
	StreamMode string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	mode := getEnvOrDefault("STREAM_MODE", "plain")
	if mode != "plain" && mode != "sse" {
		return ServerConfig{}, fmt.Errorf("invalid STREAM_MODE value: %q", mode)
	}

	if strings.Contains(port, ":") {
		// Allow ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port, StreamMode: mode}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, StreamMode: mode}, nil
}

// AIConfig describes the chat and embedding models.
type AIConfig struct {
	APIKey         string
	AccessKey      string
	SecretKey      string
	Model          string
	EmbeddingModel string
	BaseURL        string
	Region         string
	Temperature    *float64
	TopP           *float64
	MaxTokens      *int
	MaxSteps       int
}

// Enabled reports whether the required model credentials are present.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel builds the tool-calling chat model from configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ToolCallingChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("model credentials missing: provide ARK_API_KEY + ARK_MODEL or the AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	return ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	})
}

// NewEmbedder builds the query embedder used by the retrieval engines.
func (c AIConfig) NewEmbedder(ctx context.Context) (embedding.Embedder, error) {
	if c.EmbeddingModel == "" {
		return nil, fmt.Errorf("ARK_EMBEDDING_MODEL is required for retrieval")
	}

	return arkembed.NewEmbedder(ctx, &arkembed.EmbeddingConfig{
		APIKey:  c.APIKey,
		Model:   c.EmbeddingModel,
		BaseURL: c.BaseURL,
		Region:  c.Region,
	})
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	maxSteps := 10
	if stepsOverride, err := parseOptionalIntEnv("AGENT_MAX_STEPS"); err != nil {
		return AIConfig{}, err
	} else if stepsOverride != nil && *stepsOverride > 0 {
		maxSteps = *stepsOverride
	}

	return AIConfig{
		APIKey:         strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:      strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:      strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:          strings.TrimSpace(os.Getenv("ARK_MODEL")),
		EmbeddingModel: strings.TrimSpace(os.Getenv("ARK_EMBEDDING_MODEL")),
		BaseURL:        getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:         getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature:    temperature,
		TopP:           topP,
		MaxTokens:      maxTokens,
		MaxSteps:       maxSteps,
	}, nil
}

// StorageConfig describes the history and course database. An empty
// DatabaseURL means chat history stays in process memory and the
// course/retrieval tools are unavailable.
type StorageConfig struct {
	DatabaseURL string
}

// RetrievalConfig names the vector collections and search depth.
type RetrievalConfig struct {
	GolfCollection   string
	ManualCollection string
	TopK             int
}

func loadRetrievalConfig() (RetrievalConfig, error) {
	topK := 5
	if topKOverride, err := parseOptionalIntEnv("SIMILARITY_TOP_K"); err != nil {
		return RetrievalConfig{}, err
	} else if topKOverride != nil && *topKOverride > 0 {
		topK = *topKOverride
	}

	return RetrievalConfig{
		GolfCollection:   getEnvOrDefault("GOLF_COLLECTION", "golf_courses"),
		ManualCollection: getEnvOrDefault("MANUAL_COLLECTION", "app_manual"),
		TopK:             topK,
	}, nil
}

// ChatConfig bounds the history window supplied to the agent.
type ChatConfig struct {
	HistoryLimit int
}

func loadChatConfig() (ChatConfig, error) {
	limit := 14
	if limitOverride, err := parseOptionalIntEnv("CHAT_HISTORY_LIMIT"); err != nil {
		return ChatConfig{}, err
	} else if limitOverride != nil && *limitOverride > 0 {
		limit = *limitOverride
	}
	return ChatConfig{HistoryLimit: limit}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
