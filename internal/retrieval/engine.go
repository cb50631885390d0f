// Package retrieval implements the semantic search engines behind the
// golf-course and app-manual tools. Each engine embeds the query,
// finds the nearest documents in a pgvector collection, and synthesizes
// an answer from them with the chat model.
package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// Source is one supporting document returned alongside an answer.
type Source struct {
	Content  string
	Metadata map[string]string
	Score    float64
}

// Answer is a synthesized response plus the documents it drew on.
type Answer struct {
	Text    string
	Sources []Source
}

// Engine is the query capability consumed by the tool layer.
type Engine interface {
	Query(ctx context.Context, query string) (Answer, error)
}

const synthesisPrompt = `You are a retrieval assistant. Answer the question using only the context below.
Be concise and factual. If the context does not contain the answer, say so.

Context:
{context}`

// PgVectorEngine searches one collection of a pgvector documents table.
type PgVectorEngine struct {
	pool       *pgxpool.Pool
	embedder   embedding.Embedder
	collection string
	topK       int
	chain      compose.Runnable[map[string]any, *schema.Message]
}

// NewPgVectorEngine compiles the synthesis chain and returns an engine
// bound to one collection.
func NewPgVectorEngine(ctx context.Context, pool *pgxpool.Pool, chatModel model.BaseChatModel, embedder embedding.Embedder, collection string, topK int) (*PgVectorEngine, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(synthesisPrompt),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile synthesis chain: %w", err)
	}

	if topK <= 0 {
		topK = 5
	}

	return &PgVectorEngine{
		pool:       pool,
		embedder:   embedder,
		collection: collection,
		topK:       topK,
		chain:      runnable,
	}, nil
}

// Query embeds the query, retrieves the nearest documents, and
// synthesizes an answer from them.
func (e *PgVectorEngine) Query(ctx context.Context, query string) (Answer, error) {
	sources, err := e.search(ctx, query)
	if err != nil {
		return Answer{}, err
	}
	if len(sources) == 0 {
		return Answer{Text: "No relevant information was found."}, nil
	}

	contexts := make([]string, 0, len(sources))
	for _, src := range sources {
		contexts = append(contexts, src.Content)
	}

	response, err := e.chain.Invoke(ctx, map[string]any{
		"context": strings.Join(contexts, "\n\n---\n\n"),
		"query":   query,
	})
	if err != nil {
		return Answer{}, fmt.Errorf("synthesize answer: %w", err)
	}

	return Answer{Text: response.Content, Sources: sources}, nil
}

func (e *PgVectorEngine) search(ctx context.Context, query string) ([]Source, error) {
	vectors, err := e.embedder.EmbedStrings(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("empty embedding returned for query")
	}

	vec := make([]float32, len(vectors[0]))
	for i, v := range vectors[0] {
		vec[i] = float32(v)
	}
	queryVec := pgvector.NewVector(vec)

	rows, err := e.pool.Query(ctx,
		`SELECT content, metadata, 1 - (embedding <=> $1) AS score
		 FROM rag_documents WHERE collection = $2
		 ORDER BY embedding <=> $1 LIMIT $3`,
		queryVec, e.collection, e.topK,
	)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()

	sources := make([]Source, 0, e.topK)
	for rows.Next() {
		var src Source
		var metadataJSON []byte
		if err := rows.Scan(&src.Content, &metadataJSON, &src.Score); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		if len(metadataJSON) > 0 {
			// Metadata is best effort; a malformed blob only loses the
			// source annotations, not the answer.
			_ = json.Unmarshal(metadataJSON, &src.Metadata)
		}
		sources = append(sources, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document rows: %w", err)
	}
	return sources, nil
}
