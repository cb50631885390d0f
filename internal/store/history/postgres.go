package history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/golfguiders/guiders-ai/backend/internal/model/chat"
)

// PostgresStore persists chat history in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects a pool and ensures the history schema.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS chat_by_user (
			chat_id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			title TEXT,
			created TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chat_by_user_user ON chat_by_user (user_id, created DESC);`,
		`CREATE TABLE IF NOT EXISTS history_by_chat (
			history_id UUID PRIMARY KEY,
			chat_id UUID NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created TIMESTAMPTZ NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_history_by_chat_chat ON history_by_chat (chat_id, created);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init history schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) InsertChat(ctx context.Context, c chat.Chat) error {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO chat_by_user (chat_id, user_id, title, created) VALUES ($1, $2, NULLIF($3, ''), $4)`,
		c.ID, c.UserID, c.Title, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert chat: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotAcknowledged
	}
	return nil
}

func (s *PostgresStore) InsertMessage(ctx context.Context, m chat.Message) error {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO history_by_chat (history_id, chat_id, role, content, created) VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.ChatID, string(m.Role), m.Content, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotAcknowledged
	}
	return nil
}

func (s *PostgresStore) ChatExists(ctx context.Context, chatID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM chat_by_user WHERE chat_id = $1)`, chatID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("chat exists: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) ChatsByUser(ctx context.Context, userID string) ([]chat.Chat, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT chat_id, user_id, title, created FROM chat_by_user WHERE user_id = $1 ORDER BY created DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query chats: %w", err)
	}
	defer rows.Close()

	chats := make([]chat.Chat, 0, 8)
	for rows.Next() {
		var c chat.Chat
		var title pgtype.Text
		if err := rows.Scan(&c.ID, &c.UserID, &title, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat row: %w", err)
		}
		c.Title = title.String
		chats = append(chats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat rows: %w", err)
	}
	return chats, nil
}

func (s *PostgresStore) MessagesByChat(ctx context.Context, chatID string) ([]chat.Message, error) {
	return s.queryMessages(ctx,
		`SELECT history_id, chat_id, role, content, created FROM history_by_chat WHERE chat_id = $1 ORDER BY created ASC`,
		chatID,
	)
}

func (s *PostgresStore) RecentMessages(ctx context.Context, chatID string, limit int) ([]chat.Message, error) {
	return s.queryMessages(ctx,
		`SELECT history_id, chat_id, role, content, created FROM history_by_chat WHERE chat_id = $1 ORDER BY created DESC LIMIT $2`,
		chatID, limit,
	)
}

func (s *PostgresStore) queryMessages(ctx context.Context, sql string, args ...any) ([]chat.Message, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]chat.Message, 0, 16)
	for rows.Next() {
		var m chat.Message
		var role string
		if err := rows.Scan(&m.ID, &m.ChatID, &role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		m.Role = chat.ParseRole(role)
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate message rows: %w", err)
	}
	return messages, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
