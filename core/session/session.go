// Package session persists conversations in SQLite so context survives
// restarts. Each session carries a free-form context map (research
// area, academic stage) that downstream agents read when capturing
// struggles.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a session id has no row.
var ErrNotFound = errors.New("session: not found")

// Message is one turn of a stored conversation.
type Message struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	AgentUsed string    `json:"agent_used,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is a stored conversation.
type Session struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Context   map[string]any `json:"context,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Summary is an aggregate view of a session.
type Summary struct {
	MessageCount int      `json:"message_count"`
	AgentsUsed   []string `json:"agents_used"`
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	context    TEXT NOT NULL DEFAULT '{}',
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL REFERENCES sessions(id),
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	agent_used TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id);
`

// Store is a SQLite-backed session store.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (and migrates) the session database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("session: open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("session: migrate: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Create starts a new session for userID with an optional context map.
func (s *Store) Create(ctx context.Context, userID string, sessionContext map[string]any) (Session, error) {
	if sessionContext == nil {
		sessionContext = map[string]any{}
	}

	encoded, err := json.Marshal(sessionContext)
	if err != nil {
		return Session{}, fmt.Errorf("session: encode context: %w", err)
	}

	session := Session{
		ID:        fmt.Sprintf("session_%s", uuid.New().String()[:8]),
		UserID:    userID,
		Context:   sessionContext,
		CreatedAt: time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, context, created_at) VALUES (?, ?, ?, ?)`,
		session.ID, session.UserID, string(encoded), session.CreatedAt,
	)
	if err != nil {
		return Session{}, fmt.Errorf("session: create: %w", err)
	}

	return session, nil
}

// Get fetches a session by id.
func (s *Store) Get(ctx context.Context, sessionID string) (Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, context, created_at FROM sessions WHERE id = ?`,
		sessionID,
	)

	var session Session
	var rawContext string
	if err := row.Scan(&session.ID, &session.UserID, &rawContext, &session.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, fmt.Errorf("session: get: %w", err)
	}

	if err := json.Unmarshal([]byte(rawContext), &session.Context); err != nil {
		s.logger.Warn("session context failed to decode", "session_id", sessionID, "error", err)
		session.Context = map[string]any{}
	}

	return session, nil
}

// UpdateContext replaces the session's context map.
func (s *Store) UpdateContext(ctx context.Context, sessionID string, sessionContext map[string]any) error {
	encoded, err := json.Marshal(sessionContext)
	if err != nil {
		return fmt.Errorf("session: encode context: %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET context = ? WHERE id = ?`,
		string(encoded), sessionID,
	)
	if err != nil {
		return fmt.Errorf("session: update context: %w", err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendMessage stores one conversation turn.
func (s *Store) AppendMessage(ctx context.Context, sessionID, role, content, agentUsed string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (session_id, role, content, agent_used, created_at) VALUES (?, ?, ?, ?, ?)`,
		sessionID, role, content, agentUsed, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("session: append message: %w", err)
	}
	return nil
}

// History returns the last limit messages in chronological order. A
// non-positive limit returns everything.
func (s *Store) History(ctx context.Context, sessionID string, limit int) ([]Message, error) {
	query := `SELECT id, session_id, role, content, agent_used, created_at
		FROM messages WHERE session_id = ? ORDER BY id DESC`
	args := []any{sessionID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("session: history: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &msg.AgentUsed, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("session: scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("session: history: %w", err)
	}

	// Rows arrive newest-first; flip to chronological.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// Summary aggregates message count and the distinct agents used.
func (s *Store) Summary(ctx context.Context, sessionID string) (Summary, error) {
	var summary Summary

	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE session_id = ?`,
		sessionID,
	)
	if err := row.Scan(&summary.MessageCount); err != nil {
		return Summary{}, fmt.Errorf("session: summary count: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT agent_used FROM messages WHERE session_id = ? AND agent_used != '' ORDER BY agent_used`,
		sessionID,
	)
	if err != nil {
		return Summary{}, fmt.Errorf("session: summary agents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var agent string
		if err := rows.Scan(&agent); err != nil {
			return Summary{}, fmt.Errorf("session: scan agent: %w", err)
		}
		summary.AgentsUsed = append(summary.AgentsUsed, agent)
	}
	if err := rows.Err(); err != nil {
		return Summary{}, fmt.Errorf("session: summary agents: %w", err)
	}

	return summary, nil
}
