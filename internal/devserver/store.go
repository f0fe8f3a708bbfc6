package devserver

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Shreyaannnnn/rag-news-bot-client/internal"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id);
`

// Store persists sessions and their transcripts in SQLite
type Store struct {
	db *sql.DB
}

// OpenStore opens (and migrates) the session database at path
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	// The sqlite driver serializes access per connection; a single
	// connection avoids table-lock errors from concurrent handlers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateSession inserts a new empty session
func (s *Store) CreateSession(id string) error {
	_, err := s.db.Exec(
		"INSERT INTO sessions (id, title, updated_at) VALUES (?, ?, ?)",
		id, "", time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// ListSessions returns all session summaries, newest first
func (s *Store) ListSessions() ([]internal.SessionSummary, error) {
	rows, err := s.db.Query("SELECT id, title, updated_at FROM sessions ORDER BY updated_at DESC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	sessions := []internal.SessionSummary{}
	for rows.Next() {
		var sum internal.SessionSummary
		if err := rows.Scan(&sum.SessionID, &sum.Title, &sum.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		sessions = append(sessions, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return sessions, nil
}

// SessionExists reports whether a session id is known
func (s *Store) SessionExists(id string) (bool, error) {
	var one int
	err := s.db.QueryRow("SELECT 1 FROM sessions WHERE id = ?", id).Scan(&one)
	switch {
	case err == sql.ErrNoRows:
		return false, nil
	case err != nil:
		return false, fmt.Errorf("query failed: %w", err)
	}
	return true, nil
}

// History returns the full transcript of one session in insertion order
func (s *Store) History(id string) ([]internal.Message, error) {
	rows, err := s.db.Query("SELECT role, content FROM messages WHERE session_id = ? ORDER BY id ASC", id)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	history := []internal.Message{}
	for rows.Next() {
		var msg internal.Message
		if err := rows.Scan(&msg.Role, &msg.Content); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		history = append(history, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return history, nil
}

// AppendMessage appends one message to a session and bumps its timestamp.
// The first user message becomes the session title.
func (s *Store) AppendMessage(id string, msg internal.Message) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		"INSERT INTO messages (session_id, role, content) VALUES (?, ?, ?)",
		id, string(msg.Role), msg.Content,
	); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	if _, err := tx.Exec("UPDATE sessions SET updated_at = ? WHERE id = ?", time.Now().UTC(), id); err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	if msg.Role == internal.RoleUser {
		if _, err := tx.Exec(
			"UPDATE sessions SET title = ? WHERE id = ? AND title = ''",
			title(msg.Content), id,
		); err != nil {
			return fmt.Errorf("failed to set title: %w", err)
		}
	}
	return tx.Commit()
}

// DeleteSession removes a session and its messages
func (s *Store) DeleteSession(id string) (bool, error) {
	if _, err := s.db.Exec("DELETE FROM messages WHERE session_id = ?", id); err != nil {
		return false, fmt.Errorf("failed to delete messages: %w", err)
	}
	res, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// CountSessions returns the number of stored sessions
func (s *Store) CountSessions() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&n); err != nil {
		return 0, fmt.Errorf("query failed: %w", err)
	}
	return n, nil
}

func title(content string) string {
	const max = 48
	if len(content) <= max {
		return content
	}
	return content[:max]
}
