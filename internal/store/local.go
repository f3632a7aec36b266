// Package store persists calculator history in a local SQLite database.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"tally/internal/calc"
)

// timeLayout is a fixed-width RFC 3339 layout. RFC3339Nano trims trailing
// zeros from the fraction, which breaks lexicographic ordering on the
// created_at column; nine fixed fraction digits keep string order equal to
// time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// LocalStore keeps sessions and their operations in SQLite.
type LocalStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// SessionInfo describes one recorded session.
type SessionInfo struct {
	ID         string
	Label      string
	StartedAt  time.Time
	Operations int64
}

// NewLocalStore initializes the SQLite database at the given path.
func NewLocalStore(path string) (*LocalStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &LocalStore{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// initialize creates the required tables.
func (s *LocalStore) initialize() error {
	sessionsTable := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		label TEXT,
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	operationsTable := `
	CREATE TABLE IF NOT EXISTS operations (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		seq INTEGER,
		op TEXT NOT NULL,
		left_operand REAL NOT NULL,
		right_operand REAL NOT NULL,
		result REAL NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_operations_session ON operations(session_id);
	CREATE INDEX IF NOT EXISTS idx_operations_op ON operations(op);
	`

	for _, table := range []string{sessionsTable, operationsTable} {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *LocalStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *LocalStore) Path() string {
	return s.dbPath
}

// BeginSession registers a new session and returns its id.
func (s *LocalStore) BeginSession(label string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	_, err := s.db.Exec(
		"INSERT INTO sessions (id, label) VALUES (?, ?)",
		id, label,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

// SaveOperation appends one completed operation to a session.
func (s *LocalStore) SaveOperation(sessionID string, op calc.Operation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// seq preserves insertion order even when timestamps collide.
	var next sql.NullInt64
	row := s.db.QueryRow(
		"SELECT MAX(seq) FROM operations WHERE session_id = ?", sessionID,
	)
	if err := row.Scan(&next); err != nil {
		return fmt.Errorf("failed to read sequence: %w", err)
	}

	_, err := s.db.Exec(
		`INSERT INTO operations
		 (id, session_id, seq, op, left_operand, right_operand, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		op.ID, sessionID, next.Int64+1, string(op.Op),
		op.Left, op.Right, op.Result, op.At.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save operation: %w", err)
	}
	return nil
}

// History returns a session's operations in insertion order.
// A limit <= 0 returns everything.
func (s *LocalStore) History(sessionID string, limit int) ([]calc.Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, op, left_operand, right_operand, result, created_at
	          FROM operations WHERE session_id = ? ORDER BY seq ASC`
	args := []interface{}{sessionID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	return scanOperations(rows)
}

// AllOperations returns every stored operation across sessions, oldest first.
// A limit <= 0 returns everything.
func (s *LocalStore) AllOperations(limit int) ([]calc.Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, op, left_operand, right_operand, result, created_at
	          FROM operations ORDER BY created_at ASC, seq ASC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query operations: %w", err)
	}
	defer rows.Close()

	return scanOperations(rows)
}

func scanOperations(rows *sql.Rows) ([]calc.Operation, error) {
	var ops []calc.Operation
	for rows.Next() {
		var op calc.Operation
		var kind, createdAt string
		if err := rows.Scan(&op.ID, &kind, &op.Left, &op.Right, &op.Result, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		op.Op = calc.Op(kind)
		t, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse operation time %q: %w", createdAt, err)
		}
		op.At = t
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

// CountOperations returns the total number of stored operations.
func (s *LocalStore) CountOperations() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM operations").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count operations: %w", err)
	}
	return n, nil
}

// Sessions lists recorded sessions, newest first.
func (s *LocalStore) Sessions() ([]SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT s.id, s.label, s.started_at, COUNT(o.id)
		FROM sessions s
		LEFT JOIN operations o ON o.session_id = s.id
		GROUP BY s.id
		ORDER BY s.started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []SessionInfo
	for rows.Next() {
		var info SessionInfo
		var started string
		if err := rows.Scan(&info.ID, &info.Label, &started, &info.Operations); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		t, err := time.Parse("2006-01-02 15:04:05", started)
		if err != nil {
			return nil, fmt.Errorf("failed to parse session time %q: %w", started, err)
		}
		info.StartedAt = t
		sessions = append(sessions, info)
	}
	return sessions, rows.Err()
}

// PruneSessions deletes sessions that started more than maxAge ago, along
// with their operations. Returns the number of sessions removed.
func (s *LocalStore) PruneSessions(maxAge time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// started_at is written by SQLite's CURRENT_TIMESTAMP, which is UTC in
	// "2006-01-02 15:04:05" form.
	cutoff := time.Now().UTC().Add(-maxAge).Format("2006-01-02 15:04:05")

	if _, err := s.db.Exec(
		"DELETE FROM operations WHERE session_id IN (SELECT id FROM sessions WHERE started_at < ?)",
		cutoff,
	); err != nil {
		return 0, fmt.Errorf("failed to prune operations: %w", err)
	}

	res, err := s.db.Exec("DELETE FROM sessions WHERE started_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned sessions: %w", err)
	}
	return n, nil
}

// SessionRecorder adapts a LocalStore session to the calc.Recorder interface.
type SessionRecorder struct {
	store     *LocalStore
	sessionID string
}

// NewSessionRecorder binds a recorder to an existing session.
func NewSessionRecorder(s *LocalStore, sessionID string) *SessionRecorder {
	return &SessionRecorder{store: s, sessionID: sessionID}
}

// Record persists one operation into the bound session.
func (r *SessionRecorder) Record(op calc.Operation) error {
	return r.store.SaveOperation(r.sessionID, op)
}
