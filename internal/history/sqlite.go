package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/calcsh/calcsh/internal/store"
)

// SQLite is a tracker backed by a SQLite database. Rows are tagged with a
// per-session ID so entries from different sessions stay distinguishable;
// All only returns the current session's entries.
type SQLite struct {
	db        *store.DB
	sessionID string
}

// NewSQLite creates a SQLite-backed tracker over an open database.
func NewSQLite(db *store.DB) *SQLite {
	return &SQLite{db: db, sessionID: uuid.New().String()}
}

// SessionID returns the ID tagged onto this session's entries.
func (s *SQLite) SessionID() string { return s.sessionID }

// Add appends one entry.
func (s *SQLite) Add(command string, args []string, result string, success bool) error {
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encoding args: %w", err)
	}

	_, err = s.db.SQL().Exec(
		`INSERT INTO history (id, session_id, command, args, result, success, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), s.sessionID, command, string(argsJSON),
		result, boolToInt(success), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting history entry: %w", err)
	}
	return nil
}

// All returns every entry of the current session, oldest first.
func (s *SQLite) All() ([]Entry, error) {
	rows, err := s.db.SQL().Query(
		`SELECT id, command, args, result, success, created_at
		 FROM history WHERE session_id = ? ORDER BY rowid`,
		s.sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e        Entry
			argsJSON string
			success  int
			created  string
		)
		if err := rows.Scan(&e.ID, &e.Command, &argsJSON, &e.Result, &success, &created); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		if err := json.Unmarshal([]byte(argsJSON), &e.Args); err != nil {
			return nil, fmt.Errorf("decoding args: %w", err)
		}
		e.Success = success != 0
		if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
			e.Timestamp = ts
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Clear removes the current session's entries.
func (s *SQLite) Clear() error {
	_, err := s.db.SQL().Exec("DELETE FROM history WHERE session_id = ?", s.sessionID)
	return err
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
