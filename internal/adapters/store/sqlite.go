package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/avesta/hackboard/internal/domain/model"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	event_id   TEXT PRIMARY KEY,
	doc        TEXT NOT NULL,
	version    INTEGER NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
`

// SQLiteGateway implements Gateway over a single SQLite file. The whole
// aggregate is stored as one JSON document per row; the version column backs
// the conditional replace.
type SQLiteGateway struct {
	db *sql.DB
}

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// OpenSQLite opens (creating if needed) the events database at path.
func OpenSQLite(path string) (*SQLiteGateway, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: storage path is required", ErrUnavailable)
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite db: %v", ErrUnavailable, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping sqlite db: %v", ErrUnavailable, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: apply schema: %v", ErrUnavailable, err)
	}

	return &SQLiteGateway{db: db}, nil
}

// Close releases the underlying database.
func (g *SQLiteGateway) Close() error {
	if g == nil || g.db == nil {
		return nil
	}
	return g.db.Close()
}

// GetByID returns the stored document, or ErrNotFound.
func (g *SQLiteGateway) GetByID(ctx context.Context, eventID string) (*model.Event, error) {
	defer observe("get")()

	var doc string
	var version int64
	err := g.db.QueryRowContext(ctx,
		`SELECT doc, version FROM events WHERE event_id = ?`, eventID,
	).Scan(&doc, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: query event: %v", ErrUnavailable, err)
	}
	return decodeDoc(doc, version)
}

// Create inserts a new document at version 1.
func (g *SQLiteGateway) Create(ctx context.Context, ev *model.Event) (*model.Event, error) {
	defer observe("create")()

	stored := ev.Clone()
	stored.Version = 1
	doc, err := encodeDoc(stored)
	if err != nil {
		return nil, err
	}

	_, err = g.db.ExecContext(ctx,
		`INSERT INTO events (event_id, doc, version, created_at, updated_at) VALUES (?, ?, 1, ?, ?)`,
		stored.EventID, doc, toMillis(stored.CreatedAt), toMillis(stored.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("%w: insert event: %v", ErrUnavailable, err)
	}
	return stored, nil
}

// Replace overwrites the document only when the stored version matches
// ev.Version, writing version+1.
func (g *SQLiteGateway) Replace(ctx context.Context, ev *model.Event) (*model.Event, error) {
	defer observe("replace")()

	stored := ev.Clone()
	stored.Version = ev.Version + 1
	doc, err := encodeDoc(stored)
	if err != nil {
		return nil, err
	}

	res, err := g.db.ExecContext(ctx,
		`UPDATE events SET doc = ?, version = ?, updated_at = ? WHERE event_id = ? AND version = ?`,
		doc, stored.Version, toMillis(stored.UpdatedAt), stored.EventID, ev.Version,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: update event: %v", ErrUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: rows affected: %v", ErrUnavailable, err)
	}
	if n == 0 {
		// Disambiguate a stale version from a missing row.
		var current int64
		err := g.db.QueryRowContext(ctx,
			`SELECT version FROM events WHERE event_id = ?`, stored.EventID,
		).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("%w: query version: %v", ErrUnavailable, err)
		}
		return nil, ErrVersionMismatch
	}
	return stored, nil
}

// Delete removes the document.
func (g *SQLiteGateway) Delete(ctx context.Context, eventID string) error {
	defer observe("delete")()

	res, err := g.db.ExecContext(ctx, `DELETE FROM events WHERE event_id = ?`, eventID)
	if err != nil {
		return fmt.Errorf("%w: delete event: %v", ErrUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %v", ErrUnavailable, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ScanAll returns every stored document.
func (g *SQLiteGateway) ScanAll(ctx context.Context) ([]*model.Event, error) {
	defer observe("scan")()

	rows, err := g.db.QueryContext(ctx, `SELECT doc, version FROM events ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("%w: scan events: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var out []*model.Event
	for rows.Next() {
		var doc string
		var version int64
		if err := rows.Scan(&doc, &version); err != nil {
			return nil, fmt.Errorf("%w: scan row: %v", ErrUnavailable, err)
		}
		ev, err := decodeDoc(doc, version)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate rows: %v", ErrUnavailable, err)
	}
	return out, nil
}

func encodeDoc(ev *model.Event) (string, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return "", fmt.Errorf("%w: encode document: %v", ErrUnavailable, err)
	}
	return string(b), nil
}

func decodeDoc(doc string, version int64) (*model.Event, error) {
	var ev model.Event
	if err := json.Unmarshal([]byte(doc), &ev); err != nil {
		return nil, fmt.Errorf("%w: decode document: %v", ErrUnavailable, err)
	}
	// The version column is authoritative over whatever the JSON carries.
	ev.Version = version
	return &ev, nil
}
