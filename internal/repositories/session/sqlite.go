package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	// registers the "sqlite" driver
	_ "modernc.org/sqlite"

	"github.com/KirkDiggler/rpg-engine/internal/errors"
	"github.com/KirkDiggler/rpg-engine/internal/pkg/clock"
)

const createSessionsTable = `CREATE TABLE IF NOT EXISTS sessions (
	id          TEXT PRIMARY KEY,
	player_name TEXT NOT NULL,
	level       INTEGER NOT NULL,
	data        TEXT NOT NULL,
	saved_at    INTEGER NOT NULL
)`

// SQLiteRepository stores snapshots in a SQLite file
type SQLiteRepository struct {
	db    *sql.DB
	clock clock.Clock
}

var _ Repository = (*SQLiteRepository)(nil)

// SQLiteConfig holds the settings for the SQLite repository
type SQLiteConfig struct {
	Path  string
	Clock clock.Clock
}

// Validate ensures all required settings are provided
func (c *SQLiteConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if strings.TrimSpace(c.Path) == "" {
		vb.RequiredField("Path")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

// OpenSQLite opens the database file and creates the schema
func OpenSQLite(ctx context.Context, cfg *SQLiteConfig) (*SQLiteRepository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	dsn := filepath.Clean(cfg.Path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to open sqlite db")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to ping sqlite db")
	}
	if _, err := db.ExecContext(ctx, createSessionsTable); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to create sessions table")
	}

	return &SQLiteRepository{db: db, clock: cfg.Clock}, nil
}

// Close closes the database handle
func (r *SQLiteRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Save upserts the snapshot
func (r *SQLiteRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.Snapshot == nil {
		return nil, errors.InvalidArgument(errSnapshotNil)
	}
	if input.Snapshot.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	snap := *input.Snapshot
	snap.SavedAt = r.clock.Now().UTC()
	if snap.Version == 0 {
		snap.Version = SnapshotVersion
	}

	data, err := json.Marshal(&snap)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal session %s", snap.ID)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, player_name, level, data, saved_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   player_name = excluded.player_name,
		   level = excluded.level,
		   data = excluded.data,
		   saved_at = excluded.saved_at`,
		snap.ID,
		snap.Player.Name,
		snap.Player.Level,
		string(data),
		toMillis(snap.SavedAt),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store session %s", snap.ID)
	}

	return &SaveOutput{Snapshot: &snap}, nil
}

// Get loads a snapshot by id
func (r *SQLiteRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM sessions WHERE id = ?`, input.ID).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("session %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get session %s", input.ID)
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to unmarshal session")
	}

	return &GetOutput{Snapshot: &snap}, nil
}

// Delete removes a snapshot
func (r *SQLiteRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, input.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete session %s", input.ID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete session %s", input.ID)
	}
	if n == 0 {
		return nil, errors.NotFoundf("session %s not found", input.ID)
	}

	return &DeleteOutput{}, nil
}

// List returns summaries ordered by id
func (r *SQLiteRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, player_name, level, saved_at FROM sessions ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sessions")
	}
	defer func() { _ = rows.Close() }()

	out := &ListOutput{Sessions: []Summary{}}
	for rows.Next() {
		var (
			s       Summary
			savedAt int64
		)
		if err := rows.Scan(&s.ID, &s.Player, &s.Level, &savedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan session row")
		}
		s.SavedAt = fromMillis(savedAt)
		out.Sessions = append(out.Sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to list sessions")
	}

	return out, nil
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}
