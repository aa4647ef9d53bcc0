package snapshots

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const createSnapshotsTable = `CREATE TABLE IF NOT EXISTS wizard_snapshots (
	id         TEXT PRIMARY KEY,
	step       INTEGER NOT NULL,
	character  BLOB NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
)`

var _ Repository = (*SQLiteRepository)(nil)

// SQLiteRepository persists snapshots in a single SQLite table
type SQLiteRepository struct {
	db           *sql.DB
	timeProvider TimeProvider
}

// OpenSQLite opens the database at path, creating the table when needed
func OpenSQLite(path string, timeProvider TimeProvider) (*SQLiteRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if timeProvider == nil {
		timeProvider = SystemClock()
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(createSnapshotsTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}

	return &SQLiteRepository{db: db, timeProvider: timeProvider}, nil
}

// Close releases the underlying SQLite connection
func (r *SQLiteRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Create stores a new snapshot
func (r *SQLiteRepository) Create(ctx context.Context, snapshot *Snapshot) error {
	if err := checkSnapshot(snapshot); err != nil {
		return err
	}

	now := r.timeProvider.Now()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO wizard_snapshots (id, step, character, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		snapshot.ID, snapshot.Step, []byte(snapshot.Character), now.UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return alreadyExists(snapshot.ID)
	}

	snapshot.CreatedAt = unixMillis(now.UnixMilli())
	snapshot.UpdatedAt = snapshot.CreatedAt
	return nil
}

// Get retrieves a snapshot by ID
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*Snapshot, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, step, character, created_at, updated_at
		 FROM wizard_snapshots
		 WHERE id = ?`,
		id,
	)
	snapshot, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return snapshot, nil
}

// Update replaces an existing snapshot, keeping its creation time
func (r *SQLiteRepository) Update(ctx context.Context, snapshot *Snapshot) error {
	if err := checkSnapshot(snapshot); err != nil {
		return err
	}

	now := r.timeProvider.Now().UnixMilli()
	res, err := r.db.ExecContext(ctx,
		`UPDATE wizard_snapshots SET step = ?, character = ?, updated_at = ? WHERE id = ?`,
		snapshot.Step, []byte(snapshot.Character), now, snapshot.ID,
	)
	if err != nil {
		return fmt.Errorf("update snapshot: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound(snapshot.ID)
	}

	stored, err := r.Get(ctx, snapshot.ID)
	if err != nil {
		return err
	}
	snapshot.CreatedAt = stored.CreatedAt
	snapshot.UpdatedAt = stored.UpdatedAt
	return nil
}

// Delete removes a snapshot
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM wizard_snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound(id)
	}
	return nil
}

// List returns every snapshot, oldest first
func (r *SQLiteRepository) List(ctx context.Context) ([]*Snapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, step, character, created_at, updated_at
		 FROM wizard_snapshots
		 ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	result := make([]*Snapshot, 0)
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		result = append(result, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*Snapshot, error) {
	var (
		s         Snapshot
		character []byte
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&s.ID, &s.Step, &character, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	s.Character = character
	s.CreatedAt = unixMillis(createdAt)
	s.UpdatedAt = unixMillis(updatedAt)
	return &s, nil
}

func unixMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
