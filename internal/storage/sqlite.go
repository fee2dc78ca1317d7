package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/keepsake/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		caption TEXT NOT NULL,
		image_count INTEGER NOT NULL DEFAULT 0,
		date TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		recommended_layout TEXT NOT NULL DEFAULT '',
		decorations TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_records_created_at ON records(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

const recordColumns = `id, title, caption, image_count, date, location, tags, recommended_layout, decorations, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.Record, error) {
	var rec models.Record
	var tagsJSON, layout string
	if err := row.Scan(&rec.ID, &rec.Title, &rec.Caption, &rec.ImageCount, &rec.Date, &rec.Location,
		&tagsJSON, &layout, &rec.Decorations, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.RecommendedLayout = models.Template(layout)
	if tagsJSON != "" {
		if err := json.Unmarshal([]byte(tagsJSON), &rec.Tags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
		}
	}
	return &rec, nil
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tags: %w", err)
	}
	return string(data), nil
}

// CreateRecord inserts a record and sets its timestamps.
func (s *SQLiteStorage) CreateRecord(ctx context.Context, rec *models.Record) error {
	tags, err := marshalTags(rec.Tags)
	if err != nil {
		return err
	}

	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (`+recordColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Title, rec.Caption, rec.ImageCount, rec.Date, rec.Location,
		tags, string(rec.RecommendedLayout), rec.Decorations, rec.CreatedAt, rec.UpdatedAt,
	)
	return err
}

// GetRecord returns a record by ID.
func (s *SQLiteStorage) GetRecord(ctx context.Context, id string) (*models.Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateRecord rewrites every field of an existing record.
func (s *SQLiteStorage) UpdateRecord(ctx context.Context, rec *models.Record) error {
	tags, err := marshalTags(rec.Tags)
	if err != nil {
		return err
	}

	rec.UpdatedAt = time.Now()

	result, err := s.db.ExecContext(ctx,
		`UPDATE records SET title = ?, caption = ?, image_count = ?, date = ?, location = ?, tags = ?,
		 recommended_layout = ?, decorations = ?, updated_at = ?
		 WHERE id = ?`,
		rec.Title, rec.Caption, rec.ImageCount, rec.Date, rec.Location, tags,
		string(rec.RecommendedLayout), rec.Decorations, rec.UpdatedAt, rec.ID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, rec.ID)
	}
	return nil
}

// UpdateComposition overwrites the recommended layout and decorations of a record.
func (s *SQLiteStorage) UpdateComposition(ctx context.Context, id string, layout models.Template, decorations string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE records SET recommended_layout = ?, decorations = ?, updated_at = ? WHERE id = ?`,
		string(layout), decorations, time.Now(), id,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// DeleteRecord removes a record, and its decorations with it.
func (s *SQLiteStorage) DeleteRecord(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	return err
}

// ListRecords returns records newest first with offset and limit.
func (s *SQLiteStorage) ListRecords(ctx context.Context, offset, limit int) ([]*models.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM records ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*models.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// CountRecords returns the total number of records.
func (s *SQLiteStorage) CountRecords(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
