package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MediaFile is one catalogued artifact: an image or video the backend
// produced or the user uploaded. DurationSeconds stays 0 until a duration is
// reported (images never get one).
type MediaFile struct {
	ID              string
	Kind            string
	Path            string
	Filename        string
	DurationSeconds float64
	CreatedAt       time.Time
}

func NewMediaFile(kind, path, filename string) *MediaFile {
	return &MediaFile{
		ID:        uuid.New().String(),
		Kind:      kind,
		Path:      path,
		Filename:  filename,
		CreatedAt: time.Now(),
	}
}

type FileRepo struct {
	db *DB
}

func NewFileRepo(db *DB) *FileRepo {
	return &FileRepo{db: db}
}

// Insert records a media file, updating the filename and kind if the path is
// already known (re-scans must be idempotent).
func (r *FileRepo) Insert(ctx context.Context, f *MediaFile) error {
	query := `
		INSERT INTO media_files (id, kind, path, filename, duration_seconds, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET kind = excluded.kind, filename = excluded.filename`

	_, err := r.db.conn.ExecContext(ctx, query,
		f.ID, f.Kind, f.Path, f.Filename, f.DurationSeconds, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert media file: %w", err)
	}
	return nil
}

// SetDuration records a video's duration once it is known.
func (r *FileRepo) SetDuration(ctx context.Context, path string, seconds float64) error {
	_, err := r.db.conn.ExecContext(ctx,
		`UPDATE media_files SET duration_seconds = ? WHERE path = ?`, seconds, path)
	if err != nil {
		return fmt.Errorf("failed to set duration: %w", err)
	}
	return nil
}

// GetByPath returns the catalogued file behind a reference path.
func (r *FileRepo) GetByPath(ctx context.Context, path string) (*MediaFile, error) {
	row := r.db.conn.QueryRowContext(ctx, `
		SELECT id, kind, path, filename, duration_seconds, created_at
		FROM media_files WHERE path = ?`, path)

	f := &MediaFile{}
	err := row.Scan(&f.ID, &f.Kind, &f.Path, &f.Filename, &f.DurationSeconds, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("media file not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media file: %w", err)
	}
	return f, nil
}

// ListByKind returns files of one kind, newest first.
func (r *FileRepo) ListByKind(ctx context.Context, kind string) ([]MediaFile, error) {
	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT id, kind, path, filename, duration_seconds, created_at
		FROM media_files WHERE kind = ? ORDER BY created_at DESC`, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list media files: %w", err)
	}
	defer rows.Close()

	var files []MediaFile
	for rows.Next() {
		var f MediaFile
		if err := rows.Scan(&f.ID, &f.Kind, &f.Path, &f.Filename, &f.DurationSeconds, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan media file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// DeleteByPath drops the catalog row for a reference path. Missing rows are
// not an error; the file may predate the catalog.
func (r *FileRepo) DeleteByPath(ctx context.Context, path string) error {
	_, err := r.db.conn.ExecContext(ctx, `DELETE FROM media_files WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("failed to delete media file: %w", err)
	}
	return nil
}
