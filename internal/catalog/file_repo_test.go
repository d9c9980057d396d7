package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestFileRepo_InsertAndGet(t *testing.T) {
	repo := NewFileRepo(setupTestDB(t))
	ctx := context.Background()

	f := NewMediaFile("video", "/generated_videos/a.mp4", "a.mp4")
	if err := repo.Insert(ctx, f); err != nil {
		t.Fatalf("Failed to insert: %v", err)
	}

	got, err := repo.GetByPath(ctx, f.Path)
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	if got.Filename != "a.mp4" || got.Kind != "video" {
		t.Errorf("got %+v", got)
	}
}

func TestFileRepo_InsertIdempotentOnPath(t *testing.T) {
	repo := NewFileRepo(setupTestDB(t))
	ctx := context.Background()

	if err := repo.Insert(ctx, NewMediaFile("video", "/generated_videos/a.mp4", "a.mp4")); err != nil {
		t.Fatalf("Failed to insert: %v", err)
	}
	if err := repo.Insert(ctx, NewMediaFile("video", "/generated_videos/a.mp4", "a.mp4")); err != nil {
		t.Fatalf("Re-insert of the same path failed: %v", err)
	}

	files, err := repo.ListByKind(ctx, "video")
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("Expected 1 file after duplicate insert, got %d", len(files))
	}
}

func TestFileRepo_SetDuration(t *testing.T) {
	repo := NewFileRepo(setupTestDB(t))
	ctx := context.Background()

	f := NewMediaFile("video", "/generated_videos/a.mp4", "a.mp4")
	if err := repo.Insert(ctx, f); err != nil {
		t.Fatal(err)
	}
	if err := repo.SetDuration(ctx, f.Path, 12.5); err != nil {
		t.Fatalf("Failed to set duration: %v", err)
	}

	got, err := repo.GetByPath(ctx, f.Path)
	if err != nil {
		t.Fatal(err)
	}
	if got.DurationSeconds != 12.5 {
		t.Errorf("duration = %v, want 12.5", got.DurationSeconds)
	}
}

func TestFileRepo_ListByKindOrder(t *testing.T) {
	repo := NewFileRepo(setupTestDB(t))
	ctx := context.Background()

	older := NewMediaFile("image", "/generated_images/old.png", "old.png")
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := NewMediaFile("image", "/generated_images/new.png", "new.png")

	if err := repo.Insert(ctx, older); err != nil {
		t.Fatal(err)
	}
	if err := repo.Insert(ctx, newer); err != nil {
		t.Fatal(err)
	}
	if err := repo.Insert(ctx, NewMediaFile("video", "/generated_videos/v.mp4", "v.mp4")); err != nil {
		t.Fatal(err)
	}

	images, err := repo.ListByKind(ctx, "image")
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("Expected 2 images, got %d", len(images))
	}
	if images[0].Path != newer.Path {
		t.Errorf("Expected newest first, got %s", images[0].Path)
	}
}

func TestFileRepo_DeleteByPath(t *testing.T) {
	repo := NewFileRepo(setupTestDB(t))
	ctx := context.Background()

	f := NewMediaFile("video", "/generated_videos/a.mp4", "a.mp4")
	if err := repo.Insert(ctx, f); err != nil {
		t.Fatal(err)
	}
	if err := repo.DeleteByPath(ctx, f.Path); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	if _, err := repo.GetByPath(ctx, f.Path); err == nil {
		t.Error("Expected error for deleted file, got nil")
	}

	if err := repo.DeleteByPath(ctx, "/generated_videos/never-existed.mp4"); err != nil {
		t.Errorf("Deleting an unknown path must not error: %v", err)
	}
}
