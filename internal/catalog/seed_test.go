package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mkorchagin/scenecut/internal/storage"
)

func TestSeedFromScan(t *testing.T) {
	mediaDir := t.TempDir()
	store, err := storage.NewMediaStore(mediaDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if err := os.WriteFile(filepath.Join(mediaDir, "generated_videos", "old.mp4"), []byte("v"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(mediaDir, "generated_images", "old.png"), []byte("i"), 0644); err != nil {
		t.Fatal(err)
	}

	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	repo := NewFileRepo(db)

	if err := SeedFromScan(store, repo); err != nil {
		t.Fatalf("Failed to seed: %v", err)
	}

	videos, err := repo.ListByKind(context.Background(), "video")
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(videos) != 1 || videos[0].Path != "/generated_videos/old.mp4" {
		t.Errorf("Unexpected videos: %+v", videos)
	}

	// Re-seeding the same tree does not duplicate entries.
	if err := SeedFromScan(store, repo); err != nil {
		t.Fatalf("Failed to re-seed: %v", err)
	}
	videos, _ = repo.ListByKind(context.Background(), "video")
	if len(videos) != 1 {
		t.Errorf("Re-seed duplicated entries: %d", len(videos))
	}
}
