package catalog

import (
	"context"
	"fmt"

	"github.com/mkorchagin/scenecut/internal/storage"
)

// SeedFromScan registers every media file found on disk, so artifacts from
// earlier runs show up in the gallery. Inserts are idempotent by path.
func SeedFromScan(store storage.Store, repo *FileRepo) error {
	found, err := store.Scan()
	if err != nil {
		return fmt.Errorf("failed to scan media root: %w", err)
	}

	ctx := context.Background()
	for _, f := range found {
		if err := repo.Insert(ctx, NewMediaFile(f.Kind, f.Path, f.Filename)); err != nil {
			return fmt.Errorf("failed to seed %s: %w", f.Path, err)
		}
	}
	return nil
}
