package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	dirGeneratedImages = "generated_images"
	dirUploadedImages  = "uploaded_images"
	dirGeneratedVideos = "generated_videos"
)

// mediaDirs maps the public path prefix of each reference to its directory
// under the root and the file kind it holds.
var mediaDirs = map[string]struct {
	dir  string
	kind string
}{
	"/generated_images/": {dirGeneratedImages, "image"},
	"/uploaded_images/":  {dirUploadedImages, "image"},
	"/generated_videos/": {dirGeneratedVideos, "video"},
}

var allowedExts = map[string]map[string]bool{
	dirGeneratedImages: {".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true},
	dirUploadedImages:  {".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true},
	dirGeneratedVideos: {".mp4": true},
}

// MediaStore is a Store rooted at the media directory shared with the
// generation backend: the backend writes artifacts there, this service
// serves, uploads and deletes them.
type MediaStore struct {
	basePath string
}

func NewMediaStore(basePath string) (*MediaStore, error) {
	for _, m := range mediaDirs {
		if err := os.MkdirAll(filepath.Join(basePath, m.dir), 0755); err != nil {
			return nil, fmt.Errorf("failed to create media directory: %w", err)
		}
	}
	return &MediaStore{basePath: basePath}, nil
}

// Open returns the file behind a public reference path for streaming.
func (ms *MediaStore) Open(refPath string) (io.ReadSeekCloser, error) {
	fullPath, err := ms.resolve(refPath)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Delete removes the file behind a public reference path.
func (ms *MediaStore) Delete(refPath string) error {
	fullPath, err := ms.resolve(refPath)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Scan enumerates every recognized media file under the root, used to seed
// the catalog at startup with artifacts from earlier runs.
func (ms *MediaStore) Scan() ([]MediaFile, error) {
	var files []MediaFile
	for prefix, m := range mediaDirs {
		entries, err := os.ReadDir(filepath.Join(ms.basePath, m.dir))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to scan %s: %w", m.dir, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(e.Name()))
			if !allowedExts[m.dir][ext] {
				continue
			}
			files = append(files, MediaFile{
				Path:     prefix + e.Name(),
				Filename: e.Name(),
				Kind:     m.kind,
			})
		}
	}
	return files, nil
}

// resolve maps a public reference to an on-disk path, admitting only the
// known media directories and extensions.
func (ms *MediaStore) resolve(refPath string) (string, error) {
	for prefix, m := range mediaDirs {
		if !strings.HasPrefix(refPath, prefix) {
			continue
		}
		name := filepath.Clean(strings.TrimPrefix(refPath, prefix))
		if name == "." || strings.Contains(name, "..") || strings.ContainsRune(name, os.PathSeparator) {
			return "", fmt.Errorf("invalid path")
		}
		ext := strings.ToLower(filepath.Ext(name))
		if !allowedExts[m.dir][ext] {
			return "", fmt.Errorf("unsupported file type %q", ext)
		}
		return filepath.Join(ms.basePath, m.dir, name), nil
	}
	return "", fmt.Errorf("invalid path")
}
