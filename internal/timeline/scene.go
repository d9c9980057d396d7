package timeline

import (
	"fmt"

	"github.com/google/uuid"
)

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// MediaRef points at a stored media artifact. Path is an opaque reference the
// media backend understands; the engine never dereferences it.
type MediaRef struct {
	Kind     MediaKind
	Path     string
	Filename string
}

// Scene is one ordered slot in the composed sequence: at most one media item
// plus its trim range.
type Scene struct {
	ID            string
	Title         string
	Media         *MediaRef
	Trim          TimeRange
	KnownDuration float64
}

func newScene(index int) *Scene {
	return &Scene{
		ID:    uuid.New().String(),
		Title: fmt.Sprintf("Scene %d", index),
	}
}

// HasVideo reports whether the scene holds playable video media.
func (s *Scene) HasVideo() bool {
	return s.Media != nil && s.Media.Kind == MediaVideo
}
