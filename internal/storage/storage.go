package storage

import "io"

// MediaFile describes one artifact found under the media root.
type MediaFile struct {
	// Path is the public reference, e.g. "/generated_videos/abc.mp4".
	Path     string
	Filename string
	// Kind is "image" or "video", derived from the owning directory.
	Kind string
}

// Store is the local file surface behind the gallery: open for streaming,
// delete, and enumerate what exists on disk. Writes happen on the backend's
// side of the shared media root.
type Store interface {
	Open(refPath string) (io.ReadSeekCloser, error)
	Delete(refPath string) error
	Scan() ([]MediaFile, error)
}
