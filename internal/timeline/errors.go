package timeline

import "errors"

var (
	// ErrInvalidRange reports a trim export where end <= start.
	ErrInvalidRange = errors.New("invalid trim range: end must be greater than start")

	// ErrNothingToPlay reports a playback request over a registry with no
	// video scenes. A defined condition, not a failure of the registry.
	ErrNothingToPlay = errors.New("no video scenes to play")

	// ErrNothingToExport reports a sequence export over a registry with no
	// video scenes.
	ErrNothingToExport = errors.New("no video scenes to export")
)
