package timeline

// Player is the control surface of the preview video element. The engine
// never touches media itself; it issues these commands and reads back the
// playback clock. Implementations may be a real player binding or a directive
// buffer relayed to a remote front end.
type Player interface {
	// Load replaces the current media source.
	Load(path string)
	// Seek moves the playback position, in seconds.
	Seek(seconds float64)
	Play()
	Pause()
	// Playing reports whether playback is currently running.
	Playing() bool
	// Position returns the current playback position in seconds.
	Position() float64
	// Ended reports natural end-of-media completion.
	Ended() bool
}
