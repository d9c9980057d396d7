// Package session owns the live editing state: one SceneRegistry per
// session, the drag machine and sequencer bound to it, and the
// single-in-flight export guard. All mutation runs behind the session lock,
// so every external event is handled to completion before the next.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkorchagin/scenecut/internal/timeline"
)

var (
	// ErrExportInFlight rejects a second export while one is pending.
	ErrExportInFlight = errors.New("an export is already in progress")

	// ErrNoActiveVideo reports a trim operation with no video loaded in the
	// active scene.
	ErrNoActiveVideo = errors.New("no video loaded in the active scene")
)

type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	registry  *timeline.Registry
	player    *relayPlayer
	dragger   *timeline.Dragger
	sequencer *timeline.Sequencer

	exportInFlight bool
	watchCancel    context.CancelFunc
}

func newSession() *Session {
	s := &Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		registry:  timeline.NewRegistry(),
		player:    &relayPlayer{},
	}
	s.dragger = timeline.NewDragger(s.registry, s.player)
	s.sequencer = timeline.NewSequencer(s.player)
	s.registry.CreateScene("")
	return s
}

// Snapshot returns value copies of the scenes plus the active scene id.
func (s *Session) Snapshot() ([]timeline.Scene, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.registry.Scenes()
	scenes := make([]timeline.Scene, len(src))
	for i, sc := range src {
		scenes[i] = *sc
		if sc.Media != nil {
			m := *sc.Media
			scenes[i].Media = &m
		}
	}
	return scenes, s.registry.ActiveID()
}

// AddScene appends an empty scene and makes it active. Switching cancels any
// in-progress drag.
func (s *Session) AddScene(title string) timeline.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dragger.Cancel()
	sc := s.registry.CreateScene(title)
	s.registry.SelectScene(sc.ID)
	return *sc
}

// Select switches the active scene. Unknown ids are a silent no-op, but the
// drag is cancelled either way so edits cannot leak across scenes.
func (s *Session) Select(sceneID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dragger.Cancel()
	s.registry.SelectScene(sceneID)
}

// Attach routes a media result to the scene it was requested for. The scene
// need not be active anymore: generation responses arrive late and must land
// on their originating scene. Unknown scene ids no-op.
func (s *Session) Attach(sceneID string, media timeline.MediaRef, duration float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.registry.AttachMedia(sceneID, media, duration)
}

// ClearMedia empties every scene referencing path. Returns how many scenes
// were touched.
func (s *Session) ClearMedia(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.registry.ClearMedia(path)
}

// TrimPress starts a drag on a handle of the active scene's trim.
func (s *Session) TrimPress(h timeline.Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dragger.Press(h)
}

// TrimMove applies one drag step at normalized position x.
func (s *Session) TrimMove(x float64) (timeline.TrimUpdate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dragger.Move(x)
}

// TrimRelease ends the drag.
func (s *Session) TrimRelease() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dragger.Release()
}

// TrimTap applies a single tap on the timeline.
func (s *Session) TrimTap(x float64) (timeline.TrimUpdate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dragger.Tap(x)
}

// TrimReset restores the active scene's trim to the full range.
func (s *Session) TrimReset() (timeline.TimeRange, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc := s.registry.Active()
	if sc == nil || !sc.HasVideo() {
		return timeline.TimeRange{}, false
	}
	sc.Trim.Reset()
	return sc.Trim, true
}

// Playlist derives the current playlist, fresh on every call.
func (s *Session) Playlist() []timeline.PlaylistItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return timeline.BuildPlaylist(s.registry)
}

// Directives drains the player directives buffered since the last drain.
// Trim seeks end up here too, so trim responses can carry them.
func (s *Session) Directives() []Directive {
	return s.player.drain()
}

// StartPreview builds the playlist and starts sequential playback, spawning
// the cancelable position watcher. Returns the initial player directives.
func (s *Session) StartPreview() ([]Directive, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := timeline.BuildPlaylist(s.registry)
	if err := s.sequencer.Start(items); err != nil {
		return nil, err
	}

	if s.watchCancel != nil {
		s.watchCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.watchCancel = cancel
	go s.sequencer.Watch(ctx, timeline.WatchInterval)

	return s.player.drain(), nil
}

// ReportPosition feeds the client's playback clock into the sequencer and
// returns any directives the advance produced.
func (s *Session) ReportPosition(position float64, playing, ended bool) []Directive {
	s.player.report(position, playing, ended)
	s.sequencer.Tick()
	return s.player.drain()
}

// StepPreview moves the playlist cursor manually.
func (s *Session) StepPreview(delta int) []Directive {
	s.sequencer.Step(delta)
	return s.player.drain()
}

// StopPreview halts playback and cancels the watcher. Idempotent.
func (s *Session) StopPreview() []Directive {
	s.mu.Lock()
	cancel := s.watchCancel
	s.watchCancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.sequencer.Stop()
	return s.player.drain()
}

// PreviewState describes the sequencer for status responses.
type PreviewState struct {
	Playing bool
	Index   int
	Done    bool
}

func (s *Session) Preview() PreviewState {
	return PreviewState{
		Playing: s.sequencer.Playing(),
		Index:   s.sequencer.Index(),
		Done:    s.sequencer.Done(),
	}
}

// BuildTrimExport serializes the active scene's trim for the backend's trim
// endpoint.
func (s *Session) BuildTrimExport() (timeline.TrimRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc := s.registry.Active()
	if sc == nil || !sc.HasVideo() {
		return timeline.TrimRequest{}, ErrNoActiveVideo
	}
	return timeline.BuildTrimRequest(sc.Media.Path, sc.Trim)
}

// BuildSequenceExport serializes the whole registry for the backend's
// export-sequence endpoint.
func (s *Session) BuildSequenceExport() (timeline.SequenceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return timeline.BuildSequenceRequest(s.registry)
}

// BeginExport claims the single export slot; callers must pair it with
// EndExport. A second concurrent export is rejected, mirroring the disabled
// export buttons in the UI.
func (s *Session) BeginExport() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exportInFlight {
		return ErrExportInFlight
	}
	s.exportInFlight = true
	return nil
}

func (s *Session) EndExport() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.exportInFlight = false
}
