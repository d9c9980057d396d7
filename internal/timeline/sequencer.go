package timeline

import (
	"context"
	"sync"
	"time"
)

const (
	// endEpsilon absorbs media-clock jitter when comparing the playback
	// position against a segment boundary.
	endEpsilon = 0.05

	// WatchInterval is the default position poll cadence.
	WatchInterval = 100 * time.Millisecond
)

// PlaylistItem is one playable segment derived from a scene. Derived fresh on
// every request, never stored, so edits are always reflected.
type PlaylistItem struct {
	MediaPath    string
	StartSeconds float64
	EndSeconds   float64
	Title        string
}

// BuildPlaylist maps the registry's video scenes, in order, to playable
// segments. Scenes with image media or no media are skipped. A trim whose end
// was never set falls back to the full known duration.
func BuildPlaylist(r *Registry) []PlaylistItem {
	var items []PlaylistItem
	for _, s := range r.Scenes() {
		if !s.HasVideo() {
			continue
		}
		end := s.Trim.End
		if end <= 0 {
			end = s.KnownDuration
		}
		items = append(items, PlaylistItem{
			MediaPath:    s.Media.Path,
			StartSeconds: s.Trim.Start,
			EndSeconds:   end,
			Title:        s.Title,
		})
	}
	return items
}

// Sequencer drives sequential playback of a playlist through a Player. It is
// a two-state machine, Stopped or Playing(index); while playing, Tick
// compares the player clock against the current segment's end and advances.
// Safe for concurrent use: the position watcher ticks from its own goroutine.
type Sequencer struct {
	mu     sync.Mutex
	player Player

	items   []PlaylistItem
	index   int
	playing bool
	done    bool
}

func NewSequencer(player Player) *Sequencer {
	return &Sequencer{player: player}
}

// Start begins playback at the first item. An empty playlist returns
// ErrNothingToPlay and the sequencer stays stopped.
func (q *Sequencer) Start(items []PlaylistItem) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(items) == 0 {
		return ErrNothingToPlay
	}
	q.items = items
	q.index = 0
	q.playing = true
	q.done = false
	q.load()
	return nil
}

// Tick checks the playback position against the current segment end and
// advances when the segment is finished (within the epsilon tolerance) or
// the media reports natural completion. Returns false once stopped, letting
// the watcher loop exit.
func (q *Sequencer) Tick() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.playing {
		return false
	}
	end := q.items[q.index].EndSeconds
	if q.player.Position() >= end-endEpsilon || q.player.Ended() {
		q.advance(1)
	}
	return q.playing
}

// Step moves the playlist index manually. Negative indexes clamp to the
// first item; stepping past the last item is terminal and stops playback.
func (q *Sequencer) Step(delta int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.playing {
		return
	}
	q.advance(delta)
}

// Stop halts playback from any state. Idempotent.
func (q *Sequencer) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stop()
}

// Playing reports whether a sequence is in progress.
func (q *Sequencer) Playing() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.playing
}

// Index returns the current playlist index; meaningful only while playing.
func (q *Sequencer) Index() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.index
}

// Done reports that the sequence ran to natural completion (as opposed to an
// explicit Stop).
func (q *Sequencer) Done() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.done
}

// Current returns the item under the cursor while playing.
func (q *Sequencer) Current() (PlaylistItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.playing {
		return PlaylistItem{}, false
	}
	return q.items[q.index], true
}

// Watch polls Tick until the sequence stops or ctx is cancelled. Runs the
// repeating position watcher that the engine requires to be cancelable at
// any time. Cancellation only ends the poll; it must not touch the sequencer
// state, since by then a new sequence may already be running under a fresh
// watcher.
func (q *Sequencer) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = WatchInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !q.Tick() {
				return
			}
		}
	}
}

func (q *Sequencer) advance(delta int) {
	next := q.index + delta
	if next < 0 {
		next = 0
	}
	if next >= len(q.items) {
		q.done = true
		q.stop()
		return
	}
	q.index = next
	q.load()
}

func (q *Sequencer) load() {
	item := q.items[q.index]
	q.player.Load(item.MediaPath)
	q.player.Seek(item.StartSeconds)
	q.player.Play()
}

func (q *Sequencer) stop() {
	if q.playing {
		q.player.Pause()
	}
	q.playing = false
}
