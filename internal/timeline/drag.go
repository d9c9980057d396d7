package timeline

import "math"

type Handle int

const (
	HandleStart Handle = iota
	HandleEnd
)

func (h Handle) String() string {
	if h == HandleEnd {
		return "end"
	}
	return "start"
}

// TrimUpdate is the result of one applied trim gesture: the handle that
// moved, the resulting range, and the position the preview was seeked to.
type TrimUpdate struct {
	Handle Handle
	Start  float64
	End    float64
	Seek   float64
}

// Dragger is the interactive trim state machine. A drag begins with Press on
// one of the two handles, applies clamped updates to the active scene's trim
// on every Move, and ends with Release. A bare Tap on the timeline resolves
// to the nearer handle. Every applied update seeks the preview player so the
// user sees the frame under the handle.
//
// The drag is pinned to the scene that was active at Press time; if the
// active scene changes mid-drag the drag cancels without applying further
// updates.
type Dragger struct {
	registry *Registry
	player   Player

	dragging bool
	handle   Handle
	sceneID  string
}

func NewDragger(registry *Registry, player Player) *Dragger {
	return &Dragger{registry: registry, player: player}
}

// Press starts a drag on the given handle. It is a no-op unless the active
// scene holds video media.
func (d *Dragger) Press(h Handle) bool {
	s := d.registry.Active()
	if s == nil || !s.HasVideo() {
		return false
	}
	d.dragging = true
	d.handle = h
	d.sceneID = s.ID
	return true
}

// Move applies one drag step at normalized position x. Returns false when no
// drag is in progress or the drag was cancelled by a scene switch.
func (d *Dragger) Move(x float64) (TrimUpdate, bool) {
	if !d.dragging {
		return TrimUpdate{}, false
	}
	s := d.registry.Active()
	if s == nil || s.ID != d.sceneID || !s.HasVideo() {
		d.Cancel()
		return TrimUpdate{}, false
	}
	return d.apply(s, d.handle, x), true
}

// Release ends the drag. No further mutation happens.
func (d *Dragger) Release() {
	d.dragging = false
	d.sceneID = ""
}

// Cancel force-ends an in-progress drag, discarding nothing already applied.
// Called when the active scene changes so edits never leak across scenes.
func (d *Dragger) Cancel() {
	d.dragging = false
	d.sceneID = ""
}

// Dragging reports whether a drag is in progress.
func (d *Dragger) Dragging() bool {
	return d.dragging
}

// Tap handles a plain click on the timeline outside a drag: the nearer
// handle (ties toward start) receives a single-step update at x.
func (d *Dragger) Tap(x float64) (TrimUpdate, bool) {
	if d.dragging {
		return TrimUpdate{}, false
	}
	s := d.registry.Active()
	if s == nil || !s.HasVideo() {
		return TrimUpdate{}, false
	}

	pos := clamp01(x)
	distStart := math.Abs(pos - TimeToPosition(s.Trim.Start, s.Trim.Duration))
	distEnd := math.Abs(pos - TimeToPosition(s.Trim.End, s.Trim.Duration))

	h := HandleEnd
	if distStart <= distEnd {
		h = HandleStart
	}
	return d.apply(s, h, x), true
}

func (d *Dragger) apply(s *Scene, h Handle, x float64) TrimUpdate {
	t := PositionToTime(x, s.Trim.Duration)

	var seek float64
	if h == HandleStart {
		s.Trim.SetStart(t)
		seek = s.Trim.Start
	} else {
		s.Trim.SetEnd(t)
		seek = s.Trim.End
	}

	d.seek(seek, s.Trim)

	return TrimUpdate{Handle: h, Start: s.Trim.Start, End: s.Trim.End, Seek: seek}
}

// seek moves the preview to t. A playing preview is paused for the seek and
// resumed only when the target stays inside the trim range, so playback never
// continues from outside the selection.
func (d *Dragger) seek(t float64, r TimeRange) {
	if d.player == nil {
		return
	}
	wasPlaying := d.player.Playing()
	if wasPlaying {
		d.player.Pause()
	}
	d.player.Seek(t)
	if wasPlaying && t >= r.Start && t <= r.End {
		d.player.Play()
	}
}
