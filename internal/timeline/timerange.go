package timeline

import "math"

// DefaultMinGap is the smallest allowed distance between the trim start and
// end handles, in seconds. It keeps interactive edits from collapsing a range
// into a zero-length clip.
const DefaultMinGap = 1.0

// TimeRange is a playable sub-interval [Start, End] of a media item bounded
// by Duration. All mutation clamps silently; a TimeRange can never hold an
// inverted or out-of-bounds interval.
type TimeRange struct {
	Start    float64
	End      float64
	Duration float64

	// MinGap overrides DefaultMinGap when > 0.
	MinGap float64
}

// NewTimeRange returns a full-width range over d seconds.
func NewTimeRange(d float64) TimeRange {
	if d < 0 {
		d = 0
	}
	return TimeRange{Start: 0, End: d, Duration: d}
}

func (r *TimeRange) gap() float64 {
	if r.MinGap > 0 {
		return r.MinGap
	}
	return DefaultMinGap
}

// SetDuration updates the bound and re-clamps the range into [0, d].
// An unset range (End == 0) becomes the full range.
func (r *TimeRange) SetDuration(d float64) {
	if d < 0 {
		d = 0
	}
	r.Duration = d
	if r.End == 0 {
		r.End = d
		r.Start = math.Min(r.Start, d)
		return
	}
	r.Start = math.Max(0, math.Min(r.Start, d))
	r.End = math.Max(r.Start, math.Min(r.End, d))
}

// SetStart moves the start handle, keeping it at least the minimum gap away
// from End.
func (r *TimeRange) SetStart(t float64) {
	r.Start = math.Max(0, math.Min(r.End-r.gap(), t))
}

// SetEnd moves the end handle, keeping it at least the minimum gap past
// Start and within the duration.
func (r *TimeRange) SetEnd(t float64) {
	r.End = math.Max(r.Start+r.gap(), math.Min(r.Duration, t))
}

// Reset restores the full range.
func (r *TimeRange) Reset() {
	r.Start = 0
	r.End = r.Duration
}
