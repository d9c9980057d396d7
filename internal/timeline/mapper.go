package timeline

// PositionToTime converts a normalized timeline coordinate (0..1 across the
// timeline surface) to a media timestamp in seconds.
func PositionToTime(x, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	return clamp01(x) * duration
}

// TimeToPosition is the inverse mapping, used to place handles on the
// timeline surface.
func TimeToPosition(t, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	return clamp01(t / duration)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
