package timeline

// TrimRequest is the wire payload of the backend's single-video trim
// endpoint. Field names are fixed by the backend contract.
type TrimRequest struct {
	VideoPath string  `json:"video_path"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// SequenceItem is one segment of a sequence export payload.
type SequenceItem struct {
	Path      string  `json:"path"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// SequenceRequest is the wire payload of the backend's export-sequence
// endpoint.
type SequenceRequest struct {
	Scenes []SequenceItem `json:"scenes"`
}

// BuildTrimRequest serializes a single-media trim export. Degenerate ranges
// are rejected rather than clamped: an export must never silently produce a
// different cut than the one on screen.
func BuildTrimRequest(mediaPath string, r TimeRange) (TrimRequest, error) {
	if r.Start >= r.End {
		return TrimRequest{}, ErrInvalidRange
	}
	return TrimRequest{
		VideoPath: mediaPath,
		StartTime: r.Start,
		EndTime:   r.End,
	}, nil
}

// BuildSequenceRequest serializes the registry's video scenes into the
// export payload, applying the same filter and end-fallback rule as
// BuildPlaylist.
func BuildSequenceRequest(reg *Registry) (SequenceRequest, error) {
	items := BuildPlaylist(reg)
	if len(items) == 0 {
		return SequenceRequest{}, ErrNothingToExport
	}
	req := SequenceRequest{Scenes: make([]SequenceItem, 0, len(items))}
	for _, it := range items {
		req.Scenes = append(req.Scenes, SequenceItem{
			Path:      it.MediaPath,
			StartTime: it.StartSeconds,
			EndTime:   it.EndSeconds,
		})
	}
	return req, nil
}
