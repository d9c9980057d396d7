package timeline

// Registry is the ordered collection of scenes and the single source of truth
// for composition state. Insertion order is display and playback order; there
// is no reordering and scenes are never removed, only their media cleared.
//
// Registry is not safe for concurrent use; callers serialize access (the
// session layer holds one registry behind its lock).
type Registry struct {
	scenes   []*Scene
	activeID string
}

func NewRegistry() *Registry {
	return &Registry{}
}

// CreateScene appends an empty scene and returns it. An empty title gets the
// positional default ("Scene N"). The first scene ever created becomes
// active.
func (r *Registry) CreateScene(title string) *Scene {
	s := newScene(len(r.scenes) + 1)
	if title != "" {
		s.Title = title
	}
	r.scenes = append(r.scenes, s)
	if r.activeID == "" {
		r.activeID = s.ID
	}
	return s
}

// SelectScene makes the scene with the given id active. Unknown ids are a
// silent no-op.
func (r *Registry) SelectScene(id string) {
	if r.byID(id) == nil {
		return
	}
	r.activeID = id
}

// Active returns the active scene, or nil before any scene exists.
func (r *Registry) Active() *Scene {
	return r.byID(r.activeID)
}

// ActiveID returns the active scene id ("" before any scene exists).
func (r *Registry) ActiveID() string {
	return r.activeID
}

// Scenes returns the scenes in display order. The slice is shared; callers
// must not reorder it.
func (r *Registry) Scenes() []*Scene {
	return r.scenes
}

// AttachMedia replaces the media of the given scene. Video media installs a
// fresh full-width trim over the reported duration; any prior trim range is
// discarded (a trim for a different video is meaningless). Unknown scene ids
// are a silent no-op: the attach request may have outlived the scene.
func (r *Registry) AttachMedia(sceneID string, media MediaRef, duration float64) {
	s := r.byID(sceneID)
	if s == nil {
		return
	}
	m := media
	s.Media = &m
	if media.Kind == MediaVideo {
		s.KnownDuration = duration
		s.Trim = TimeRange{MinGap: s.Trim.MinGap}
		s.Trim.SetDuration(duration)
		s.Trim.Reset()
	} else {
		s.KnownDuration = 0
		s.Trim = TimeRange{MinGap: s.Trim.MinGap}
	}
}

// ClearMedia detaches the media from every scene referencing path, zeroing
// the trim. Used when the underlying file is deleted; the scenes themselves
// survive as empty slots. Returns how many scenes were cleared.
func (r *Registry) ClearMedia(path string) int {
	cleared := 0
	for _, s := range r.scenes {
		if s.Media == nil || s.Media.Path != path {
			continue
		}
		s.Media = nil
		s.Trim = TimeRange{MinGap: s.Trim.MinGap}
		s.KnownDuration = 0
		cleared++
	}
	return cleared
}

func (r *Registry) byID(id string) *Scene {
	if id == "" {
		return nil
	}
	for _, s := range r.scenes {
		if s.ID == id {
			return s
		}
	}
	return nil
}
