package timeline

// fakePlayer records the directives issued by the engine and lets tests move
// the playback clock by hand.
type fakePlayer struct {
	loaded   []string
	seeks    []float64
	playing  bool
	position float64
	ended    bool

	pauseCount  int
	resumeCount int
}

func (p *fakePlayer) Load(path string) {
	p.loaded = append(p.loaded, path)
	p.ended = false
}

func (p *fakePlayer) Seek(seconds float64) {
	p.seeks = append(p.seeks, seconds)
	p.position = seconds
}

func (p *fakePlayer) Play() {
	p.playing = true
	p.resumeCount++
}

func (p *fakePlayer) Pause() {
	p.playing = false
	p.pauseCount++
}

func (p *fakePlayer) Playing() bool { return p.playing }

func (p *fakePlayer) Position() float64 { return p.position }

func (p *fakePlayer) Ended() bool { return p.ended }

func (p *fakePlayer) lastSeek() float64 {
	if len(p.seeks) == 0 {
		return -1
	}
	return p.seeks[len(p.seeks)-1]
}
