package session

import "sync"

// Directive is one playback command for the front-end player. The engine's
// seek/load/play decisions are buffered here and drained into the next API
// response, so any client can adapt them to its native player.
type Directive struct {
	Op      string  `json:"op"` // load, seek, play, pause
	Path    string  `json:"path,omitempty"`
	Seconds float64 `json:"seconds"`
}

// relayPlayer implements timeline.Player across an HTTP boundary: directives
// accumulate until drained, and the playback clock mirrors what the client
// last reported. After a seek the position follows the seek target until the
// next report, so boundary checks never run against a stale clock.
type relayPlayer struct {
	mu         sync.Mutex
	directives []Directive
	position   float64
	playing    bool
	ended      bool
}

func (p *relayPlayer) Load(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.directives = append(p.directives, Directive{Op: "load", Path: path})
	p.ended = false
}

func (p *relayPlayer) Seek(seconds float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.directives = append(p.directives, Directive{Op: "seek", Seconds: seconds})
	p.position = seconds
	p.ended = false
}

func (p *relayPlayer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.directives = append(p.directives, Directive{Op: "play"})
	p.playing = true
}

func (p *relayPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.directives = append(p.directives, Directive{Op: "pause"})
	p.playing = false
}

func (p *relayPlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *relayPlayer) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

func (p *relayPlayer) Ended() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ended
}

// report records the client's view of the playback clock.
func (p *relayPlayer) report(position float64, playing, ended bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = position
	p.playing = playing
	p.ended = ended
}

// drain returns and clears the pending directives.
func (p *relayPlayer) drain() []Directive {
	p.mu.Lock()
	defer p.mu.Unlock()
	d := p.directives
	p.directives = nil
	return d
}
