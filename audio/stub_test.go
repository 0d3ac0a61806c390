package audio

import "errors"

type fakeClip struct {
	name   string
	length float64
}

func (c *fakeClip) Name() string    { return c.name }
func (c *fakeClip) Length() float64 { return c.length }

type fakeSource struct {
	clip   *fakeClip
	volume float64
	pitch  float64
	blend  float64
	loop   bool
	parent any

	playing bool
	paused  bool
	alive   bool

	plays      int
	pauses     int
	destroys   int
	lastVolume []float64
}

func newFakeSource(clip *fakeClip) *fakeSource {
	return &fakeSource{clip: clip, pitch: 1, alive: true}
}

func (s *fakeSource) Clip() Clip {
	if s.clip == nil {
		return nil
	}
	return s.clip
}

func (s *fakeSource) Play() {
	if !s.alive {
		return
	}
	s.playing = true
	s.paused = false
	s.plays++
}

func (s *fakeSource) Pause() {
	if !s.alive {
		return
	}
	s.playing = false
	s.paused = true
	s.pauses++
}

// Unpause refuses a source that never started, matching a real backend
// where there is no player to resume yet.
func (s *fakeSource) Unpause() {
	if !s.alive || s.plays == 0 {
		return
	}
	s.playing = true
	s.paused = false
}

func (s *fakeSource) Stop() {
	s.playing = false
	s.paused = false
}

func (s *fakeSource) SetVolume(v float64) {
	if !s.alive {
		return
	}
	s.volume = v
	s.lastVolume = append(s.lastVolume, v)
}

func (s *fakeSource) SetPitch(p float64) {
	if !s.alive {
		return
	}
	s.pitch = p
}

func (s *fakeSource) SetSpatialBlend(b float64) { s.blend = b }
func (s *fakeSource) SetLoop(loop bool)         { s.loop = loop }
func (s *fakeSource) SetParent(parent any)      { s.parent = parent }

func (s *fakeSource) Volume() float64 { return s.volume }
func (s *fakeSource) Pitch() float64  { return s.pitch }

func (s *fakeSource) IsPlaying() bool { return s.alive && s.playing }

func (s *fakeSource) Position() float64 { return 0 }

func (s *fakeSource) ClipLength() float64 {
	if s.clip == nil {
		return 0
	}
	return s.clip.length
}

func (s *fakeSource) Destroy() {
	s.alive = false
	s.playing = false
	s.destroys++
}

func (s *fakeSource) Alive() bool { return s.alive }

// finish simulates the backend running out of samples on a one-shot clip.
func (s *fakeSource) finish() { s.playing = false }

type fakeFactory struct {
	fail    bool
	sources []*fakeSource
}

func (f *fakeFactory) NewSource(clip Clip, parent any) (Source, error) {
	if f.fail {
		return nil, errors.New("fake backend unavailable")
	}
	fc, _ := clip.(*fakeClip)
	src := newFakeSource(fc)
	src.parent = parent
	f.sources = append(f.sources, src)
	return src, nil
}

func (f *fakeFactory) liveCount() int {
	n := 0
	for _, s := range f.sources {
		if s.alive {
			n++
		}
	}
	return n
}

// last returns the most recently created source.
func (f *fakeFactory) last() *fakeSource {
	if len(f.sources) == 0 {
		return nil
	}
	return f.sources[len(f.sources)-1]
}

type fakeResolver struct {
	clips []*fakeClip
}

func (r *fakeResolver) Resolve(index int, name string) (Clip, error) {
	if name != "" {
		for _, c := range r.clips {
			if c.name == name {
				return c, nil
			}
		}
		return nil, ErrClipNotFound
	}
	if index >= 0 && index < len(r.clips) {
		return r.clips[index], nil
	}
	return nil, ErrClipNotFound
}

func newFakeRig(names ...string) (*Track, *fakeFactory, *fakeResolver) {
	clips := make([]*fakeClip, 0, len(names))
	for _, n := range names {
		clips = append(clips, &fakeClip{name: n, length: 10})
	}
	factory := &fakeFactory{}
	resolver := &fakeResolver{clips: clips}
	return NewTrack(KindMusic, factory, resolver), factory, resolver
}

func tick(t *Track, dt float64, n int) {
	for i := 0; i < n; i++ {
		t.Update(dt)
	}
}

func approx(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-6
}
