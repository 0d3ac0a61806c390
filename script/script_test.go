package script

import (
	"testing"

	coreaudio "github.com/bigmeaningsmall/BMS-AudioManager-sub000/audio"
)

type stubClip struct{ name string }

func (c stubClip) Name() string    { return c.name }
func (c stubClip) Length() float64 { return 1 }

type stubSource struct {
	clip    stubClip
	volume  float64
	pitch   float64
	blend   float64
	loop    bool
	playing bool
	alive   bool
}

func (s *stubSource) Clip() coreaudio.Clip      { return s.clip }
func (s *stubSource) Play()                     { s.playing = true }
func (s *stubSource) Pause()                    { s.playing = false }
func (s *stubSource) Unpause()                  { s.playing = true }
func (s *stubSource) Stop()                     { s.playing = false }
func (s *stubSource) SetVolume(v float64)       { s.volume = v }
func (s *stubSource) SetPitch(p float64)        { s.pitch = p }
func (s *stubSource) SetSpatialBlend(b float64) { s.blend = b }
func (s *stubSource) SetLoop(loop bool)         { s.loop = loop }
func (s *stubSource) SetParent(parent any)      {}
func (s *stubSource) Volume() float64           { return s.volume }
func (s *stubSource) Pitch() float64            { return s.pitch }
func (s *stubSource) IsPlaying() bool           { return s.alive && s.playing }
func (s *stubSource) Position() float64         { return 0 }
func (s *stubSource) ClipLength() float64       { return 1 }
func (s *stubSource) Destroy()                  { s.alive = false; s.playing = false }
func (s *stubSource) Alive() bool               { return s.alive }

type stubFactory struct{ created []*stubSource }

func (f *stubFactory) NewSource(clip coreaudio.Clip, parent any) (coreaudio.Source, error) {
	sc, _ := clip.(stubClip)
	src := &stubSource{clip: sc, pitch: 1, alive: true}
	f.created = append(f.created, src)
	return src, nil
}

type stubResolver struct{}

func (stubResolver) Resolve(index int, name string) (coreaudio.Clip, error) {
	return stubClip{name: name}, nil
}

const testCueScript = `
update := func(audio, t, dt) {
	if t-dt < 0.05 && 0.05 <= t {
		audio.play("music", "theme", 1.0)
	}
	if t > 0.5 {
		audio.set_volume("music", 0.5, 0)
	}
}
`

func TestRuntimeDrivesManager(t *testing.T) {
	rt, err := NewRuntime([]byte(testCueScript))
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}

	factory := &stubFactory{}
	m := coreaudio.NewManager(factory, stubResolver{})

	for i := 0; i < 10; i++ {
		if err := rt.Update(m, 0.1); err != nil {
			t.Fatalf("runtime update: %v", err)
		}
		m.Update(0.1)
	}

	if len(factory.created) != 1 {
		t.Fatalf("expected the cue to fire exactly once, created %d sources", len(factory.created))
	}
	src := factory.created[0]
	if src.clip.name != "theme" || !src.loop || !src.playing {
		t.Fatalf("unexpected source: %+v", src)
	}
	if m.Track(coreaudio.KindMusic).State() != coreaudio.Playing {
		t.Fatalf("expected Playing after instant volume set, got %s", m.Track(coreaudio.KindMusic).State())
	}
	if src.volume != 0.5 {
		t.Fatalf("expected scripted volume 0.5, got %v", src.volume)
	}
}

func TestRuntimeRejectsBadScripts(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"syntax_error", "update := func("},
		{"missing_update", "x := 1"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := NewRuntime([]byte(c.src)); err == nil {
				t.Fatalf("expected compile error")
			}
		})
	}
}
