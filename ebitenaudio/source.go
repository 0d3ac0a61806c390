// Package ebitenaudio backs the track controller's source handles with
// Ebiten audio players.
package ebitenaudio

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	eaudio "github.com/hajimehoshi/ebiten/v2/audio"

	coreaudio "github.com/bigmeaningsmall/BMS-AudioManager-sub000/audio"
	"github.com/bigmeaningsmall/BMS-AudioManager-sub000/common"
)

var (
	contextOnce sync.Once
	context     *eaudio.Context
)

// sharedContext returns the process-wide Ebiten audio context; Ebiten
// allows exactly one per process.
func sharedContext(sampleRate int) *eaudio.Context {
	contextOnce.Do(func() {
		context = eaudio.NewContext(sampleRate)
	})
	return context
}

// PCM frames are 16-bit stereo.
const bytesPerFrame = 4

// resampledLength converts a byte length from the source rate to the
// resampled rate, truncated to a whole frame so a loop point never lands
// mid-sample.
func resampledLength(length int64, rate, to int) int64 {
	n := length * int64(to) / int64(rate)
	return n - n%bytesPerFrame
}

// pcmClip is the shape of clips this backend can play: decoded PCM in the
// context's native format. The assets catalogue produces these.
type pcmClip interface {
	coreaudio.Clip
	Data() []byte
}

// Factory creates Ebiten-backed sources.
type Factory struct {
	ctx *eaudio.Context
}

func NewFactory(sampleRate int) *Factory {
	return &Factory{ctx: sharedContext(sampleRate)}
}

func (f *Factory) NewSource(clip coreaudio.Clip, parent any) (coreaudio.Source, error) {
	pc, ok := clip.(pcmClip)
	if !ok {
		return nil, fmt.Errorf("ebitenaudio: clip %T carries no PCM data", clip)
	}
	return &Source{
		ctx:    f.ctx,
		clip:   pc,
		volume: 1,
		pitch:  1,
		parent: parent,
		alive:  true,
	}, nil
}

// Source adapts one Ebiten player to the track controller's handle
// surface. Volume is unclamped here and clamped at the player, pitch rides
// on a resampled stream and therefore applies when playback (re)starts,
// and spatial blend is stored only; this backend has no spatializer.
type Source struct {
	ctx  *eaudio.Context
	clip pcmClip

	player *eaudio.Player

	volume float64
	pitch  float64
	blend  float64
	loop   bool
	parent any
	alive  bool
}

func (s *Source) Clip() coreaudio.Clip { return s.clip }

// Play starts playback from the beginning, rebuilding the player so the
// current pitch and loop settings take effect.
func (s *Source) Play() {
	if !s.alive {
		return
	}
	if s.player != nil {
		_ = s.player.Close()
		s.player = nil
	}

	pcm := s.clip.Data()
	var stream io.ReadSeeker = bytes.NewReader(pcm)
	length := int64(len(pcm))
	if s.pitch > 0 && s.pitch != 1 {
		rate := s.ctx.SampleRate()
		to := int(float64(rate) / s.pitch)
		if to < 1 {
			to = 1
		}
		stream = eaudio.Resample(stream, length, rate, to)
		length = resampledLength(length, rate, to)
	}
	if s.loop {
		stream = eaudio.NewInfiniteLoop(stream, length)
	}

	player, err := s.ctx.NewPlayer(stream)
	if err != nil {
		// the handle stays alive; the controller's liveness poll will
		// treat the silent source as a finished clip
		return
	}
	s.player = player
	player.SetVolume(common.Clamp01(s.volume))
	player.Play()
}

func (s *Source) Pause() {
	if s.alive && s.player != nil {
		s.player.Pause()
	}
}

func (s *Source) Unpause() {
	if s.alive && s.player != nil {
		s.player.Play()
	}
}

func (s *Source) Stop() {
	if s.player == nil {
		return
	}
	s.player.Pause()
	_ = s.player.Rewind()
}

func (s *Source) SetVolume(v float64) {
	s.volume = v
	if s.alive && s.player != nil {
		s.player.SetVolume(common.Clamp01(v))
	}
}

// SetPitch stores the playback rate multiplier; it takes effect the next
// time the source (re)starts.
func (s *Source) SetPitch(p float64) {
	if p < 0 {
		p = 0
	}
	s.pitch = p
}

func (s *Source) SetSpatialBlend(b float64) { s.blend = common.Clamp01(b) }

func (s *Source) SetLoop(loop bool) { s.loop = loop }

func (s *Source) SetParent(parent any) { s.parent = parent }

func (s *Source) Volume() float64 { return s.volume }
func (s *Source) Pitch() float64  { return s.pitch }

func (s *Source) IsPlaying() bool {
	return s.alive && s.player != nil && s.player.IsPlaying()
}

func (s *Source) Position() float64 {
	if s.player == nil {
		return 0
	}
	return s.player.Position().Seconds()
}

func (s *Source) ClipLength() float64 { return s.clip.Length() }

func (s *Source) Destroy() {
	if !s.alive {
		return
	}
	s.alive = false
	if s.player != nil {
		_ = s.player.Close()
		s.player = nil
	}
}

func (s *Source) Alive() bool { return s.alive }
