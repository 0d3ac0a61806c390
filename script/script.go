// Package script drives audio cues from tengo scripts. A cue script
// defines update(audio, t, dt), invoked once per tick with the elapsed
// time and tick length in seconds; the audio object exposes the track
// manager's operations.
package script

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	coreaudio "github.com/bigmeaningsmall/BMS-AudioManager-sub000/audio"
)

const cueDispatchScript = `
if __phase == "update" {
	update(__audio, __t, __dt)
}
`

// Runtime is a compiled cue script plus its timeline position. The script
// source is compiled once; every tick re-runs it with fresh globals, so
// scripts key their cues off the passed time rather than script state.
type Runtime struct {
	compiled *tengo.Compiled
	elapsed  float64
}

func NewRuntime(src []byte) (*Runtime, error) {
	combined := make([]byte, 0, len(src)+len(cueDispatchScript)+1)
	combined = append(combined, src...)
	combined = append(combined, '\n')
	combined = append(combined, cueDispatchScript...)

	s := tengo.NewScript(combined)
	_ = s.Add("__phase", "")
	_ = s.Add("__audio", map[string]any{})
	_ = s.Add("__t", 0.0)
	_ = s.Add("__dt", 0.0)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile cue script: %w", err)
	}
	return &Runtime{compiled: compiled}, nil
}

// Update advances the timeline by dt and runs the script's update phase
// against the manager.
func (r *Runtime) Update(m *coreaudio.Manager, dt float64) error {
	r.elapsed += dt
	if err := r.compiled.Set("__phase", "update"); err != nil {
		return err
	}
	if err := r.compiled.Set("__audio", audioObject(m)); err != nil {
		return err
	}
	if err := r.compiled.Set("__t", r.elapsed); err != nil {
		return err
	}
	if err := r.compiled.Set("__dt", dt); err != nil {
		return err
	}
	if err := r.compiled.Run(); err != nil {
		return fmt.Errorf("script: run cue script: %w", err)
	}
	return nil
}

func argString(args []tengo.Object, i int) string {
	if i >= len(args) {
		return ""
	}
	s, _ := tengo.ToString(args[i])
	return s
}

func argFloat(args []tengo.Object, i int) float64 {
	if i >= len(args) {
		return 0
	}
	f, _ := tengo.ToFloat64(args[i])
	return f
}

// audioObject wraps the manager as an immutable tengo map of cue
// operations: play(kind, clip, fade), stop(kind, fade), pause(kind, fade),
// set_volume(kind, volume, fade), state(kind).
func audioObject(m *coreaudio.Manager) tengo.Object {
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"play": &tengo.UserFunction{Name: "play", Value: func(args ...tengo.Object) (tengo.Object, error) {
			m.Play(argString(args, 0), coreaudio.PlayRequest{
				TrackName:    argString(args, 1),
				FadeType:     coreaudio.Crossfade,
				FadeDuration: argFloat(args, 2),
				FadeTarget:   coreaudio.FadeVolume,
				Loop:         true,
			})
			return tengo.UndefinedValue, nil
		}},
		"stop": &tengo.UserFunction{Name: "stop", Value: func(args ...tengo.Object) (tengo.Object, error) {
			m.Stop(argString(args, 0), argFloat(args, 1), coreaudio.FadeVolume)
			return tengo.UndefinedValue, nil
		}},
		"pause": &tengo.UserFunction{Name: "pause", Value: func(args ...tengo.Object) (tengo.Object, error) {
			m.PauseToggle(argString(args, 0), argFloat(args, 1), coreaudio.FadeVolume)
			return tengo.UndefinedValue, nil
		}},
		"set_volume": &tengo.UserFunction{Name: "set_volume", Value: func(args ...tengo.Object) (tengo.Object, error) {
			kind := argString(args, 0)
			track := m.Track(kind)
			if track == nil {
				return tengo.UndefinedValue, nil
			}
			m.UpdateParameters(kind, coreaudio.UpdateRequest{
				Volume:       argFloat(args, 1),
				Pitch:        track.TargetPitch(),
				SpatialBlend: track.TargetSpatialBlend(),
				FadeDuration: argFloat(args, 2),
				FadeTarget:   coreaudio.FadeVolume,
				Loop:         track.Looping(),
			})
			return tengo.UndefinedValue, nil
		}},
		"state": &tengo.UserFunction{Name: "state", Value: func(args ...tengo.Object) (tengo.Object, error) {
			track := m.Track(argString(args, 0))
			if track == nil {
				return &tengo.String{Value: "unknown"}, nil
			}
			return &tengo.String{Value: track.State().String()}, nil
		}},
	}}
}
