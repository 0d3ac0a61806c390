package audio

import (
	"log"
	"sort"
	"strings"
)

// Default track kinds. The set is open: AddTrack registers any kind.
const (
	KindMusic    = "music"
	KindAmbience = "ambience"
	KindDialogue = "dialogue"
)

// TrackDefaults are the per-kind steady-state parameters used to fill
// unset fields of incoming play requests.
type TrackDefaults struct {
	Volume       float64
	Pitch        float64
	FadeDuration float64
	Loop         bool
}

// Manager owns one Track per track kind. It is the only registry; there is
// no package-level singleton. Update must be called once per tick from the
// owning game loop.
type Manager struct {
	factory  Factory
	resolver Resolver
	tracks   map[string]*Track
	defaults map[string]TrackDefaults
}

// NewManager builds a manager with the three default track kinds
// registered.
func NewManager(factory Factory, resolver Resolver) *Manager {
	m := &Manager{
		factory:  factory,
		resolver: resolver,
		tracks:   map[string]*Track{},
		defaults: map[string]TrackDefaults{},
	}
	for _, kind := range []string{KindMusic, KindAmbience, KindDialogue} {
		m.AddTrack(kind, TrackDefaults{Volume: 1, Pitch: 1, FadeDuration: 1})
	}
	return m
}

// AddTrack registers a track kind, replacing its defaults if it already
// exists.
func (m *Manager) AddTrack(kind string, d TrackDefaults) *Track {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return nil
	}
	if _, ok := m.tracks[kind]; !ok {
		m.tracks[kind] = NewTrack(kind, m.factory, m.resolver)
	}
	m.defaults[kind] = d
	return m.tracks[kind]
}

// SetDefaults updates a kind's defaults at runtime (config hot reload
// path). Unknown kinds are registered.
func (m *Manager) SetDefaults(kind string, d TrackDefaults) {
	m.AddTrack(kind, d)
}

func (m *Manager) Track(kind string) *Track {
	return m.tracks[kind]
}

// Kinds returns the registered track kinds in stable order.
func (m *Manager) Kinds() []string {
	kinds := make([]string, 0, len(m.tracks))
	for kind := range m.tracks {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Update advances every track by one tick of dt seconds.
func (m *Manager) Update(dt float64) {
	for _, kind := range m.Kinds() {
		m.tracks[kind].Update(dt)
	}
}

// Play dispatches a play request to the kind's track, filling unset volume,
// pitch and fade duration from the kind's defaults. A request with an
// explicit FadeDuration of 0 still means instant; only negative values ask
// for the default.
func (m *Manager) Play(kind string, req PlayRequest) {
	track := m.tracks[kind]
	if track == nil {
		log.Printf("audio: unknown track kind %q", kind)
		return
	}
	d := m.defaults[kind]
	if req.Volume <= 0 {
		req.Volume = d.Volume
	}
	if req.Pitch <= 0 {
		req.Pitch = d.Pitch
	}
	if req.FadeDuration < 0 {
		req.FadeDuration = d.FadeDuration
	}
	track.Play(req)
}

func (m *Manager) Stop(kind string, fadeDuration float64, target FadeTarget) {
	track := m.tracks[kind]
	if track == nil {
		log.Printf("audio: unknown track kind %q", kind)
		return
	}
	track.Stop(fadeDuration, target)
}

func (m *Manager) PauseToggle(kind string, fadeDuration float64, target FadeTarget) {
	track := m.tracks[kind]
	if track == nil {
		log.Printf("audio: unknown track kind %q", kind)
		return
	}
	track.PauseToggle(fadeDuration, target)
}

func (m *Manager) UpdateParameters(kind string, req UpdateRequest) {
	track := m.tracks[kind]
	if track == nil {
		log.Printf("audio: unknown track kind %q", kind)
		return
	}
	track.UpdateParameters(req)
}

// StopAll hard-stops every track that is not already stopped.
func (m *Manager) StopAll(fadeDuration float64, target FadeTarget) {
	for _, kind := range m.Kinds() {
		if track := m.tracks[kind]; track.State() != Stopped {
			track.Stop(fadeDuration, target)
		}
	}
}

// DebugString is a multi-line summary of every track.
func (m *Manager) DebugString() string {
	var b strings.Builder
	for i, kind := range m.Kinds() {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.tracks[kind].DebugString())
	}
	return b.String()
}
