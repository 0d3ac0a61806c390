package audio

import "errors"

var (
	// ErrClipNotFound is returned by a Resolver when neither the track index
	// nor the track name matches a known clip.
	ErrClipNotFound = errors.New("audio: clip not found")

	// ErrNoFactory is reported when a play request arrives on a track that
	// was built without a source factory.
	ErrNoFactory = errors.New("audio: no source factory")
)

// Clip is an opaque reference to playable audio data. Resolvers produce
// clips and factories consume them; the track state machine never looks
// inside one.
type Clip interface {
	Name() string
	// Length is the clip duration in seconds, 0 if unknown.
	Length() float64
}

// Resolver maps a track index or name to a clip. Name takes precedence when
// both are given.
type Resolver interface {
	Resolve(index int, name string) (Clip, error)
}

// Factory creates backend sources. A factory error aborts the play request
// before any slot is touched.
type Factory interface {
	NewSource(clip Clip, parent any) (Source, error)
}

// Source is a single playable audio unit. Every source is owned by exactly
// one track slot at a time; ownership moves between slots by rename and the
// releasing transition destroys the source exactly once.
//
// Play starts (or restarts) playback from the beginning. Pause/Unpause keep
// the playback position. After Destroy the source must report Alive() false
// and ignore all other calls.
type Source interface {
	Clip() Clip

	Play()
	Pause()
	Unpause()
	Stop()

	SetVolume(v float64)
	SetPitch(p float64)
	SetSpatialBlend(b float64)
	SetLoop(loop bool)
	SetParent(parent any)

	Volume() float64
	Pitch() float64

	IsPlaying() bool
	Position() float64
	ClipLength() float64

	Destroy()
	Alive() bool
}
