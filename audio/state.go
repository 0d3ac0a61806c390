package audio

// State is the track state machine's current phase. Stopped is both the
// initial and terminal state.
type State int

const (
	Stopped State = iota
	Playing
	Paused
	FadingIn
	FadingOut
	Crossfading
	AdjustingParameters
	FadeToPause
	FadeFromPause
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case FadingIn:
		return "fading_in"
	case FadingOut:
		return "fading_out"
	case Crossfading:
		return "crossfading"
	case AdjustingParameters:
		return "adjusting"
	case FadeToPause:
		return "fade_to_pause"
	case FadeFromPause:
		return "fade_from_pause"
	}
	return "unknown"
}

// FadeType selects the transition used when a play request replaces a track
// that is already audible.
type FadeType int

const (
	// FadeInOut silences the old clip first, then starts the new one.
	FadeInOut FadeType = iota
	// Crossfade overlaps the two: the old clip ramps down while the new one
	// ramps up.
	Crossfade
)

// FadeTarget selects which parameters an interpolation writes.
type FadeTarget int

const (
	FadeIgnore FadeTarget = iota
	FadeVolume
	FadePitch
	FadeAll
)

func (ft FadeTarget) fadesVolume() bool { return ft == FadeVolume || ft == FadeAll }
func (ft FadeTarget) fadesPitch() bool  { return ft == FadePitch || ft == FadeAll }

// PlayRequest carries everything a play call needs. Name takes precedence
// over index when resolving the clip.
type PlayRequest struct {
	TrackIndex   int
	TrackName    string
	Volume       float64
	Pitch        float64
	SpatialBlend float64
	FadeType     FadeType
	FadeDuration float64
	FadeTarget   FadeTarget
	Loop         bool
	Parent       any
}

// UpdateRequest carries a live parameter update for the main slot.
type UpdateRequest struct {
	Parent       any
	Volume       float64
	Pitch        float64
	SpatialBlend float64
	FadeDuration float64
	FadeTarget   FadeTarget
	Loop         bool
}
