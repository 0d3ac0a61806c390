package audio

import "github.com/bigmeaningsmall/BMS-AudioManager-sub000/common"

// fadeAction is what a fade task does to its track when it completes
// naturally.
type fadeAction int

const (
	// actionSettlePlaying finalizes the track in Playing.
	actionSettlePlaying fadeAction = iota
	// actionSettlePaused pauses the main slot, then finalizes in Paused.
	actionSettlePaused
	// actionPromoteCue renames cue to main and finalizes in Playing.
	actionPromoteCue
	// actionDestroyOutgoing releases the outgoing slot.
	actionDestroyOutgoing
	// actionSwapAfterFadeOut releases outgoing, starts the parked cue, and
	// begins the fade-in phase of a sequential fade-out-in transition.
	actionSwapAfterFadeOut
)

// fadeTask interpolates volume and/or pitch of one slot from values captured
// at task start toward target values over duration seconds. Start values are
// captured, not assumed: a pre-empted fade resumes from its partially faded
// level, never from 0 or the old target.
//
// A task is advanced once per tick. It never writes after cancellation, after
// a global stop was requested, or after its slot has been released.
type fadeTask struct {
	slot   slotName
	target FadeTarget
	action fadeAction

	startVolume float64
	startPitch  float64
	endVolume   float64
	endPitch    float64

	duration float64
	elapsed  float64

	cancelled bool
	done      bool
}

func newFadeTask(src Source, slot slotName, target FadeTarget, endVolume, endPitch, duration float64, action fadeAction) *fadeTask {
	return &fadeTask{
		slot:        slot,
		target:      target,
		action:      action,
		startVolume: src.Volume(),
		startPitch:  src.Pitch(),
		endVolume:   endVolume,
		endPitch:    endPitch,
		duration:    duration,
	}
}

// cancel is idempotent. A cancelled task never applies another value.
func (f *fadeTask) cancel() {
	f.cancelled = true
}

func (f *fadeTask) active() bool {
	return f != nil && !f.cancelled && !f.done
}

// advance runs one tick of interpolation. It reports true when the task
// completed naturally this tick; the track then applies the completion
// action exactly once. On natural completion the targets are written
// exactly, not as the last interpolated value.
func (f *fadeTask) advance(t *Track, dt float64) bool {
	if !f.active() {
		return false
	}
	if t.stopRequested {
		// the global stop owns the final values
		f.cancelled = true
		return false
	}
	src := t.slots.get(f.slot)
	if src == nil || !src.Alive() {
		f.cancelled = true
		return false
	}

	f.elapsed += dt
	if f.elapsed >= f.duration {
		if f.target.fadesVolume() {
			src.SetVolume(f.endVolume)
		}
		if f.target.fadesPitch() {
			src.SetPitch(f.endPitch)
		}
		f.done = true
		return true
	}

	r := common.Clamp01(f.elapsed / f.duration)
	if f.target.fadesVolume() {
		src.SetVolume(common.Lerp(f.startVolume, f.endVolume, r))
	}
	if f.target.fadesPitch() {
		src.SetPitch(common.Lerp(f.startPitch, f.endPitch, r))
	}
	return false
}

type stopStart struct {
	slot   slotName
	volume float64
	pitch  float64
}

// stopFade drives every live slot toward silence with one shared
// elapsed-time ratio, each from its own captured start values. A slot that
// dies mid-fade is skipped on later ticks.
type stopFade struct {
	target   FadeTarget
	starts   []stopStart
	duration float64
	elapsed  float64
}

func newStopFade(t *Track, target FadeTarget, duration float64) *stopFade {
	sf := &stopFade{target: target, duration: duration}
	for _, n := range allSlots {
		src := t.slots.get(n)
		if src == nil || !src.Alive() {
			continue
		}
		sf.starts = append(sf.starts, stopStart{slot: n, volume: src.Volume(), pitch: src.Pitch()})
	}
	return sf
}

// advance runs one lockstep tick. It reports true when the stop fade has
// fully elapsed; the track then destroys every slot and settles Stopped.
func (f *stopFade) advance(t *Track, dt float64) bool {
	f.elapsed += dt
	finished := f.elapsed >= f.duration
	r := common.Clamp01(f.elapsed / f.duration)
	for _, st := range f.starts {
		src := t.slots.get(st.slot)
		if src == nil || !src.Alive() {
			continue
		}
		if finished {
			if f.target.fadesVolume() {
				src.SetVolume(0)
			}
			if f.target.fadesPitch() {
				src.SetPitch(0)
			}
			continue
		}
		if f.target.fadesVolume() {
			src.SetVolume(common.Lerp(st.volume, 0, r))
		}
		if f.target.fadesPitch() {
			src.SetPitch(common.Lerp(st.pitch, 0, r))
		}
	}
	return finished
}
