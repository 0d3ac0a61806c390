package audio

import (
	"fmt"
	"log"
)

// Track is the state machine controlling one logical audio track. It owns a
// three-slot source set (main/cue/outgoing) and the fade tasks bound to those
// slots, and guarantees that at most three sources are ever alive no matter
// how requests and in-flight fades overlap.
//
// Everything runs on the caller's tick: request methods run to completion
// synchronously, fade tasks advance one step per Update call. No locks; a
// Track must only be touched from one goroutine.
type Track struct {
	kind     string
	factory  Factory
	resolver Resolver

	state State

	// last requested steady-state parameters, used to resume correctly
	// after pause and to restart looping clips
	targetVolume       float64
	targetPitch        float64
	targetSpatialBlend float64
	looping            bool

	// one-shot interruption flag; in-flight fade tasks exit on their next
	// check instead of writing one more frame
	stopRequested bool

	slots slotSet

	mainTask     *fadeTask
	cueTask      *fadeTask
	outgoingTask *fadeTask
	stopTask     *stopFade

	// most recent play request received while a sequential fade-out was in
	// flight; applied once the fade-out lands
	pending *PlayRequest

	// fade-in parameters for phase two of a fade-out-in transition
	swapDuration float64
	swapTarget   FadeTarget
}

func NewTrack(kind string, factory Factory, resolver Resolver) *Track {
	return &Track{
		kind:        kind,
		factory:     factory,
		resolver:    resolver,
		state:       Stopped,
		targetPitch: 1,
	}
}

func (t *Track) Kind() string { return t.kind }

func (t *Track) State() State { return t.state }

// IsPlaying reports whether the track is audible or transitioning; it is
// false only when fully stopped or parked in Paused.
func (t *Track) IsPlaying() bool {
	return t.state != Stopped && t.state != Paused
}

func (t *Track) IsCrossfading() bool { return t.state == Crossfading }

// Target* expose the last requested steady-state parameters.
func (t *Track) TargetVolume() float64       { return t.targetVolume }
func (t *Track) TargetPitch() float64        { return t.targetPitch }
func (t *Track) TargetSpatialBlend() float64 { return t.targetSpatialBlend }
func (t *Track) Looping() bool               { return t.looping }

// Play starts the requested clip on this track. How the request lands
// depends on the current state; see the per-state helpers. A request that
// cannot be satisfied (unknown clip, factory failure, illegal state) is
// dropped without touching the slot set.
func (t *Track) Play(req PlayRequest) {
	switch t.state {
	case Paused:
		log.Printf("audio: %s: play ignored while paused; resume first", t.kind)
	case FadeToPause:
		log.Printf("audio: %s: play ignored while fading to pause", t.kind)
	case FadingOut:
		// keep only the most recent request; it is applied once the
		// fade-out lands
		r := req
		t.pending = &r
	case Stopped:
		t.startPlayback(req)
	case Crossfading, FadingIn:
		t.replaceDuringCrossfade(req)
	default: // Playing, AdjustingParameters, FadeFromPause
		if req.FadeType == Crossfade {
			t.startCrossfade(req)
		} else {
			t.startFadeOutIn(req)
		}
	}
}

// startPlayback handles Play from Stopped: the new source goes straight
// into main, either at target values or fading in from silence.
func (t *Track) startPlayback(req PlayRequest) {
	src, ok := t.createSource(req)
	if !ok {
		return
	}
	t.slots.main = src
	t.applyTargets(req)

	src.SetVolume(req.Volume)
	src.SetPitch(req.Pitch)
	if req.FadeDuration <= 0 || req.FadeTarget == FadeIgnore {
		src.Play()
		t.state = Playing
		return
	}

	// faded channels start from silence, the rest at target
	if req.FadeTarget.fadesVolume() {
		src.SetVolume(0)
	}
	if req.FadeTarget.fadesPitch() {
		src.SetPitch(0)
	}
	src.Play()
	t.mainTask = newFadeTask(src, slotMain, req.FadeTarget, req.Volume, req.Pitch, req.FadeDuration, actionSettlePlaying)
	t.state = FadingIn
}

// startCrossfade handles Play from a settled audible state with
// FadeType=Crossfade: main demotes to outgoing and ramps down while the new
// source rides up in cue.
func (t *Track) startCrossfade(req PlayRequest) {
	if req.FadeDuration <= 0 || req.FadeTarget == FadeIgnore {
		t.switchInstantly(req)
		return
	}
	src, ok := t.createSource(req)
	if !ok {
		return
	}

	// slot cap: whatever still occupies outgoing dies before main demotes
	t.cancelTask(&t.outgoingTask)
	t.slots.destroy(slotOutgoing)
	t.cancelTask(&t.mainTask)
	t.slots.demoteMain()
	t.applyTargets(req)

	if out := t.slots.outgoing; out != nil {
		t.outgoingTask = newFadeTask(out, slotOutgoing, req.FadeTarget, 0, 0, req.FadeDuration, actionDestroyOutgoing)
	}

	t.slots.cue = src
	t.startCueFadeIn(src, req)
	t.state = Crossfading
}

// startFadeOutIn handles Play from a settled audible state without
// crossfade: main fades to silence first, then the new source starts and
// fades in. The new source is constructed up front (silent, not playing)
// so the swap after the fade-out is seamless.
func (t *Track) startFadeOutIn(req PlayRequest) {
	if req.FadeDuration <= 0 || req.FadeTarget == FadeIgnore {
		t.switchInstantly(req)
		return
	}
	src, ok := t.createSource(req)
	if !ok {
		return
	}

	t.cancelAllTasks()
	t.slots.destroy(slotCue)
	t.slots.destroy(slotOutgoing)
	t.slots.demoteMain()
	t.applyTargets(req)

	src.SetVolume(req.Volume)
	src.SetPitch(req.Pitch)
	if req.FadeTarget.fadesVolume() {
		src.SetVolume(0)
	}
	if req.FadeTarget.fadesPitch() {
		src.SetPitch(0)
	}
	t.slots.cue = src // parked silent until the fade-out lands
	t.swapDuration = req.FadeDuration
	t.swapTarget = req.FadeTarget

	out := t.slots.outgoing
	if out == nil {
		// nothing to fade out; jump straight to the fade-in phase
		t.state = FadingOut
		t.applyFadeDone(&fadeTask{action: actionSwapAfterFadeOut})
		return
	}
	t.outgoingTask = newFadeTask(out, slotOutgoing, req.FadeTarget, 0, 0, req.FadeDuration, actionSwapAfterFadeOut)
	t.state = FadingOut
}

// replaceDuringCrossfade handles Play while a crossfade or fade-in is still
// in flight. The freshest down-ramp wins the outgoing slot: any previous
// outgoing dies, the half-faded cue (or main, if there was no cue) demotes
// and continues down from its true current level, and a brand-new cue is
// created for the incoming request. This caps the slot count at three under
// arbitrarily rapid repeated Play calls, at the cost of cutting at most one
// in-flight fade short.
func (t *Track) replaceDuringCrossfade(req PlayRequest) {
	if req.FadeDuration <= 0 || req.FadeTarget == FadeIgnore {
		t.switchInstantly(req)
		return
	}
	src, ok := t.createSource(req)
	if !ok {
		return
	}

	t.cancelTask(&t.outgoingTask)
	t.slots.destroy(slotOutgoing)

	if t.slots.cue != nil {
		t.cancelTask(&t.cueTask)
		t.slots.demoteCue()
	} else if t.slots.main != nil {
		t.cancelTask(&t.mainTask)
		t.slots.demoteMain()
	}
	if out := t.slots.outgoing; out != nil {
		// the demoted channel ramps down from its captured partial level,
		// not from the old target
		t.outgoingTask = newFadeTask(out, slotOutgoing, req.FadeTarget, 0, 0, req.FadeDuration, actionDestroyOutgoing)
	}

	t.applyTargets(req)
	t.slots.cue = src
	t.startCueFadeIn(src, req)
	t.state = Crossfading
}

func (t *Track) startCueFadeIn(src Source, req PlayRequest) {
	src.SetVolume(req.Volume)
	src.SetPitch(req.Pitch)
	if req.FadeTarget.fadesVolume() {
		src.SetVolume(0)
	}
	if req.FadeTarget.fadesPitch() {
		src.SetPitch(0)
	}
	src.Play()
	t.cueTask = newFadeTask(src, slotCue, req.FadeTarget, req.Volume, req.Pitch, req.FadeDuration, actionPromoteCue)
}

// switchInstantly tears everything down and starts the request with no
// fade. Used whenever a transition is requested with a non-positive
// duration or FadeIgnore.
func (t *Track) switchInstantly(req PlayRequest) {
	t.cancelAllTasks()
	t.pending = nil
	t.slots.destroyAll()
	t.state = Stopped
	t.startPlayback(req)
}

// Stop halts the whole track. With a non-positive duration (or FadeIgnore)
// every slot is destroyed immediately; otherwise a single lockstep fade
// drives every live slot to silence and destruction. Stop always wins races
// against completing fades, and calling it again mid-fade just restarts the
// lockstep fade from the current levels.
func (t *Track) Stop(fadeDuration float64, target FadeTarget) {
	if t.state == Stopped {
		log.Printf("audio: %s: stop ignored; already stopped", t.kind)
		return
	}
	t.stopRequested = true
	t.cancelAllTasks()
	t.pending = nil

	if fadeDuration <= 0 || target == FadeIgnore {
		t.finishStop()
		return
	}
	t.stopTask = newStopFade(t, target, fadeDuration)
	t.state = FadingOut
}

func (t *Track) finishStop() {
	t.stopTask = nil
	t.slots.destroyAll()
	t.stopRequested = false
	t.state = Stopped
	if t.pending != nil {
		// a play request queued behind the stop fade starts now
		req := *t.pending
		t.pending = nil
		t.startPlayback(req)
	}
}

// PauseToggle pauses an audible track or resumes a paused one. Toggling
// while a pause fade is still running reverses the fade in place from the
// current partial values, so there is never an audible jump.
func (t *Track) PauseToggle(fadeDuration float64, target FadeTarget) {
	switch t.state {
	case Stopped:
		log.Printf("audio: %s: pause ignored while stopped", t.kind)
	case Paused:
		t.resume(fadeDuration, target)
	case FadeToPause:
		t.reverseToResume(fadeDuration, target)
	case FadeFromPause:
		t.reverseToPause(fadeDuration, target)
	default:
		if t.stopTask != nil {
			log.Printf("audio: %s: pause ignored while stopping", t.kind)
			return
		}
		t.beginPause(fadeDuration, target)
	}
}

// beginPause collapses any transition onto the most current channel and
// takes it to Paused. The outgoing slot was already heading to silence, so
// it is dropped rather than preserved; a cue in flight is the newest
// content and wins the main slot before the pause lands.
func (t *Track) beginPause(fadeDuration float64, target FadeTarget) {
	t.cancelAllTasks()
	t.pending = nil
	t.slots.destroy(slotOutgoing)
	if t.slots.cue != nil {
		t.slots.destroy(slotMain)
		t.slots.promoteCue()
	}

	main := t.slots.main
	if main == nil || !main.Alive() {
		t.state = Stopped
		return
	}
	// a cue parked by a fade-out-in transition was created silent and never
	// started; it must start before it can pause, or a later resume has no
	// playback position to unpause
	if !main.IsPlaying() && main.Position() == 0 {
		main.Play()
	}
	if fadeDuration <= 0 || target == FadeIgnore {
		main.Pause()
		t.state = Paused
		return
	}
	t.mainTask = newFadeTask(main, slotMain, target, 0, 0, fadeDuration, actionSettlePaused)
	t.state = FadeToPause
}

func (t *Track) resume(fadeDuration float64, target FadeTarget) {
	main := t.slots.main
	if main == nil || !main.Alive() {
		log.Printf("audio: %s: resume with no main source", t.kind)
		t.state = Stopped
		return
	}
	main.Unpause()
	if fadeDuration <= 0 || target == FadeIgnore {
		main.SetVolume(t.targetVolume)
		main.SetPitch(t.targetPitch)
		t.state = Playing
		return
	}
	t.mainTask = newFadeTask(main, slotMain, target, t.targetVolume, t.targetPitch, fadeDuration, actionSettlePlaying)
	t.state = FadeFromPause
}

// reverseToResume flips a running fade-to-pause back toward the stored
// targets, starting from whatever level the fade had reached.
func (t *Track) reverseToResume(fadeDuration float64, target FadeTarget) {
	t.cancelTask(&t.mainTask)
	main := t.slots.main
	if main == nil || !main.Alive() {
		t.state = Stopped
		return
	}
	if fadeDuration <= 0 || target == FadeIgnore {
		main.SetVolume(t.targetVolume)
		main.SetPitch(t.targetPitch)
		t.state = Playing
		return
	}
	t.mainTask = newFadeTask(main, slotMain, target, t.targetVolume, t.targetPitch, fadeDuration, actionSettlePlaying)
	t.state = FadeFromPause
}

// reverseToPause flips a running fade-from-pause back toward silence and
// Paused, again from the current partial level.
func (t *Track) reverseToPause(fadeDuration float64, target FadeTarget) {
	t.cancelTask(&t.mainTask)
	main := t.slots.main
	if main == nil || !main.Alive() {
		t.state = Stopped
		return
	}
	if fadeDuration <= 0 || target == FadeIgnore {
		main.Pause()
		t.state = Paused
		return
	}
	t.mainTask = newFadeTask(main, slotMain, target, 0, 0, fadeDuration, actionSettlePaused)
	t.state = FadeToPause
}

// UpdateParameters adjusts the main slot's live parameters. Loop flag,
// spatial blend and parent apply instantly; volume and pitch apply per the
// fade target mode, either instantly or by interpolating from the current
// values. Legal only while the main slot is authoritative.
func (t *Track) UpdateParameters(req UpdateRequest) {
	switch t.state {
	case Playing, FadingIn, AdjustingParameters:
	default:
		log.Printf("audio: %s: parameter update ignored in state %s", t.kind, t.state)
		return
	}
	main := t.slots.main
	if main == nil || !main.Alive() {
		log.Printf("audio: %s: parameter update with no main source", t.kind)
		return
	}

	t.looping = req.Loop
	main.SetLoop(req.Loop)
	t.targetSpatialBlend = req.SpatialBlend
	main.SetSpatialBlend(req.SpatialBlend)
	main.SetParent(req.Parent)

	if req.FadeTarget == FadeIgnore {
		return
	}
	if req.FadeTarget.fadesVolume() {
		t.targetVolume = req.Volume
	}
	if req.FadeTarget.fadesPitch() {
		t.targetPitch = req.Pitch
	}

	t.cancelTask(&t.mainTask)
	if req.FadeDuration <= 0 {
		if req.FadeTarget.fadesVolume() {
			main.SetVolume(req.Volume)
		}
		if req.FadeTarget.fadesPitch() {
			main.SetPitch(req.Pitch)
		}
		t.state = Playing
		return
	}
	t.mainTask = newFadeTask(main, slotMain, req.FadeTarget, t.targetVolume, t.targetPitch, req.FadeDuration, actionSettlePlaying)
	t.state = AdjustingParameters
}

// Update advances the track by one tick of dt seconds: the global stop fade
// if one is running, otherwise the per-slot fade tasks, then the liveness
// poll that restarts looping clips and turns a silently finished one-shot
// into an implicit stop.
func (t *Track) Update(dt float64) {
	if t.stopTask != nil {
		if t.stopTask.advance(t, dt) {
			t.finishStop()
		}
		return
	}

	t.advanceTask(&t.outgoingTask, dt)
	t.advanceTask(&t.cueTask, dt)
	t.advanceTask(&t.mainTask, dt)

	t.pollLiveness()
}

func (t *Track) advanceTask(slot **fadeTask, dt float64) {
	task := *slot
	if task == nil {
		return
	}
	if task.advance(t, dt) {
		*slot = nil
		t.applyFadeDone(task)
		return
	}
	if !task.active() {
		*slot = nil
	}
}

// applyFadeDone is the single re-entry point from a completed fade task
// back into the state machine.
func (t *Track) applyFadeDone(task *fadeTask) {
	switch task.action {
	case actionSettlePlaying:
		t.state = Playing

	case actionSettlePaused:
		if main := t.slots.main; main != nil && main.Alive() {
			main.Pause()
		}
		t.state = Paused

	case actionPromoteCue:
		// settled states carry exactly one live slot
		t.cancelTask(&t.outgoingTask)
		t.slots.destroy(slotOutgoing)
		t.slots.destroy(slotMain)
		t.slots.promoteCue()
		t.state = Playing

	case actionDestroyOutgoing:
		t.slots.destroy(slotOutgoing)

	case actionSwapAfterFadeOut:
		t.slots.destroy(slotOutgoing)
		if t.pending != nil {
			// a newer request arrived mid fade-out; the parked cue never plays
			req := *t.pending
			t.pending = nil
			t.slots.destroy(slotCue)
			t.state = Stopped
			t.Play(req)
			return
		}
		cue := t.slots.cue
		if cue == nil || !cue.Alive() {
			t.state = Stopped
			return
		}
		cue.Play()
		t.slots.promoteCue()
		main := t.slots.main
		t.mainTask = newFadeTask(main, slotMain, t.swapTarget, t.targetVolume, t.targetPitch, t.swapDuration, actionSettlePlaying)
		t.state = FadingIn
	}
}

// pollLiveness watches the main slot while the track believes it is
// playing. A looping clip that ran out is restarted; a one-shot that ran
// out is an implicit stop.
func (t *Track) pollLiveness() {
	if t.state != Playing {
		return
	}
	main := t.slots.main
	if main == nil || !main.Alive() {
		t.slots.destroyAll()
		t.state = Stopped
		return
	}
	if main.IsPlaying() {
		return
	}
	if t.looping {
		main.SetVolume(t.targetVolume)
		main.Play()
		return
	}
	t.slots.destroyAll()
	t.state = Stopped
}

func (t *Track) createSource(req PlayRequest) (Source, bool) {
	if t.factory == nil {
		log.Printf("audio: %s: %v", t.kind, ErrNoFactory)
		return nil, false
	}
	var clip Clip
	if t.resolver != nil {
		c, err := t.resolver.Resolve(req.TrackIndex, req.TrackName)
		if err != nil {
			log.Printf("audio: %s: resolve track %d %q: %v", t.kind, req.TrackIndex, req.TrackName, err)
			return nil, false
		}
		clip = c
	}
	src, err := t.factory.NewSource(clip, req.Parent)
	if err != nil {
		log.Printf("audio: %s: create source: %v", t.kind, err)
		return nil, false
	}
	src.SetLoop(req.Loop)
	src.SetSpatialBlend(req.SpatialBlend)
	return src, true
}

func (t *Track) applyTargets(req PlayRequest) {
	t.targetVolume = req.Volume
	t.targetPitch = req.Pitch
	t.targetSpatialBlend = req.SpatialBlend
	t.looping = req.Loop
}

func (t *Track) cancelTask(slot **fadeTask) {
	if *slot != nil {
		(*slot).cancel()
		*slot = nil
	}
}

func (t *Track) cancelAllTasks() {
	t.cancelTask(&t.mainTask)
	t.cancelTask(&t.cueTask)
	t.cancelTask(&t.outgoingTask)
}

// DebugString is a one-line summary of the track for overlays and logs.
func (t *Track) DebugString() string {
	name := func(src Source) string {
		if src == nil {
			return "-"
		}
		if c := src.Clip(); c != nil {
			return c.Name()
		}
		return "?"
	}
	return fmt.Sprintf("%s: %s main=%s cue=%s outgoing=%s vol=%.2f pitch=%.2f",
		t.kind, t.state, name(t.slots.main), name(t.slots.cue), name(t.slots.outgoing), t.targetVolume, t.targetPitch)
}
