package audio

import "testing"

func newFakeManager(names ...string) (*Manager, *fakeFactory) {
	clips := make([]*fakeClip, 0, len(names))
	for _, n := range names {
		clips = append(clips, &fakeClip{name: n, length: 10})
	}
	factory := &fakeFactory{}
	return NewManager(factory, &fakeResolver{clips: clips}), factory
}

func TestManagerDefaults(t *testing.T) {
	m, factory := newFakeManager("theme")
	m.SetDefaults(KindMusic, TrackDefaults{Volume: 0.7, Pitch: 1.2, FadeDuration: 2})

	t.Run("fills_unset_fields", func(t *testing.T) {
		m.Play(KindMusic, PlayRequest{TrackName: "theme", FadeDuration: -1, FadeTarget: FadeVolume})
		track := m.Track(KindMusic)
		if track.targetVolume != 0.7 || track.targetPitch != 1.2 {
			t.Fatalf("expected defaults applied, got vol=%v pitch=%v", track.targetVolume, track.targetPitch)
		}
		if track.State() != FadingIn {
			t.Fatalf("negative duration takes the default fade, got %s", track.State())
		}
		_ = factory
	})

	t.Run("zero_duration_stays_instant", func(t *testing.T) {
		m.Stop(KindMusic, 0, FadeVolume)
		m.Play(KindMusic, PlayRequest{TrackName: "theme", FadeTarget: FadeVolume})
		if m.Track(KindMusic).State() != Playing {
			t.Fatalf("explicit zero duration means instant, got %s", m.Track(KindMusic).State())
		}
	})
}

func TestManagerUnknownKind(t *testing.T) {
	m, factory := newFakeManager("theme")

	m.Play("sfx", PlayRequest{TrackName: "theme", Volume: 1})
	m.Stop("sfx", 0, FadeVolume)
	m.PauseToggle("sfx", 0, FadeVolume)
	m.UpdateParameters("sfx", UpdateRequest{Volume: 1})

	if len(factory.sources) != 0 {
		t.Fatalf("unknown kinds must be dropped, got %d sources", len(factory.sources))
	}
}

func TestManagerTracksAreIndependent(t *testing.T) {
	m, factory := newFakeManager("theme", "rain", "line")

	m.Play(KindMusic, PlayRequest{TrackName: "theme", Volume: 1, Pitch: 1})
	m.Play(KindAmbience, PlayRequest{TrackName: "rain", Volume: 0.4, Pitch: 1, Loop: true})
	m.Play(KindDialogue, PlayRequest{TrackName: "line", Volume: 1, Pitch: 1, FadeDuration: 0.5, FadeTarget: FadeVolume})

	if factory.liveCount() != 3 {
		t.Fatalf("expected one source per kind, got %d", factory.liveCount())
	}

	m.Stop(KindMusic, 0, FadeVolume)
	if m.Track(KindAmbience).State() != Playing || m.Track(KindDialogue).State() != FadingIn {
		t.Fatalf("stopping one kind must not touch the others")
	}

	for i := 0; i < 10; i++ {
		m.Update(0.1)
	}
	if m.Track(KindDialogue).State() != Playing {
		t.Fatalf("manager update must advance every track, got %s", m.Track(KindDialogue).State())
	}
}

func TestManagerStopAll(t *testing.T) {
	m, factory := newFakeManager("theme", "rain")

	m.Play(KindMusic, PlayRequest{TrackName: "theme", Volume: 1, Pitch: 1})
	m.Play(KindAmbience, PlayRequest{TrackName: "rain", Volume: 1, Pitch: 1})
	m.StopAll(0.5, FadeVolume)

	for i := 0; i < 10; i++ {
		m.Update(0.1)
	}
	if factory.liveCount() != 0 {
		t.Fatalf("expected every source released, got %d", factory.liveCount())
	}
	for _, kind := range m.Kinds() {
		if m.Track(kind).State() != Stopped {
			t.Fatalf("expected %s stopped, got %s", kind, m.Track(kind).State())
		}
	}
}

func TestManagerAddTrack(t *testing.T) {
	m, factory := newFakeManager("stinger")
	track := m.AddTrack("stinger", TrackDefaults{Volume: 1, Pitch: 1})
	if track == nil || m.Track("stinger") != track {
		t.Fatalf("expected registered track")
	}

	m.Play("stinger", PlayRequest{TrackName: "stinger"})
	if factory.liveCount() != 1 || track.State() != Playing {
		t.Fatalf("expected custom kind playable, got state=%s", track.State())
	}

	if m.AddTrack("  ", TrackDefaults{}) != nil {
		t.Fatalf("blank kind must be rejected")
	}
}
