package prefabs

import "testing"

func TestLoadTracksSpec(t *testing.T) {
	spec, err := LoadTracksSpec()
	if err != nil {
		t.Fatalf("LoadTracksSpec: %v", err)
	}
	if len(spec.Tracks) == 0 {
		t.Fatalf("expected track entries")
	}

	byName := map[string]TrackSpec{}
	for _, tr := range spec.Tracks {
		if tr.Name == "" {
			t.Fatalf("track entry without a name")
		}
		byName[tr.Name] = tr
	}

	music, ok := byName["music"]
	if !ok {
		t.Fatalf("expected a music track")
	}
	if music.Volume <= 0 || music.Volume > 1 || music.FadeDuration <= 0 {
		t.Fatalf("implausible music defaults: %+v", music)
	}
	if !music.Loop {
		t.Fatalf("music should loop by default")
	}
}

func TestLoadSpecMissingFile(t *testing.T) {
	if _, err := LoadSpec[TracksSpec]("no_such.yaml"); err == nil {
		t.Fatalf("expected error for missing spec")
	}
}

func TestLoadScript(t *testing.T) {
	cases := []string{"demo.tengo", "scripts/demo.tengo", "prefabs/scripts/demo.tengo"}
	for _, name := range cases {
		data, err := LoadScript(name)
		if err != nil {
			t.Fatalf("LoadScript(%q): %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("LoadScript(%q): empty script", name)
		}
	}
}
