package prefabs

import "testing"

func TestWatcherFilters(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"prefabs/tracks.yaml", true},
		{"prefabs/Tracks.YML", true},
		{"prefabs/scripts/demo.tengo", true},
		{"prefabs/scripts/.demo.tengo.swp", false},
		{"prefabs/other.yaml", false},
		{"prefabs/tracks.json", false},
		{"README.md", false},
	}
	for _, c := range cases {
		got := isTrackSpec(c.path) || isCueScript(c.path)
		if got != c.want {
			t.Fatalf("filter(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}
