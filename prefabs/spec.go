package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// TracksSpec is the audio track configuration: one entry per track kind
// with its steady-state defaults.
type TracksSpec struct {
	Tracks []TrackSpec `yaml:"tracks"`
}

type TrackSpec struct {
	Name         string  `yaml:"name"`
	Volume       float64 `yaml:"volume"`
	Pitch        float64 `yaml:"pitch"`
	FadeDuration float64 `yaml:"fade_duration"`
	Loop         bool    `yaml:"loop"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

func LoadTracksSpec() (*TracksSpec, error) {
	spec, err := LoadSpec[TracksSpec]("tracks.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}
