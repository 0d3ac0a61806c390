package assets

import (
	"fmt"
	"sort"
	"strings"

	coreaudio "github.com/bigmeaningsmall/BMS-AudioManager-sub000/audio"
)

// Clip is one embedded audio clip, decoded to PCM once at catalogue load.
type Clip struct {
	name string
	pcm  []byte
}

func (c *Clip) Name() string { return c.name }

// Length is the clip duration in seconds. Decoded PCM is 16-bit stereo.
func (c *Clip) Length() float64 {
	return float64(len(c.pcm)) / 4 / SampleRate
}

// Data returns the decoded PCM; playback backends pick it up through this
// method without importing this package.
func (c *Clip) Data() []byte { return c.pcm }

// Catalog holds every embedded clip, indexable by position or name. It
// implements the track controller's clip resolver.
type Catalog struct {
	clips  []*Clip
	byName map[string]*Clip
}

// LoadCatalog decodes every embedded wav into a catalogue. Clips are
// ordered by filename so indices are stable.
func LoadCatalog() (*Catalog, error) {
	entries, err := assetsFS.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("assets: read embedded dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".wav") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	c := &Catalog{byName: make(map[string]*Clip, len(names))}
	for _, file := range names {
		pcm, err := LoadPCM(file)
		if err != nil {
			return nil, err
		}
		clip := &Clip{name: strings.TrimSuffix(file, ".wav"), pcm: pcm}
		c.clips = append(c.clips, clip)
		c.byName[clip.name] = clip
	}
	return c, nil
}

// Names returns the clip names in index order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.clips))
	for i, clip := range c.clips {
		names[i] = clip.name
	}
	return names
}

// Resolve maps a track index or name to a clip. A non-empty name takes
// precedence over the index.
func (c *Catalog) Resolve(index int, name string) (coreaudio.Clip, error) {
	if name = strings.TrimSpace(name); name != "" {
		if clip, ok := c.byName[name]; ok {
			return clip, nil
		}
		return nil, fmt.Errorf("%w: %q", coreaudio.ErrClipNotFound, name)
	}
	if index >= 0 && index < len(c.clips) {
		return c.clips[index], nil
	}
	return nil, fmt.Errorf("%w: index %d", coreaudio.ErrClipNotFound, index)
}
