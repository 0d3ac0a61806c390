package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/image/colornames"

	"github.com/bigmeaningsmall/BMS-AudioManager-sub000/assets"
	"github.com/bigmeaningsmall/BMS-AudioManager-sub000/audio"
	"github.com/bigmeaningsmall/BMS-AudioManager-sub000/ebitenaudio"
	"github.com/bigmeaningsmall/BMS-AudioManager-sub000/prefabs"
	"github.com/bigmeaningsmall/BMS-AudioManager-sub000/script"
)

const (
	baseWidth  = 960
	baseHeight = 540
)

type Game struct {
	frames int
	debug  bool

	manager  *audio.Manager
	clips    []string
	nextClip int

	ui      *ebitenui.UI
	cues    *script.Runtime
	watcher *prefabs.Watcher
}

func NewGame(cueScript string, debug bool) (*Game, error) {
	catalog, err := assets.LoadCatalog()
	if err != nil {
		return nil, err
	}

	manager := audio.NewManager(ebitenaudio.NewFactory(assets.SampleRate), catalog)

	g := &Game{
		debug:   debug,
		manager: manager,
		clips:   catalog.Names(),
	}
	g.ui = NewTransportUI(g)

	if spec, err := prefabs.LoadTracksSpec(); err != nil {
		log.Printf("game: load track spec: %v", err)
	} else {
		applyTracksSpec(manager, spec)
	}

	if cueScript != "" {
		if !strings.HasSuffix(cueScript, ".tengo") {
			cueScript += ".tengo"
		}
		src, err := prefabs.LoadScript(cueScript)
		if err != nil {
			return nil, err
		}
		cues, err := script.NewRuntime(src)
		if err != nil {
			return nil, err
		}
		g.cues = cues
	}

	// hot reload only works when running from the repo root; embedded
	// copies still load when the directory is missing
	if watcher, err := prefabs.NewWatcher("prefabs", "prefabs/scripts"); err != nil {
		log.Printf("game: prefab watcher disabled: %v", err)
	} else {
		g.watcher = watcher
	}

	return g, nil
}

func applyTracksSpec(m *audio.Manager, spec *prefabs.TracksSpec) {
	for _, tr := range spec.Tracks {
		m.SetDefaults(tr.Name, audio.TrackDefaults{
			Volume:       tr.Volume,
			Pitch:        tr.Pitch,
			FadeDuration: tr.FadeDuration,
			Loop:         tr.Loop,
		})
	}
}

func (g *Game) Update() error {
	g.frames++
	dt := 1.0 / float64(ebiten.TPS())

	g.pollWatcher()
	g.handleKeys()

	if g.cues != nil {
		if err := g.cues.Update(g.manager, dt); err != nil {
			log.Printf("game: cue script failed, disabling: %v", err)
			g.cues = nil
		}
	}

	g.manager.Update(dt)
	g.ui.Update()

	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	select {
	case name, ok := <-g.watcher.Events:
		if !ok {
			g.watcher = nil
			return
		}
		log.Printf("game: reloading %s", name)
		if strings.HasSuffix(name, ".tengo") {
			g.reloadCues(name)
			return
		}
		if spec, err := prefabs.LoadTracksSpec(); err != nil {
			log.Printf("game: reload track spec: %v", err)
		} else {
			applyTracksSpec(g.manager, spec)
		}
	case err, ok := <-g.watcher.Errors:
		if !ok {
			g.watcher = nil
			return
		}
		log.Printf("game: prefab watcher: %v", err)
	default:
	}
}

// reloadCues swaps in a recompiled cue script. The timeline restarts from
// zero; already-fired cues fire again.
func (g *Game) reloadCues(name string) {
	if g.cues == nil {
		return
	}
	src, err := prefabs.LoadScript(name)
	if err != nil {
		log.Printf("game: reload cue script: %v", err)
		return
	}
	cues, err := script.NewRuntime(src)
	if err != nil {
		log.Printf("game: reload cue script: %v", err)
		return
	}
	g.cues = cues
}

func (g *Game) handleKeys() {
	for i, key := range []ebiten.Key{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3} {
		if inpututil.IsKeyJustPressed(key) && i < len(g.clips) {
			g.playClip(i, audio.Crossfade)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) && len(g.clips) > 0 {
		g.nextClip = (g.nextClip + 1) % len(g.clips)
		g.playClip(g.nextClip, audio.FadeInOut)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.manager.Stop(audio.KindMusic, 2, audio.FadeVolume)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		g.manager.StopAll(0, audio.FadeVolume)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.manager.PauseToggle(audio.KindMusic, 0.5, audio.FadeVolume)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		g.nudgeVolume(0.1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		g.nudgeVolume(-0.1)
	}
}

func (g *Game) playClip(index int, fadeType audio.FadeType) {
	if index < 0 || index >= len(g.clips) {
		return
	}
	// negative duration asks for the kind's configured default
	g.manager.Play(audio.KindMusic, audio.PlayRequest{
		TrackName:    g.clips[index],
		FadeType:     fadeType,
		FadeDuration: -1,
		FadeTarget:   audio.FadeVolume,
		Loop:         true,
	})
}

func (g *Game) nudgeVolume(delta float64) {
	track := g.manager.Track(audio.KindMusic)
	if track == nil {
		return
	}
	g.manager.UpdateParameters(audio.KindMusic, audio.UpdateRequest{
		Volume:       track.TargetVolume() + delta,
		Pitch:        track.TargetPitch(),
		SpatialBlend: track.TargetSpatialBlend(),
		FadeDuration: 0.2,
		FadeTarget:   audio.FadeVolume,
		Loop:         track.Looping(),
	})
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Darkslategray)
	g.ui.Draw(screen)

	if !g.debug {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %.2f\n", ebiten.ActualFPS())
	b.WriteString("[1-3] crossfade clip  [F] fade out/in  [S] fade stop  [X] stop all\n")
	b.WriteString("[Space] pause toggle  [Up/Down] volume\n\n")
	b.WriteString(g.manager.DebugString())
	ebitenutil.DebugPrint(screen, b.String())
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
