package main

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/charmbracelet/log"
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/boneyard/audio"
	"github.com/milk9111/boneyard/common"
	"github.com/milk9111/boneyard/config"
	"github.com/milk9111/boneyard/ecs"
	"github.com/milk9111/boneyard/ecs/component"
	"github.com/milk9111/boneyard/ecs/system"
	"github.com/milk9111/boneyard/levels"
	"github.com/milk9111/boneyard/prefabs"
	"github.com/milk9111/boneyard/scene"
	"golang.org/x/image/font/basicfont"
)

const cameraSmoothing = 0.15

type screenKind uint8

const (
	screenMenu screenKind = iota
	screenPlaying
)

type Game struct {
	cfg    config.Config
	screen screenKind
	scene  *scene.Scene
	synth  *audio.Synth

	paused  bool
	pauseUI *ebitenui.UI
	watcher *prefabs.Watcher

	face       ebtext.Face
	camX, camY float64
	message    string
	// transition is the target requested during the last frame.
	transition string
}

func NewGame(cfg config.Config, synth *audio.Synth, watcher *prefabs.Watcher) *Game {
	g := &Game{
		cfg:     cfg,
		synth:   synth,
		watcher: watcher,
		face:    ebtext.NewGoXFace(basicfont.Face7x13),
	}
	g.pauseUI = NewPauseUI(g)
	return g
}

func (g *Game) startLevel(name string) {
	var err error
	if g.scene == nil {
		g.scene, err = scene.New(name, scene.Options{Seed: g.cfg.Seed})
	} else {
		err = g.scene.Load(name)
	}
	if err != nil {
		log.Error("start level", "level", name, "err", err)
		g.message = fmt.Sprintf("could not load %s", name)
		if errors.Is(err, levels.ErrLevelNotFound) {
			g.message = fmt.Sprintf("level %s not found", name)
		}
		g.toMenu()
		return
	}
	g.message = ""
	g.screen = screenPlaying
	g.paused = false
	g.snapCamera()
}

func (g *Game) toMenu() {
	g.screen = screenMenu
	g.paused = false
	g.scene = nil
}

func (g *Game) resume() { g.paused = false }

func (g *Game) restartFromPause() {
	g.paused = false
	if g.scene != nil {
		g.scene.RequestRestart()
	}
}

func (g *Game) menuFromPause() { g.toMenu() }

func (g *Game) Update() error {
	switch g.screen {
	case screenMenu:
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
			g.startLevel(g.cfg.Level)
		}
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	if changed := g.watcher.Poll(); len(changed) > 0 {
		log.Info("prefabs changed, restarting level", "files", changed)
		g.scene.RequestRestart()
	}

	g.scene.Update(system.ReadKeyboard())
	g.handleEvents(g.scene.DrainEvents())
	if g.screen != screenPlaying {
		return nil
	}

	if target := g.transition; target != "" {
		g.transition = ""
		if target == system.MainMenuTarget {
			log.Info("returning to main menu")
			g.toMenu()
			return nil
		}
		g.startLevel(target)
		return nil
	}

	g.followCamera(cameraSmoothing)
	return nil
}

func (g *Game) handleEvents(events []ecs.Event) {
	for _, evt := range events {
		switch evt.Kind {
		case ecs.EventSound:
			if kind, ok := evt.Data.(component.SoundKind); ok {
				g.synth.Play(kind)
			}
		case ecs.EventTransition:
			if target, ok := evt.Data.(string); ok && g.transition == "" {
				g.transition = target
			}
		case ecs.EventScore:
			log.Debug("score incremented", "score", g.scene.Status().Score)
		}
	}
}

// followCamera moves the camera toward the player, clamped to level bounds.
func (g *Game) followCamera(t float64) {
	st := g.scene.Status()
	targetX := st.X - common.BaseWidth/2
	targetY := st.Y - common.BaseHeight/2
	if lvl := g.scene.Level(); lvl != nil {
		targetX = common.Clamp(targetX, 0, max(0, lvl.Width-common.BaseWidth))
		targetY = common.Clamp(targetY, 0, max(0, lvl.Height-common.BaseHeight))
	}
	g.camX = common.Lerp(g.camX, targetX, t)
	g.camY = common.Lerp(g.camY, targetY, t)
}

func (g *Game) snapCamera() { g.followCamera(1) }

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x12, G: 0x12, B: 0x1a, A: 0xff})

	if g.screen == screenMenu {
		g.drawText(screen, "BONEYARD", 130, 80)
		g.drawText(screen, "press enter to start", 90, 110)
		if g.message != "" {
			g.drawText(screen, g.message, 90, 140)
		}
		return
	}

	drawSpace(screen, g.scene.Physics(), g.camX, g.camY)

	st := g.scene.Status()
	key := "-"
	if st.HasKey {
		key = "key"
	}
	g.drawText(screen, fmt.Sprintf("HP %d/%d  coins %d  %s  %s", st.Health, st.MaxHealth, st.Score, key, st.Level), 4, 4)
	if g.cfg.Debug {
		g.drawText(screen, fmt.Sprintf("%s ground=%v fps=%.0f", st.State, st.Grounded, ebiten.ActualFPS()), 4, 18)
	}
	if st.State == component.PlayerDead {
		g.drawText(screen, "you died - R to restart, M for menu", 40, 110)
	}
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) drawText(screen *ebiten.Image, s string, x, y float64) {
	op := &ebtext.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(color.White)
	ebtext.Draw(screen, s, g.face, op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return common.BaseWidth, common.BaseHeight
}
