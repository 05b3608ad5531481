package system

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/boneyard/ecs"
	"github.com/milk9111/boneyard/ecs/component"
)

// MainMenuTarget is the transition target that returns to the menu screen.
const MainMenuTarget = "main_menu"

// GameOverSystem handles input while the player is dead: restart or go back
// to the main menu.
type GameOverSystem struct {
	notifier Notifier
}

func NewGameOverSystem(notifier Notifier) *GameOverSystem {
	return &GameOverSystem{notifier: notifierOrNop(notifier)}
}

func (s *GameOverSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.PlayerComponent.Kind(), component.InputComponent.Kind(), func(_ ecs.Entity, p *component.Player, in *component.Input) {
		if p.State != component.PlayerDead {
			return
		}
		switch {
		case in.Restart:
			RequestReload(w)
		case in.Menu:
			log.Info("game over, returning to menu")
			s.notifier.RequestScreenTransition(MainMenuTarget)
		}
	})
}

// RequestReload asks for a level restart at the start of the next frame.
func RequestReload(w *ecs.World) {
	if _, ok := ecs.First(w, component.ReloadRequestComponent.Kind()); ok {
		return
	}
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.ReloadRequestComponent.Kind(), &component.ReloadRequest{}); err != nil {
		log.Error("request reload", "err", err)
	}
}

// RequestPositionReset asks for the player to be moved back to spawn at the
// start of the next frame. Dead players are ignored.
func RequestPositionReset(w *ecs.World) {
	player, ok := ecs.First(w, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	if p, _ := ecs.Get(w, player, component.PlayerComponent.Kind()); p.State == component.PlayerDead {
		return
	}
	if err := ecs.Add(w, player, component.RespawnRequestComponent.Kind(), &component.RespawnRequest{}); err != nil {
		log.Error("request position reset", "err", err)
	}
}
