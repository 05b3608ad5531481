package system

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/boneyard/ecs"
	"github.com/milk9111/boneyard/ecs/component"
)

// PendingActionSystem applies the single-shot requests recorded during the
// previous frame: level restarts and player position resets.
type PendingActionSystem struct {
	players *PlayerSystem
	restart func() error
}

func NewPendingActionSystem(players *PlayerSystem, restart func() error) *PendingActionSystem {
	return &PendingActionSystem{players: players, restart: restart}
}

func (s *PendingActionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	reload := false
	ecs.ForEach(w, component.ReloadRequestComponent.Kind(), func(e ecs.Entity, _ *component.ReloadRequest) {
		reload = true
		ecs.DestroyEntity(w, e)
	})
	if reload && s.restart != nil {
		if err := s.restart(); err != nil {
			log.Error("restart level", "err", err)
		}
		return
	}

	ecs.ForEach(w, component.RespawnRequestComponent.Kind(), func(e ecs.Entity, _ *component.RespawnRequest) {
		_ = ecs.Remove(w, e, component.RespawnRequestComponent.Kind())
		if s.players != nil {
			s.players.ResetToSpawn(w, e)
		}
	})
}
