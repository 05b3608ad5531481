package entity

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/boneyard/common"
	"github.com/milk9111/boneyard/ecs"
	"github.com/milk9111/boneyard/ecs/component"
	"github.com/milk9111/boneyard/levels"
	"github.com/milk9111/boneyard/prefabs"
)

// LoadedLevel describes what LoadLevelToWorld spawned.
type LoadedLevel struct {
	Name   string
	Player ecs.Entity
	// Spawn is the player spawn in meters.
	Spawn     cp.Vector
	Geometry  []*cp.Shape
	Coins     int
	Enemies   int
	Shooters  int
	Keys      int
	Doors     int
	Unhandled int
}

// LoadLevelToWorld instantiates a level: static collision geometry on the
// shared static body, then the player, pickups, enemies and doors. Missing
// layers are skipped.
func LoadLevelToWorld(w *ecs.World, s *Spawner, lvl *levels.Level, spec prefabs.WorldSpec) (*LoadedLevel, error) {
	if w == nil || s == nil || s.Physics == nil {
		return nil, fmt.Errorf("load level: world, spawner and physics are required")
	}
	if lvl == nil {
		return nil, fmt.Errorf("load level: level is nil")
	}
	out := &LoadedLevel{Name: lvl.Name}

	if bounds := ecs.CreateEntity(w); bounds.Valid() {
		if err := ecs.Add(w, bounds, component.LevelBoundsComponent.Kind(), &component.LevelBounds{
			Width:  lvl.Width,
			Height: lvl.Height,
		}); err != nil {
			return nil, err
		}
	}

	if layer, ok := layerOrLog(lvl, levels.LayerCollision); ok {
		for _, obj := range layer.Objects {
			shape, err := addCollisionShape(s.Physics, obj, spec)
			if err != nil {
				return nil, fmt.Errorf("load level %q: %w", lvl.Name, err)
			}
			out.Geometry = append(out.Geometry, shape)
		}
	}

	out.Spawn = spawnPoint(lvl, spec)
	player, err := s.NewPlayerAt(w, out.Spawn.X, out.Spawn.Y)
	if err != nil {
		return nil, fmt.Errorf("load level %q: player: %w", lvl.Name, err)
	}
	out.Player = player

	if layer, ok := layerOrLog(lvl, levels.LayerCollectibles); ok {
		for _, obj := range layer.Objects {
			x, y := objectCenter(obj)
			switch obj.Type() {
			case "coin":
				if _, err := s.NewCoinAt(w, x, y); err != nil {
					return nil, fmt.Errorf("load level %q: coin: %w", lvl.Name, err)
				}
				out.Coins++
			case "key":
				if out.Keys > 0 {
					log.Warn("level has more than one key, ignoring", "level", lvl.Name, "x", obj.X, "y", obj.Y)
					continue
				}
				if _, err := s.NewKeyAt(w, x, y); err != nil {
					return nil, fmt.Errorf("load level %q: key: %w", lvl.Name, err)
				}
				out.Keys++
			default:
				logUnhandled(lvl, levels.LayerCollectibles, obj)
				out.Unhandled++
			}
		}
	}

	if layer, ok := layerOrLog(lvl, levels.LayerEnemies); ok {
		for _, obj := range layer.Objects {
			x, y := objectCenter(obj)
			switch obj.Type() {
			case "enemy":
				if _, err := s.NewEnemyAt(w, x, y, obj.Float("patrolDistance", -1)); err != nil {
					return nil, fmt.Errorf("load level %q: enemy: %w", lvl.Name, err)
				}
				out.Enemies++
			case "shooting_enemy":
				if _, err := s.NewShooterAt(w, x, y, obj.Float("detectionRadius", 0), obj.Float("shootCooldown", 0)); err != nil {
					return nil, fmt.Errorf("load level %q: shooter: %w", lvl.Name, err)
				}
				out.Shooters++
			default:
				logUnhandled(lvl, levels.LayerEnemies, obj)
				out.Unhandled++
			}
		}
	}

	if layer, ok := layerOrLog(lvl, levels.LayerInteractables); ok {
		for _, obj := range layer.Objects {
			if obj.Type() != "door" {
				logUnhandled(lvl, levels.LayerInteractables, obj)
				out.Unhandled++
				continue
			}
			x, y := objectCenter(obj)
			next, _ := obj.String("nextLevel")
			var locked *bool
			if _, ok := obj.Props["initiallyLocked"]; ok {
				v := obj.Bool("initiallyLocked", true)
				locked = &v
			}
			if _, err := s.NewDoorAt(w, x, y, next, locked); err != nil {
				return nil, fmt.Errorf("load level %q: door: %w", lvl.Name, err)
			}
			out.Doors++
		}
	}

	log.Info("level loaded",
		"level", lvl.Name,
		"geometry", len(out.Geometry),
		"coins", out.Coins,
		"enemies", out.Enemies,
		"shooters", out.Shooters,
		"keys", out.Keys,
		"doors", out.Doors,
	)
	return out, nil
}

func layerOrLog(lvl *levels.Level, name string) (*levels.Layer, bool) {
	layer, ok := lvl.Layer(name)
	if !ok {
		log.Info("level has no layer", "level", lvl.Name, "layer", name)
	}
	return layer, ok
}

func logUnhandled(lvl *levels.Level, layer string, obj levels.Object) {
	log.Warn("unhandled level object", "level", lvl.Name, "layer", layer, "type", obj.Type(), "x", obj.X, "y", obj.Y)
}

// objectCenter returns the object's center in meters.
func objectCenter(obj levels.Object) (float64, float64) {
	x, y := obj.Center()
	return common.ToMeters(x), common.ToMeters(y)
}

// spawnPoint picks the object flagged playerStart, then the first spawn
// object, then the world default.
func spawnPoint(lvl *levels.Level, spec prefabs.WorldSpec) cp.Vector {
	if layer, ok := lvl.Layer(levels.LayerSpawnPoints); ok && len(layer.Objects) > 0 {
		chosen := layer.Objects[0]
		for _, obj := range layer.Objects {
			if obj.Bool("playerStart", false) {
				chosen = obj
				break
			}
		}
		x, y := objectCenter(chosen)
		return cp.Vector{X: x, Y: y}
	}
	log.Info("level has no spawn point, using default", "level", lvl.Name, "x", spec.DefaultSpawnX, "y", spec.DefaultSpawnY)
	return cp.Vector{X: common.ToMeters(spec.DefaultSpawnX), Y: common.ToMeters(spec.DefaultSpawnY)}
}

// addCollisionShape adds one rectangle of level geometry to the static body.
// The surface_type property picks its role and friction.
func addCollisionShape(pw *ecs.PhysicsWorld, obj levels.Object, spec prefabs.WorldSpec) (*cp.Shape, error) {
	if obj.Width <= 0 || obj.Height <= 0 {
		return nil, fmt.Errorf("collision object %q has no size", obj.Name)
	}
	surfaceType, ok := obj.String("surface_type")
	if !ok || surfaceType == "" {
		surfaceType = "ground"
	}
	surface, ok := spec.Surfaces[surfaceType]
	if !ok {
		log.Warn("unknown surface type, treating as ground", "surface", surfaceType, "object", obj.Name)
		surface = prefabs.SurfaceSpec{Role: "ground", Friction: 0.8}
	}
	role, ok := ParseRole(surface.Role)
	if !ok {
		return nil, fmt.Errorf("surface %q has unknown role %q", surfaceType, surface.Role)
	}

	bb := cp.BB{
		L: common.ToMeters(obj.X),
		B: common.ToMeters(obj.Y),
		R: common.ToMeters(obj.X + obj.Width),
		T: common.ToMeters(obj.Y + obj.Height),
	}
	shape := cp.NewBox2(pw.StaticBody(), bb, 0)
	shape.SetFriction(surface.Friction)
	return pw.AddShape(shape, ecs.FixtureRole{Kind: role, Owner: ecs.NoEntity}), nil
}
