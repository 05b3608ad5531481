package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/boneyard/common"
	"github.com/milk9111/boneyard/ecs"
	"golang.org/x/image/colornames"
)

// drawSpace renders every shape in the physics world as outlines. The
// camera is the bottom-left corner of the view in pixels.
func drawSpace(screen *ebiten.Image, pw *ecs.PhysicsWorld, camX, camY float64) {
	if screen == nil || pw == nil || pw.Space() == nil {
		return
	}
	cp.DrawSpace(pw.Space(), &chipmunkDrawer{screen: screen, physics: pw, camX: camX, camY: camY})
}

type chipmunkDrawer struct {
	screen     *ebiten.Image
	physics    *ecs.PhysicsWorld
	camX, camY float64
}

// toScreen maps a world point in meters to screen pixels with Y down.
func (d *chipmunkDrawer) toScreen(v cp.Vector) (float32, float32) {
	x := common.ToPixels(v.X) - d.camX
	y := float64(common.BaseHeight) - (common.ToPixels(v.Y) - d.camY)
	return float32(x), float32(y)
}

func (d *chipmunkDrawer) line(a, b cp.Vector, c color.Color) {
	x0, y0 := d.toScreen(a)
	x1, y1 := d.toScreen(b)
	vector.StrokeLine(d.screen, x0, y0, x1, y1, 1, c, false)
}

func (d *chipmunkDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	c := fcolorToRGBA(outline)
	steps := 20
	prev := cp.Vector{X: pos.X + radius, Y: pos.Y}
	for i := 1; i <= steps; i++ {
		th := float64(i) * (2 * math.Pi / float64(steps))
		cur := cp.Vector{X: pos.X + math.Cos(th)*radius, Y: pos.Y + math.Sin(th)*radius}
		d.line(prev, cur, c)
		prev = cur
	}
	d.line(pos, cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}, c)
}

func (d *chipmunkDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.line(a, b, fcolorToRGBA(fill))
}

func (d *chipmunkDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.line(a, b, fcolorToRGBA(outline))
}

func (d *chipmunkDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	c := fcolorToRGBA(fill)
	for i := 0; i < count; i++ {
		d.line(verts[i], verts[(i+1)%count], c)
	}
}

func (d *chipmunkDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	x, y := d.toScreen(pos)
	vector.DrawFilledRect(d.screen, x-float32(size)/2, y-float32(size)/2, float32(size), float32(size), fcolorToRGBA(fill), false)
}

func (d *chipmunkDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *chipmunkDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1.0, B: 0.2, A: 1.0}
}

// ShapeColor picks a color by fixture role.
func (d *chipmunkDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	role, _ := d.physics.Role(shape)
	var c color.RGBA
	switch role.Kind {
	case ecs.RolePlayer:
		c = colornames.White
	case ecs.RolePlayerFeet:
		c = colornames.Lightgrey
	case ecs.RoleGround:
		c = colornames.Steelblue
	case ecs.RoleWall:
		c = colornames.Slategray
	case ecs.RoleCoin:
		c = colornames.Gold
	case ecs.RoleKey:
		c = colornames.Orange
	case ecs.RoleEnemy:
		c = colornames.Crimson
	case ecs.RoleShooter:
		c = colornames.Mediumvioletred
	case ecs.RoleDoor:
		c = colornames.Saddlebrown
		if shape.Sensor() {
			c = colornames.Lime
		}
	case ecs.RoleProjectile:
		c = colornames.Tomato
	default:
		c = colornames.Magenta
	}
	return cp.FColor{R: float32(c.R) / 255, G: float32(c.G) / 255, B: float32(c.B) / 255, A: 1}
}

func (d *chipmunkDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 0.7, G: 0.7, B: 0.7, A: 1.0}
}

func (d *chipmunkDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1.0, G: 0.1, B: 0.1, A: 1.0}
}

func (d *chipmunkDrawer) Data() interface{} {
	return nil
}

func fcolorToRGBA(c cp.FColor) color.RGBA {
	clamp := func(v float32) uint8 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint8(v * 255)
	}
	return color.RGBA{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}
