package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/boneyard/ecs"
	"github.com/milk9111/boneyard/ecs/component"
)

const stickDeadzone = 0.2

// InputSource produces one frame of input.
type InputSource func() component.Input

type InputSystem struct {
	source InputSource
}

func NewInputSystem(source InputSource) *InputSystem {
	if source == nil {
		source = ReadKeyboard
	}
	return &InputSystem{source: source}
}

// SetSource replaces the input source, e.g. with a scripted one in tests.
func (i *InputSystem) SetSource(source InputSource) {
	if source != nil {
		i.source = source
	}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	in := i.source()
	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, input *component.Input) {
		*input = in
	})
}

// ReadKeyboard samples ebiten's keyboard and the first gamepad. Jump,
// Restart and Menu are edge-triggered.
func ReadKeyboard() component.Input {
	in := component.Input{
		Left:    ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right:   ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		Jump:    inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyW),
		Restart: inpututil.IsKeyJustPressed(ebiten.KeyR),
		Menu:    inpututil.IsKeyJustPressed(ebiten.KeyM),
	}

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		leftX := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if math.Abs(leftX) > stickDeadzone {
			in.Left = leftX < 0
			in.Right = leftX > 0
		}
		in.Jump = in.Jump || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		in.Restart = in.Restart || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterRight)
	}
	return in
}
