package command

import (
	"math"
	"strconv"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"claw_arm/ik"
)

// Kind names a command variant.
type Kind string

const (
	KindMove   Kind = "move"
	KindPickUp Kind = "pickup"
	KindPlace  Kind = "place"
)

// Command is one of Move, PickUp or Place. X and Y are only meaningful for
// moves and are zero otherwise, so commands compare with ==.
type Command struct {
	Kind Kind
	X    float64
	Y    float64
}

// Move targets the end effector at (x, y).
func Move(x, y float64) Command {
	return Command{Kind: KindMove, X: x, Y: y}
}

// PickUp closes the claw if it is open.
func PickUp() Command {
	return Command{Kind: KindPickUp}
}

// Place opens the claw if it is closed.
func Place() Command {
	return Command{Kind: KindPlace}
}

// Arm is the state a command acts on. *ik.Chain satisfies it.
type Arm interface {
	Solve(target r2.Point) (ik.Result, error)
	ToggleClaw()
	Clamped() bool
}

var _ Arm = (*ik.Chain)(nil)

// Target returns the move target.
func (c Command) Target() r2.Point {
	return r2.Point{X: c.X, Y: c.Y}
}

// Validate checks that the command is a well-formed variant.
func (c Command) Validate() error {
	switch c.Kind {
	case KindMove:
		if math.IsNaN(c.X) || math.IsInf(c.X, 0) || math.IsNaN(c.Y) || math.IsInf(c.Y, 0) {
			return errors.Wrapf(ErrMalformedCommand, "move target (%g, %g) is not finite", c.X, c.Y)
		}
	case KindPickUp, KindPlace:
		if c.X != 0 || c.Y != 0 {
			return errors.Wrapf(ErrMalformedCommand, "%s takes no coordinates", c.Kind)
		}
	default:
		return errors.Wrapf(ErrMalformedCommand, "unknown command %q", string(c.Kind))
	}
	return nil
}

// Execute applies the command to arm and reports how it ended. Moves go
// through Solve, so solver errors such as ik.ErrNonConvergence are returned
// with the best-effort result; pick up and place only toggle the claw when it
// is in the opposite state and report a converged result with no iterations.
func (c Command) Execute(arm Arm) (ik.Result, error) {
	if err := c.Validate(); err != nil {
		return ik.Result{Status: ik.StatusRejected}, err
	}

	switch c.Kind {
	case KindMove:
		return arm.Solve(c.Target())
	case KindPickUp:
		if !arm.Clamped() {
			arm.ToggleClaw()
		}
	case KindPlace:
		if arm.Clamped() {
			arm.ToggleClaw()
		}
	}
	return ik.Result{Status: ik.StatusConverged}, nil
}

// String renders the command in the text form Parse accepts.
func (c Command) String() string {
	if c.Kind == KindMove {
		return "move " + formatFloat(c.X) + " " + formatFloat(c.Y)
	}
	return string(c.Kind)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
