package ik

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"
)

// Stroke is a line segment of the claw drawing.
type Stroke struct {
	From r2.Point
	To   r2.Point
}

// Length returns the stroke length.
func (s Stroke) Length() float64 {
	return s.To.Sub(s.From).Norm()
}

// ClawPose is the two-jaw claw drawn at the end effector. Each jaw is an L:
// stroke 1 leaves the end effector at the half-angle from the final segment's
// direction and stroke 2 hooks from its end toward the claw axis.
type ClawPose struct {
	LeftStroke1  Stroke
	LeftStroke2  Stroke
	RightStroke1 Stroke
	RightStroke2 Stroke

	// Empty is set when the final segment has no direction; no claw is drawn.
	Empty bool
}

// Strokes returns the four strokes in drawing order, or nil for an empty pose.
func (p ClawPose) Strokes() []Stroke {
	if p.Empty {
		return nil
	}
	return []Stroke{p.LeftStroke1, p.LeftStroke2, p.RightStroke1, p.RightStroke2}
}

// ClawShape holds the jaw parameters for one claw state.
type ClawShape struct {
	HalfAngle s1.Angle
	Stroke1   float64
	Stroke2   float64
}

var (
	// ClosedClaw is the jaw shape while clamped.
	ClosedClaw = ClawShape{HalfAngle: 10 * s1.Degree, Stroke1: 30, Stroke2: 15}
	// OpenClaw is the jaw shape while released.
	OpenClaw = ClawShape{HalfAngle: 30 * s1.Degree, Stroke1: 45, Stroke2: 30}
)

// Claw derives the claw pose from the last two joints. It never fails: fewer
// than two joints or a zero-length final segment give an empty pose.
func Claw(joints []r2.Point, clamped bool) ClawPose {
	if len(joints) < 2 {
		return ClawPose{Empty: true}
	}
	tip := joints[len(joints)-1]
	last := tip.Sub(joints[len(joints)-2])
	if last.Norm() == 0 || !isFinite(last) {
		return ClawPose{Empty: true}
	}
	dir := last.Normalize()

	shape := OpenClaw
	if clamped {
		shape = ClosedClaw
	}

	left1, left2 := jaw(tip, rotate(dir, shape.HalfAngle), shape, -1)
	right1, right2 := jaw(tip, rotate(dir, -shape.HalfAngle), shape, 1)
	return ClawPose{
		LeftStroke1:  left1,
		LeftStroke2:  left2,
		RightStroke1: right1,
		RightStroke2: right2,
	}
}

// jaw builds one L-shaped jaw. hook is +1 to turn the second stroke
// counterclockwise from the first and -1 to turn it clockwise.
func jaw(tip, heading r2.Point, shape ClawShape, hook float64) (Stroke, Stroke) {
	elbow := tip.Add(heading.Mul(shape.Stroke1))
	perp := heading.Ortho().Mul(hook).Normalize()
	return Stroke{From: tip, To: elbow}, Stroke{From: elbow, To: elbow.Add(perp.Mul(shape.Stroke2))}
}

func rotate(p r2.Point, a s1.Angle) r2.Point {
	sin, cos := math.Sincos(a.Radians())
	return r2.Point{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos}
}
