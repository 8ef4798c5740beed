package ik

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
)

func assertPointNear(t *testing.T, want, got r2.Point, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, 1e-9, msgAndArgs...)
}

func TestClawOpenAlongX(t *testing.T) {
	joints := []r2.Point{{X: 0}, {X: 50}, {X: 100}, {X: 150}}

	pose := Claw(joints, false)

	assert.False(t, pose.Empty)
	cos30, sin30 := math.Cos(math.Pi/6), math.Sin(math.Pi/6)
	elbow := r2.Point{X: 150 + 45*cos30, Y: 45 * sin30}

	assertPointNear(t, r2.Point{X: 150}, pose.LeftStroke1.From)
	assertPointNear(t, elbow, pose.LeftStroke1.To)
	assertPointNear(t, elbow, pose.LeftStroke2.From)
	assertPointNear(t, elbow.Add(r2.Point{X: 30 * sin30, Y: -30 * cos30}), pose.LeftStroke2.To)
}

func TestClawLengths(t *testing.T) {
	joints := []r2.Point{{X: 3, Y: 4}, {X: -20, Y: 31}}

	for _, tt := range []struct {
		name    string
		clamped bool
		shape   ClawShape
	}{
		{name: "open", clamped: false, shape: OpenClaw},
		{name: "closed", clamped: true, shape: ClosedClaw},
	} {
		t.Run(tt.name, func(t *testing.T) {
			pose := Claw(joints, tt.clamped)

			assert.InDelta(t, tt.shape.Stroke1, pose.LeftStroke1.Length(), 1e-9)
			assert.InDelta(t, tt.shape.Stroke1, pose.RightStroke1.Length(), 1e-9)
			assert.InDelta(t, tt.shape.Stroke2, pose.LeftStroke2.Length(), 1e-9)
			assert.InDelta(t, tt.shape.Stroke2, pose.RightStroke2.Length(), 1e-9)

			dir := joints[1].Sub(joints[0]).Normalize()
			left := pose.LeftStroke1.To.Sub(pose.LeftStroke1.From).Normalize()
			right := pose.RightStroke1.To.Sub(pose.RightStroke1.From).Normalize()
			assert.InDelta(t, math.Cos(tt.shape.HalfAngle.Radians()), dir.Dot(left), 1e-9)
			assert.InDelta(t, math.Cos(tt.shape.HalfAngle.Radians()), dir.Dot(right), 1e-9)
			assert.Greater(t, dir.Cross(left), 0.0, "left jaw should turn counterclockwise")
			assert.Less(t, dir.Cross(right), 0.0, "right jaw should turn clockwise")

			// Second strokes are perpendicular to the first.
			hook := pose.LeftStroke2.To.Sub(pose.LeftStroke2.From)
			assert.InDelta(t, 0.0, hook.Dot(left), 1e-9)
			hook = pose.RightStroke2.To.Sub(pose.RightStroke2.From)
			assert.InDelta(t, 0.0, hook.Dot(right), 1e-9)
		})
	}
}

func TestClawIsMirrorSymmetric(t *testing.T) {
	joints := []r2.Point{{X: 0}, {X: 50}}

	pose := Claw(joints, true)

	mirror := func(p r2.Point) r2.Point { return r2.Point{X: p.X, Y: -p.Y} }
	assertPointNear(t, mirror(pose.LeftStroke1.To), pose.RightStroke1.To)
	assertPointNear(t, mirror(pose.LeftStroke2.To), pose.RightStroke2.To)
	assert.Less(t, pose.LeftStroke2.To.Y, pose.LeftStroke2.From.Y, "left hook points toward the axis")
}

func TestClawClosedIsNarrower(t *testing.T) {
	joints := []r2.Point{{X: 0}, {X: 50}}

	open := Claw(joints, false)
	closed := Claw(joints, true)

	openGap := open.LeftStroke1.To.Sub(open.RightStroke1.To).Norm()
	closedGap := closed.LeftStroke1.To.Sub(closed.RightStroke1.To).Norm()
	assert.Less(t, closedGap, openGap)
}

func TestClawDegenerate(t *testing.T) {
	tests := map[string][]r2.Point{
		"coincident last joints": {{X: 0}, {X: 50}, {X: 50}},
		"single joint":           {{X: 1, Y: 1}},
		"no joints":              nil,
	}

	for name, joints := range tests {
		t.Run(name, func(t *testing.T) {
			pose := Claw(joints, true)

			assert.True(t, pose.Empty)
			assert.Nil(t, pose.Strokes())
		})
	}
}

func TestChainClawFollowsState(t *testing.T) {
	c := newTestChain(t, 2, 40)

	open := c.Claw()
	c.ToggleClaw()
	closed := c.Claw()

	assert.Len(t, open.Strokes(), 4)
	assert.InDelta(t, OpenClaw.Stroke1, open.LeftStroke1.Length(), 1e-9)
	assert.InDelta(t, ClosedClaw.Stroke1, closed.LeftStroke1.Length(), 1e-9)
	assertPointNear(t, c.EndEffector(), closed.RightStroke1.From)
}
