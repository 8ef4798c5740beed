package ik

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertSegmentLengths(t *testing.T, c *Chain) {
	t.Helper()
	joints := c.Joints()
	for i := 0; i+1 < len(joints); i++ {
		got := joints[i+1].Sub(joints[i]).Norm()
		assert.InDelta(t, c.SegmentLength(), got, c.Tolerance(), "segment %d", i)
	}
}

func TestSolveReachableScenario(t *testing.T) {
	c := newTestChain(t, 3, 50)
	target := r2.Point{X: 100, Y: 0}

	res, err := c.Solve(target)
	require.NoError(t, err)

	assert.Equal(t, StatusConverged, res.Status)
	assert.LessOrEqual(t, res.Error, c.Tolerance())
	assert.InDelta(t, 100.0, c.EndEffector().X, c.Tolerance())
	assert.InDelta(t, 0.0, c.EndEffector().Y, c.Tolerance())
	assert.Equal(t, r2.Point{}, c.Base())
	assertSegmentLengths(t, c)
	assert.Equal(t, res, c.LastResult())
}

func TestSolveUnreachableScenario(t *testing.T) {
	c := newTestChain(t, 3, 50)

	res, err := c.Solve(r2.Point{X: 1000, Y: 0})
	require.NoError(t, err)

	assert.Equal(t, StatusExtended, res.Status)
	assert.Equal(t, 0, res.Iterations)
	assert.InDelta(t, 850.0, res.Error, 1e-9)
	for i, j := range c.Joints() {
		assert.InDelta(t, float64(i)*50, j.X, 1e-9, "joint %d", i)
		assert.InDelta(t, 0.0, j.Y, 1e-9, "joint %d", i)
	}
}

func TestSolveUnreachableLiesOnRay(t *testing.T) {
	c, err := NewChain(Config{SegmentCount: 4, SegmentLength: 25, Base: r2.Point{X: 10, Y: -10}})
	require.NoError(t, err)
	target := r2.Point{X: -300, Y: 400}

	res, err := c.Solve(target)
	require.NoError(t, err)
	require.Equal(t, StatusExtended, res.Status)

	dir := target.Sub(c.Base()).Normalize()
	for i, j := range c.Joints() {
		want := c.Base().Add(dir.Mul(float64(i) * 25))
		assert.InDelta(t, want.X, j.X, 1e-9, "joint %d", i)
		assert.InDelta(t, want.Y, j.Y, 1e-9, "joint %d", i)
	}
}

func TestSolvePreservesSegmentLengths(t *testing.T) {
	targets := []r2.Point{
		{X: 100, Y: 0},
		{X: 0, Y: 120},
		{X: -80, Y: -60},
		{X: 30, Y: 10},
		{X: 140, Y: 0},
		{X: 0, Y: 0},
		{X: -135, Y: 20},
		{X: 75, Y: -75},
	}

	for _, segments := range []int{2, 3, 5, 8} {
		c := newTestChain(t, segments, 150/float64(segments))
		for _, target := range targets {
			res, err := c.Solve(target)
			require.NoError(t, err, "segments %d target %v", segments, target)

			assert.Equal(t, StatusConverged, res.Status)
			assert.Equal(t, r2.Point{}, c.Base(), "base moved for target %v", target)
			assert.LessOrEqual(t, c.EndEffector().Sub(target).Norm(), c.Tolerance())
			assertSegmentLengths(t, c)
		}
	}
}

func TestSolveAtFullReach(t *testing.T) {
	for name, target := range map[string]r2.Point{
		"exact":            {X: 0, Y: 150},
		"within tolerance": {X: 0, Y: 149.995},
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestChain(t, 3, 50)

			res, err := c.Solve(target)
			require.NoError(t, err)

			assert.Equal(t, StatusConverged, res.Status)
			assert.Equal(t, 0, res.Iterations)
			assert.LessOrEqual(t, res.Error, c.Tolerance())
			for i, j := range c.Joints() {
				assert.InDelta(t, 0.0, j.X, 1e-9, "joint %d", i)
				assert.InDelta(t, float64(i)*50, j.Y, 1e-9, "joint %d", i)
			}
		})
	}
}

func TestSolveDegenerateKeepsPreviousPose(t *testing.T) {
	// The base and target are both finite but their difference overflows, so
	// the extension direction comes out NaN.
	c, err := NewChain(Config{SegmentCount: 3, SegmentLength: 50, Base: r2.Point{X: 1e308}})
	require.NoError(t, err)
	before := c.Joints()

	res, err := c.Solve(r2.Point{X: -1e308, Y: 0})

	assert.True(t, errors.Is(err, ErrDegenerateGeometry), "got %v", err)
	assert.True(t, IsRecoverable(err))
	assert.Equal(t, StatusDegenerate, res.Status)
	assert.Equal(t, res, c.LastResult())
	assert.Equal(t, before, c.Joints())
	for _, j := range c.Joints() {
		assert.True(t, isFinite(j))
	}
}

func TestSolveIdempotent(t *testing.T) {
	c := newTestChain(t, 3, 50)
	target := r2.Point{X: 60, Y: 70}

	_, err := c.Solve(target)
	require.NoError(t, err)
	first := c.Joints()

	res, err := c.Solve(target)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Iterations)
	for i, j := range c.Joints() {
		assert.Less(t, j.Sub(first[i]).Norm(), c.Tolerance(), "joint %d", i)
	}
}

func TestSolveStraightChainFolds(t *testing.T) {
	// The target sits on the axis of the initial straight chain, which FABRIK
	// cannot fold without a nudge.
	c := newTestChain(t, 3, 50)

	res, err := c.Solve(r2.Point{X: 120, Y: 0})
	require.NoError(t, err)

	assert.Equal(t, StatusConverged, res.Status)
	assert.InDelta(t, 120.0, c.EndEffector().X, c.Tolerance())
	assertSegmentLengths(t, c)
}

func TestSolveNonConvergence(t *testing.T) {
	// A single segment can only reach its own length, so a nearer target is
	// inside total reach yet unreachable.
	c, err := NewChain(Config{SegmentCount: 1, SegmentLength: 50, MaxIterations: 25})
	require.NoError(t, err)

	res, err := c.Solve(r2.Point{X: 20, Y: 0})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNonConvergence))
	assert.True(t, IsRecoverable(err))
	assert.Equal(t, StatusNotConverged, res.Status)
	assert.Equal(t, 25, res.Iterations)
	assert.InDelta(t, 30.0, res.Error, 1e-9)
	assert.Equal(t, r2.Point{}, c.Base())
	assertSegmentLengths(t, c)
	for _, j := range c.Joints() {
		assert.True(t, isFinite(j))
	}
}

func TestSolveInvalidTarget(t *testing.T) {
	targets := map[string]r2.Point{
		"NaN x":        {X: math.NaN(), Y: 0},
		"NaN y":        {X: 0, Y: math.NaN()},
		"positive Inf": {X: math.Inf(1), Y: 0},
		"negative Inf": {X: 0, Y: math.Inf(-1)},
	}

	for name, target := range targets {
		t.Run(name, func(t *testing.T) {
			c := newTestChain(t, 3, 50)
			before := c.Joints()

			res, err := c.Solve(target)

			assert.True(t, errors.Is(err, ErrInvalidTarget), "got %v", err)
			assert.False(t, IsRecoverable(err))
			assert.Equal(t, StatusRejected, res.Status)
			assert.Equal(t, before, c.Joints())
		})
	}
}

func TestSolveKeepsClawState(t *testing.T) {
	c := newTestChain(t, 3, 50)
	c.ToggleClaw()

	_, err := c.Solve(r2.Point{X: 40, Y: 90})
	require.NoError(t, err)

	assert.True(t, c.Clamped())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "converged", StatusConverged.String())
	assert.Equal(t, "extended", StatusExtended.String())
	assert.Equal(t, "not_converged", StatusNotConverged.String())
	assert.Equal(t, "degenerate", StatusDegenerate.String())
	assert.Equal(t, "rejected", StatusRejected.String())
	assert.Equal(t, "unknown", Status(42).String())
}
