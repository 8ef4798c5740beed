package ik

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// Status describes how a solve ended.
type Status int

const (
	// StatusConverged means the end effector is within tolerance of a reachable target.
	StatusConverged Status = iota
	// StatusExtended means the target was out of reach and the chain was stretched toward it.
	StatusExtended
	// StatusNotConverged means the iteration cap was hit; the pose is best effort.
	StatusNotConverged
	// StatusDegenerate means the solve was discarded and the previous pose kept.
	StatusDegenerate
	// StatusRejected means the target was invalid and the chain was not touched.
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusExtended:
		return "extended"
	case StatusNotConverged:
		return "not_converged"
	case StatusDegenerate:
		return "degenerate"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Result is the outcome of a Solve.
type Result struct {
	Status     Status
	Iterations int
	// Error is the final distance between the end effector and the target.
	Error float64
}

// bendFraction is the sideways nudge, as a fraction of the segment length,
// applied to interior joints when a relaxation pass makes no progress.
const bendFraction = 0.1

var unitX = r2.Point{X: 1}

// Solve moves the chain so its end effector reaches target, or points at it
// when it is out of reach. The base never moves.
//
// A target beyond the total reach yields StatusExtended and no error. A target
// within tolerance of the total reach is met by the same straight extension
// and reports StatusConverged. Hitting
// the iteration cap returns the best-effort pose with an error wrapping
// ErrNonConvergence. If the solve would leave non-finite joints the previous
// pose is restored and ErrDegenerateGeometry is returned.
func (c *Chain) Solve(target r2.Point) (Result, error) {
	if !isFinite(target) {
		return Result{Status: StatusRejected}, errors.Wrapf(ErrInvalidTarget, "target (%g, %g) is not finite", target.X, target.Y)
	}

	previous := c.Joints()

	var res Result
	switch d := c.joints[0].Sub(target).Norm(); {
	case d > c.TotalReach():
		c.extend(target)
		res = Result{Status: StatusExtended, Error: c.EndEffector().Sub(target).Norm()}
	case d >= c.TotalReach()-c.tolerance:
		// FABRIK only creeps toward a fully straightened chain.
		c.extend(target)
		res = Result{Status: StatusConverged, Error: c.EndEffector().Sub(target).Norm()}
	default:
		res = c.relax(target)
	}

	for _, j := range c.joints {
		if !isFinite(j) {
			copy(c.joints, previous)
			c.last = Result{Status: StatusDegenerate}
			return c.last, errors.Wrapf(ErrDegenerateGeometry, "solve toward (%g, %g) produced non-finite joints", target.X, target.Y)
		}
	}

	c.last = res
	if res.Status == StatusNotConverged {
		return res, errors.Wrapf(ErrNonConvergence, "end effector %.4g from target after %d iterations", res.Error, res.Iterations)
	}
	return res, nil
}

// extend stretches every segment along the ray toward an unreachable target.
func (c *Chain) extend(target r2.Point) {
	for i := 1; i <= c.segmentCount; i++ {
		c.joints[i] = c.reach(c.joints[i-1], target, target)
	}
}

// relax runs FABRIK passes until the end effector is within tolerance.
func (c *Chain) relax(target r2.Point) Result {
	n := c.segmentCount
	base := c.joints[0]

	dist := c.joints[n].Sub(target).Norm()
	stalled := false
	iterations := 0
	for dist > c.tolerance {
		if iterations >= c.maxIterations {
			return Result{Status: StatusNotConverged, Iterations: iterations, Error: dist}
		}
		if stalled {
			c.bend(base, target)
		}

		// Backward: pin the end effector on the target and walk to the base.
		c.joints[n] = target
		for i := n - 1; i >= 0; i-- {
			c.joints[i] = c.reach(c.joints[i+1], c.joints[i], base)
		}

		// Forward: re-anchor the base and walk back to the end effector.
		c.joints[0] = base
		for i := 0; i < n; i++ {
			c.joints[i+1] = c.reach(c.joints[i], c.joints[i+1], target)
		}

		iterations++
		next := c.joints[n].Sub(target).Norm()
		stalled = math.Abs(dist-next) <= 1e-12*math.Max(1, dist)
		dist = next
	}
	return Result{Status: StatusConverged, Iterations: iterations, Error: dist}
}

// reach returns the point one segment length from anchor in the direction of
// toward. When toward coincides with anchor the direction of hint is used, and
// +X when that coincides too.
func (c *Chain) reach(anchor, toward, hint r2.Point) r2.Point {
	dir := toward.Sub(anchor)
	if dir.Norm() == 0 {
		dir = hint.Sub(anchor)
	}
	if dir.Norm() == 0 {
		dir = unitX
	}
	return anchor.Add(dir.Mul(c.segmentLength / dir.Norm()))
}

// bend pushes the interior joints off the base-target axis. A straight chain
// lying on that axis is a fixed point of FABRIK and would never fold.
func (c *Chain) bend(base, target r2.Point) {
	axis := target.Sub(base)
	if axis.Norm() == 0 {
		axis = unitX
	}
	offset := axis.Normalize().Ortho().Mul(c.segmentLength * bendFraction)
	for i := 1; i < c.segmentCount; i++ {
		c.joints[i] = c.joints[i].Add(offset)
	}
}
