package ik

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

const (
	// DefaultTolerance is the end effector error, in length units, below which a
	// reachable solve is considered converged.
	DefaultTolerance = 0.01

	// DefaultMaxIterations caps the FABRIK loop for reachable targets.
	DefaultMaxIterations = 500
)

// Config describes the shape of a chain. Zero Tolerance and MaxIterations take
// the package defaults.
type Config struct {
	SegmentCount  int
	SegmentLength float64
	Tolerance     float64
	MaxIterations int
	Base          r2.Point
}

// Validate checks the configuration and fills defaults.
func (cfg *Config) Validate() error {
	if cfg.SegmentCount < 1 {
		return errors.Wrapf(ErrInvalidConfiguration, "segment count must be at least 1, got %d", cfg.SegmentCount)
	}
	if !(cfg.SegmentLength > 0) || math.IsInf(cfg.SegmentLength, 0) {
		return errors.Wrapf(ErrInvalidConfiguration, "segment length must be positive and finite, got %g", cfg.SegmentLength)
	}
	if cfg.Tolerance < 0 || math.IsNaN(cfg.Tolerance) || math.IsInf(cfg.Tolerance, 0) {
		return errors.Wrapf(ErrInvalidConfiguration, "tolerance must be positive, got %g", cfg.Tolerance)
	}
	if cfg.MaxIterations < 0 {
		return errors.Wrapf(ErrInvalidConfiguration, "max iterations must be positive, got %d", cfg.MaxIterations)
	}
	if !isFinite(cfg.Base) {
		return errors.Wrapf(ErrInvalidConfiguration, "base must be finite, got %v", cfg.Base)
	}
	reach := float64(cfg.SegmentCount) * cfg.SegmentLength
	if math.IsInf(reach, 0) || math.IsInf(math.Abs(cfg.Base.X)+reach, 0) || math.IsInf(math.Abs(cfg.Base.Y)+reach, 0) {
		return errors.Wrapf(ErrInvalidConfiguration, "%d segments of length %g from base %v overflow", cfg.SegmentCount, cfg.SegmentLength, cfg.Base)
	}

	if cfg.Tolerance == 0 {
		cfg.Tolerance = DefaultTolerance
	}
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	return nil
}

// Chain is an ordered sequence of joints connected by equal-length segments.
// joints[0] is the anchored base and joints[len-1] is the end effector.
type Chain struct {
	segmentCount  int
	segmentLength float64
	tolerance     float64
	maxIterations int

	joints  []r2.Point
	clamped bool
	last    Result
}

// NewChain builds a chain laid out straight along +X from the base with the
// claw open.
func NewChain(cfg Config) (*Chain, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Chain{
		segmentCount:  cfg.SegmentCount,
		segmentLength: cfg.SegmentLength,
		tolerance:     cfg.Tolerance,
		maxIterations: cfg.MaxIterations,
		joints:        make([]r2.Point, cfg.SegmentCount+1),
	}
	c.joints[0] = cfg.Base
	c.Reset()
	return c, nil
}

// Reset lays the chain out straight along +X from its base and opens the claw.
func (c *Chain) Reset() {
	base := c.joints[0]
	for i := range c.joints {
		c.joints[i] = base.Add(r2.Point{X: float64(i) * c.segmentLength})
	}
	c.clamped = false
	c.last = Result{}
}

// SegmentCount returns the number of segments.
func (c *Chain) SegmentCount() int { return c.segmentCount }

// SegmentLength returns the length shared by every segment.
func (c *Chain) SegmentLength() float64 { return c.segmentLength }

// Tolerance returns the convergence threshold.
func (c *Chain) Tolerance() float64 { return c.tolerance }

// MaxIterations returns the iteration cap for reachable solves.
func (c *Chain) MaxIterations() int { return c.maxIterations }

// TotalReach is the distance from the base to the end effector when the chain
// is fully extended.
func (c *Chain) TotalReach() float64 {
	return c.segmentLength * float64(c.segmentCount)
}

// Base returns the anchored first joint.
func (c *Chain) Base() r2.Point { return c.joints[0] }

// EndEffector returns the last joint.
func (c *Chain) EndEffector() r2.Point { return c.joints[c.segmentCount] }

// Joints returns a copy of the joint positions, base first.
func (c *Chain) Joints() []r2.Point {
	out := make([]r2.Point, len(c.joints))
	copy(out, c.joints)
	return out
}

// Clamped reports whether the claw is closed.
func (c *Chain) Clamped() bool { return c.clamped }

// ToggleClaw flips the claw between open and closed.
func (c *Chain) ToggleClaw() { c.clamped = !c.clamped }

// LastResult returns the outcome of the most recent Solve.
func (c *Chain) LastResult() Result { return c.last }

// Claw derives the claw pose for the current joints and claw state.
func (c *Chain) Claw() ClawPose {
	return Claw(c.joints, c.clamped)
}

// String renders the chain for logs.
func (c *Chain) String() string {
	return fmt.Sprintf("chain{segments: %d, length: %g, tip: (%.3f, %.3f), clamped: %v}",
		c.segmentCount, c.segmentLength, c.EndEffector().X, c.EndEffector().Y, c.clamped)
}

func isFinite(p r2.Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
