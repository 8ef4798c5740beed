package claw_arm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/golang/geo/r3"
	"go.viam.com/rdk/components/gripper"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/referenceframe"
	"go.viam.com/rdk/resource"
	"go.viam.com/rdk/spatialmath"

	"claw_arm/command"
	"claw_arm/ik"
)

var (
	ClawModel = resource.NewModel("devrel", "claw-arm", "claw")
)

func init() {
	resource.RegisterComponent(
		gripper.API,
		ClawModel,
		resource.Registration[gripper.Gripper, *ClawConfig]{
			Constructor: newClaw,
		},
	)
}

type claw struct {
	resource.AlwaysRebuild

	name     resource.Name
	logger   logging.Logger
	chain    *SharedChain
	jawWidth float64

	mu       sync.Mutex
	isMoving atomic.Bool
	closed   atomic.Bool
}

func newClaw(ctx context.Context, deps resource.Dependencies, conf resource.Config, logger logging.Logger) (gripper.Gripper, error) {
	cfg, err := resource.NativeConfig[*ClawConfig](conf)
	if err != nil {
		return nil, err
	}
	return NewClaw(ctx, conf.ResourceName(), cfg, logger)
}

// NewClaw builds a gripper on the end effector of the chain named by
// cfg.Chain, sharing that chain with any arm that names it.
func NewClaw(ctx context.Context, name resource.Name, cfg *ClawConfig, logger logging.Logger) (gripper.Gripper, error) {
	if _, _, err := cfg.Validate(""); err != nil {
		return nil, fmt.Errorf("invalid claw config: %w", err)
	}

	chain, err := GetSharedChain(cfg.ChainConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to get shared chain for claw: %w", err)
	}

	g := &claw{
		name:     name,
		logger:   logger,
		chain:    chain,
		jawWidth: cfg.JawWidth,
	}

	logger.Debugf("Claw initialized on chain %q, jaw width %g", cfg.Chain, cfg.JawWidth)
	return g, nil
}

func (g *claw) Name() resource.Name {
	return g.name
}

// Open releases whatever the claw holds.
func (g *claw) Open(ctx context.Context, extra map[string]interface{}) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.isMoving.Store(true)
	defer g.isMoving.Store(false)

	g.logger.Debug("Opening claw")
	if _, err := g.chain.Execute(command.Place()); err != nil {
		return fmt.Errorf("failed to open claw: %w", err)
	}
	return nil
}

// Grab closes the claw and reports whether it ended up closed.
func (g *claw) Grab(ctx context.Context, extra map[string]interface{}) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.isMoving.Store(true)
	defer g.isMoving.Store(false)

	g.logger.Debug("Closing claw")
	if _, err := g.chain.Execute(command.PickUp()); err != nil {
		return false, fmt.Errorf("failed to close claw: %w", err)
	}
	return g.chain.Clamped(), nil
}

func (g *claw) Stop(ctx context.Context, extra map[string]interface{}) error {
	g.isMoving.Store(false)
	return nil
}

func (g *claw) IsMoving(ctx context.Context) (bool, error) {
	return g.isMoving.Load(), nil
}

// Geometries returns one box per jaw stroke in the chain's plane.
func (g *claw) Geometries(ctx context.Context, extra map[string]interface{}) ([]spatialmath.Geometry, error) {
	pose := g.chain.State().Claw
	return jawGeometries(pose, g.jawWidth)
}

func jawGeometries(pose ik.ClawPose, width float64) ([]spatialmath.Geometry, error) {
	labels := []string{"left-jaw-1", "left-jaw-2", "right-jaw-1", "right-jaw-2"}

	var geometries []spatialmath.Geometry
	for i, s := range pose.Strokes() {
		mid := s.From.Add(s.To).Mul(0.5)
		dir := s.To.Sub(s.From)
		heading := math.Atan2(dir.Y, dir.X) * 180 / math.Pi

		box, err := spatialmath.NewBox(
			spatialmath.NewPose(r3.Vector{X: mid.X, Y: mid.Y}, &spatialmath.OrientationVectorDegrees{OZ: 1, Theta: heading}),
			r3.Vector{X: s.Length(), Y: width, Z: width},
			labels[i],
		)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s geometry: %w", labels[i], err)
		}
		geometries = append(geometries, box)
	}
	return geometries, nil
}

func (g *claw) DoCommand(ctx context.Context, cmd map[string]interface{}) (map[string]interface{}, error) {
	switch cmd["command"] {
	case "claw_pose":
		state := g.chain.State()
		end := state.Joints[len(state.Joints)-1]
		return map[string]interface{}{
			"clamped":      state.Clamped,
			"empty":        state.Claw.Empty,
			"strokes":      clawToList(state.Claw),
			"end_effector": pointToMap(end),
		}, nil

	case "chain_status":
		refCount, live, summary := GetSharedChainStatus(g.chain.Key())
		return map[string]interface{}{
			"ref_count": refCount,
			"live":      live,
			"config":    summary,
		}, nil

	default:
		return nil, fmt.Errorf("unknown command: %v", cmd["command"])
	}
}

func (g *claw) Close(ctx context.Context) error {
	if g.closed.CompareAndSwap(false, true) {
		ReleaseSharedChain(g.chain.Key())
	}
	return nil
}

func (g *claw) CurrentInputs(ctx context.Context) ([]referenceframe.Input, error) {
	return nil, errors.ErrUnsupported
}

func (g *claw) GoToInputs(ctx context.Context, inputs ...[]referenceframe.Input) error {
	return errors.ErrUnsupported
}

func (g *claw) Kinematics(ctx context.Context) (referenceframe.Model, error) {
	return nil, errors.ErrUnsupported
}

func (g *claw) IsHoldingSomething(ctx context.Context, extra map[string]interface{}) (gripper.HoldingStatus, error) {
	return gripper.HoldingStatus{IsHoldingSomething: g.chain.Clamped()}, nil
}
