package claw_arm

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync/atomic"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.viam.com/rdk/components/generic"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/operation"
	"go.viam.com/rdk/resource"

	"claw_arm/command"
	"claw_arm/ik"
)

var (
	PlanarArmModel = resource.NewModel("devrel", "claw-arm", "planar")
)

func init() {
	resource.RegisterComponent(generic.API, PlanarArmModel,
		resource.Registration[resource.Resource, *PlanarArmConfig]{
			Constructor: newPlanarArm,
		},
	)
}

// planarArm drives a simulated planar chain through DoCommand.
type planarArm struct {
	resource.Named
	resource.AlwaysRebuild

	logger logging.Logger
	cfg    *PlanarArmConfig
	opMgr  *operation.SingleOperationManager
	chain  *SharedChain
	sealer command.Sealer
	closed atomic.Bool
}

func newPlanarArm(ctx context.Context, deps resource.Dependencies, rawConf resource.Config, logger logging.Logger) (resource.Resource, error) {
	conf, err := resource.NativeConfig[*PlanarArmConfig](rawConf)
	if err != nil {
		return nil, err
	}
	conf.Logger = logger
	return NewPlanarArm(ctx, rawConf.ResourceName(), conf, logger)
}

// NewPlanarArm builds the arm and takes a reference on its shared chain. The
// chain key defaults to the component name.
func NewPlanarArm(ctx context.Context, name resource.Name, conf *PlanarArmConfig, logger logging.Logger) (resource.Resource, error) {
	if conf.Logger == nil {
		conf.Logger = logger
	}
	if conf.Chain == "" {
		conf.Chain = name.Name
	}
	if _, _, err := conf.Validate(""); err != nil {
		return nil, fmt.Errorf("invalid planar arm config: %w", err)
	}

	chain, err := GetSharedChain(conf.ChainConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to get shared chain for arm: %w", err)
	}

	a := &planarArm{
		Named:  name.AsNamed(),
		logger: logger,
		cfg:    conf,
		opMgr:  operation.NewSingleOperationManager(),
		chain:  chain,
		sealer: command.Passthrough{},
	}

	logger.Infof("Planar arm initialized on chain %q: %d segments of length %g, base (%g, %g)",
		conf.Chain, conf.Segments, conf.SegmentLength, conf.BaseX, conf.BaseY)
	return a, nil
}

func (a *planarArm) Close(context.Context) error {
	if a.closed.CompareAndSwap(false, true) {
		a.logger.Info("Closing planar arm")
		ReleaseSharedChain(a.chain.Key())
	}
	return nil
}

func (a *planarArm) DoCommand(ctx context.Context, cmd map[string]interface{}) (map[string]interface{}, error) {
	switch cmd["command"] {
	case "move":
		p, err := pointArgs(cmd)
		if err != nil {
			return nil, fmt.Errorf("move command requires %w", err)
		}
		return a.execute(ctx, command.Move(p.X, p.Y))

	case "target":
		p, err := pointArgs(cmd)
		if err != nil {
			return nil, fmt.Errorf("target command requires %w", err)
		}
		return a.solve(ctx, p)

	case "pickup":
		return a.execute(ctx, command.PickUp())

	case "place":
		return a.execute(ctx, command.Place())

	case "toggle_claw":
		_ = a.chain.Do(func(c *ik.Chain) error {
			c.ToggleClaw()
			return nil
		})
		return a.stateResponse(), nil

	case "exec":
		line, ok := cmd["line"].(string)
		if !ok {
			return nil, fmt.Errorf("exec command requires 'line' string parameter")
		}
		c, err := command.Parse(line)
		if err != nil {
			return nil, err
		}
		return a.execute(ctx, c)

	case "token":
		encoded, ok := cmd["token"].(string)
		if !ok {
			return nil, fmt.Errorf("token command requires 'token' string parameter")
		}
		sealed, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, errors.Wrapf(command.ErrMalformedCommandToken, "token is not base64: %v", err)
		}
		c, err := command.Receive(sealed, a.sealer)
		if err != nil {
			return nil, err
		}
		return a.execute(ctx, c)

	case "encode":
		line, ok := cmd["line"].(string)
		if !ok {
			return nil, fmt.Errorf("encode command requires 'line' string parameter")
		}
		c, err := command.Parse(line)
		if err != nil {
			return nil, err
		}
		token, err := command.Encode(c)
		if err != nil {
			return nil, err
		}
		sealed, err := a.sealer.Seal(token)
		if err != nil {
			return nil, errors.Wrap(err, "failed to seal command")
		}
		return map[string]interface{}{
			"command": c.String(),
			"token":   base64.StdEncoding.EncodeToString(sealed),
		}, nil

	case "state":
		return a.stateResponse(), nil

	case "reset":
		a.opMgr.CancelRunning(ctx)
		a.chain.Reset()
		a.logger.Infof("Chain %q reset to its rest pose", a.chain.Key())
		return a.stateResponse(), nil

	case "chain_status":
		refCount, live, summary := GetSharedChainStatus(a.chain.Key())
		return map[string]interface{}{
			"ref_count": refCount,
			"live":      live,
			"config":    summary,
		}, nil

	default:
		return nil, fmt.Errorf("unknown command: %v", cmd["command"])
	}
}

// execute runs c on the shared chain. Recoverable solver outcomes are reported
// as a warning next to the resulting pose.
func (a *planarArm) execute(ctx context.Context, c command.Command) (map[string]interface{}, error) {
	ctx, done := a.opMgr.New(ctx)
	defer done()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.logger.Debugf("Executing %s", c)
	res, err := a.chain.Execute(c)
	return a.respond(c.String(), res, err)
}

func (a *planarArm) solve(ctx context.Context, target r2.Point) (map[string]interface{}, error) {
	ctx, done := a.opMgr.New(ctx)
	defer done()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.logger.Debugf("Solving for target (%g, %g)", target.X, target.Y)
	res, err := a.chain.Solve(target)
	return a.respond(fmt.Sprintf("target %g %g", target.X, target.Y), res, err)
}

// respond reports the pose after a command together with that command's own
// result.
func (a *planarArm) respond(what string, res ik.Result, err error) (map[string]interface{}, error) {
	if err != nil && !ik.IsRecoverable(err) {
		return nil, err
	}

	resp := resultToMap(a.chain.State(), res)
	if err != nil {
		a.logger.Warnf("%s: %v", what, err)
		resp["warning"] = err.Error()
	}
	return resp, nil
}

func (a *planarArm) stateResponse() map[string]interface{} {
	return stateToMap(a.chain.State())
}

func stateToMap(state ChainState) map[string]interface{} {
	return resultToMap(state, state.LastResult)
}

func resultToMap(state ChainState, res ik.Result) map[string]interface{} {
	joints := make([]interface{}, 0, len(state.Joints))
	for _, j := range state.Joints {
		joints = append(joints, pointToMap(j))
	}

	resp := map[string]interface{}{
		"joints":     joints,
		"clamped":    state.Clamped,
		"claw":       clawToList(state.Claw),
		"status":     res.Status.String(),
		"iterations": res.Iterations,
		"error":      res.Error,
	}
	if len(state.Joints) > 0 {
		resp["end_effector"] = pointToMap(state.Joints[len(state.Joints)-1])
	}
	return resp
}

func clawToList(pose ik.ClawPose) []interface{} {
	strokes := pose.Strokes()
	list := make([]interface{}, 0, len(strokes))
	for _, s := range strokes {
		list = append(list, map[string]interface{}{
			"from": pointToMap(s.From),
			"to":   pointToMap(s.To),
		})
	}
	return list
}

func pointToMap(p r2.Point) map[string]interface{} {
	return map[string]interface{}{"x": p.X, "y": p.Y}
}

func pointArgs(cmd map[string]interface{}) (r2.Point, error) {
	x, ok := numberArg(cmd["x"])
	if !ok {
		return r2.Point{}, fmt.Errorf("'x' number parameter")
	}
	y, ok := numberArg(cmd["y"])
	if !ok {
		return r2.Point{}, fmt.Errorf("'y' number parameter")
	}
	return r2.Point{X: x, Y: y}, nil
}

func numberArg(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
