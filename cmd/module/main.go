package main

import (
	"go.viam.com/rdk/components/generic"
	"go.viam.com/rdk/components/gripper"
	"go.viam.com/rdk/module"
	"go.viam.com/rdk/resource"
	"go.viam.com/rdk/services/discovery"
	clawArm "claw_arm"
)

func main() {
	// ModularMain can take multiple APIModel arguments, if your module implements multiple models.
	module.ModularMain(
		resource.APIModel{API: generic.API, Model: clawArm.PlanarArmModel},
		resource.APIModel{API: gripper.API, Model: clawArm.ClawModel},
		resource.APIModel{API: discovery.API, Model: clawArm.ChainDiscoveryModel},
	)
}
