package ik

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidConfiguration is returned by NewChain for non-positive segment
	// counts or lengths.
	ErrInvalidConfiguration = errors.New("invalid chain configuration")

	// ErrInvalidTarget is returned when a target has non-finite coordinates.
	ErrInvalidTarget = errors.New("invalid target")

	// ErrDegenerateGeometry is returned when a solve could not produce finite
	// joint positions. The chain keeps its previous pose.
	ErrDegenerateGeometry = errors.New("degenerate geometry")

	// ErrNonConvergence is returned when the iteration cap was reached before
	// the tolerance. The chain holds a usable best-effort pose.
	ErrNonConvergence = errors.New("solver did not converge")
)

// IsRecoverable reports whether err leaves the chain in a usable pose.
func IsRecoverable(err error) bool {
	return err == nil || errors.Is(err, ErrNonConvergence) || errors.Is(err, ErrDegenerateGeometry)
}
