// Package ik solves planar inverse kinematics for a chain of equal-length rigid
// segments and derives the claw drawn at its end effector.
//
// A Chain is owned by one caller at a time. Solve, ToggleClaw and Claw run to
// completion synchronously; hosts that share a chain across goroutines must
// serialize access themselves.
//
// # Solving
//
// Targets beyond the chain's total reach are handled in a single pass that
// stretches every segment along the ray from the base to the target. Reachable
// targets are solved with FABRIK (forward and backward reaching), iterating
// until the end effector is within the chain's tolerance or the iteration cap
// is hit.
//
//	chain, err := ik.NewChain(ik.Config{SegmentCount: 3, SegmentLength: 50})
//	res, err := chain.Solve(r2.Point{X: 100, Y: 0})
//	pose := chain.Claw()
package ik
