package claw_arm

import (
	"sync"

	"github.com/golang/geo/r2"
	"go.viam.com/rdk/logging"

	"claw_arm/command"
	"claw_arm/ik"
)

// SharedChain wraps a chain with serialized access. Components naming the same
// chain hold the same SharedChain, so an arm and its claw always agree on pose.
type SharedChain struct {
	key   string
	mu    sync.RWMutex
	chain *ik.Chain
}

// ChainState is a consistent snapshot of a chain.
type ChainState struct {
	Joints     []r2.Point
	Clamped    bool
	Claw       ik.ClawPose
	LastResult ik.Result
}

// Thread-safe chain methods

// Key returns the registry key the chain is stored under.
func (s *SharedChain) Key() string { return s.key }

// Do runs fn with exclusive access to the chain.
func (s *SharedChain) Do(fn func(chain *ik.Chain) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.chain)
}

// Execute runs cmd and returns its own result, not the chain's last solve.
func (s *SharedChain) Execute(cmd command.Command) (ik.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cmd.Execute(s.chain)
}

func (s *SharedChain) Solve(target r2.Point) (ik.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chain.Solve(target)
}

func (s *SharedChain) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chain.Reset()
}

func (s *SharedChain) Clamped() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chain.Clamped()
}

func (s *SharedChain) State() ChainState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ChainState{
		Joints:     s.chain.Joints(),
		Clamped:    s.chain.Clamped(),
		Claw:       s.chain.Claw(),
		LastResult: s.chain.LastResult(),
	}
}

// Compare configs for compatibility
func configsEqual(a, b ChainConfig) bool {
	return a.Segments == b.Segments &&
		a.SegmentLength == b.SegmentLength &&
		a.Tolerance == b.Tolerance &&
		a.MaxIterations == b.MaxIterations &&
		a.BaseX == b.BaseX &&
		a.BaseY == b.BaseY
}

// Shared chain manager

var defaultRegistry = NewChainRegistry()

// GetSharedChain returns the module-wide chain for config.Chain. Each
// successful call must be paired with ReleaseSharedChain.
func GetSharedChain(config ChainConfig, logger logging.Logger) (*SharedChain, error) {
	return defaultRegistry.GetChain(config.Chain, config, logger)
}

func ReleaseSharedChain(key string) {
	defaultRegistry.ReleaseChain(key)
}

func GetSharedChainStatus(key string) (int64, bool, string) {
	return defaultRegistry.GetChainStatus(key)
}
