package claw_arm

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"

	"claw_arm/ik"
)

// ErrConfigConflict is returned when a component asks for an existing chain with
// a different geometry.
var ErrConfigConflict = errors.New("chain config conflict")

type ChainEntry struct {
	shared   *SharedChain
	config   ChainConfig
	refCount int64 // Atomic reference counter
	mu       sync.RWMutex
}

type ChainRegistry struct {
	entries map[string]*ChainEntry // chain key -> entry
	mu      sync.RWMutex
}

func NewChainRegistry() *ChainRegistry {
	return &ChainRegistry{
		entries: make(map[string]*ChainEntry),
	}
}

// GetChain returns the chain stored under key, creating it from config on
// first use. Each successful call must be paired with ReleaseChain.
func (r *ChainRegistry) GetChain(key string, config ChainConfig, logger logging.Logger) (*SharedChain, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, exists := r.entries[key]; exists {
		return r.getExistingChain(entry, config)
	}

	return r.createNewChain(key, config, logger)
}

// Must be called with r.mu held.
func (r *ChainRegistry) getExistingChain(entry *ChainEntry, config ChainConfig) (*SharedChain, error) {
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if !configsEqual(entry.config, config) {
		currentRefCount := atomic.LoadInt64(&entry.refCount)
		return nil, fmt.Errorf("%w: chain %q already exists with a different geometry (refCount: %d)",
			ErrConfigConflict, entry.config.Chain, currentRefCount)
	}

	atomic.AddInt64(&entry.refCount, 1)
	return entry.shared, nil
}

// Must be called with r.mu held.
func (r *ChainRegistry) createNewChain(key string, config ChainConfig, logger logging.Logger) (*SharedChain, error) {
	config.Chain = key
	chain, err := ik.NewChain(config.IKConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create chain %q: %w", key, err)
	}

	entry := &ChainEntry{
		shared:   &SharedChain{key: key, chain: chain},
		config:   config,
		refCount: 1,
	}
	r.entries[key] = entry

	if logger != nil {
		logger.Infof("Created chain %q with %d segments of length %g", key, config.Segments, config.SegmentLength)
	}

	return entry.shared, nil
}

// ReleaseChain drops one reference and forgets the chain when none are left.
func (r *ChainRegistry) ReleaseChain(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.entries[key]
	if !exists {
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	currentRefCount := atomic.AddInt64(&entry.refCount, -1)
	if currentRefCount <= 0 {
		delete(r.entries, key)
		entry.shared = nil
		atomic.StoreInt64(&entry.refCount, 0)
	}
}

// ForceCloseChain forgets the chain regardless of outstanding references.
func (r *ChainRegistry) ForceCloseChain(key string) {
	r.mu.Lock()
	entry, exists := r.entries[key]
	if exists {
		delete(r.entries, key)
	}
	r.mu.Unlock()

	if !exists {
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.shared = nil
	atomic.StoreInt64(&entry.refCount, 0)
}

// GetChainStatus reports the reference count, whether the chain is live and a
// short summary of its config.
func (r *ChainRegistry) GetChainStatus(key string) (int64, bool, string) {
	r.mu.RLock()
	entry, exists := r.entries[key]
	r.mu.RUnlock()

	if !exists {
		return 0, false, ""
	}

	entry.mu.RLock()
	defer entry.mu.RUnlock()

	currentRefCount := atomic.LoadInt64(&entry.refCount)
	configSummary := fmt.Sprintf("Chain: %s, %d x %g, base (%g, %g)",
		entry.config.Chain, entry.config.Segments, entry.config.SegmentLength, entry.config.BaseX, entry.config.BaseY)

	return currentRefCount, entry.shared != nil, configSummary
}
