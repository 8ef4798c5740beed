// discovery.go
package claw_arm

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.viam.com/rdk/components/generic"
	"go.viam.com/rdk/components/gripper"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/resource"
	"go.viam.com/rdk/services/discovery"
)

var ChainDiscoveryModel = resource.NewModel("devrel", "claw-arm", "discovery")

func init() {
	resource.RegisterService(
		discovery.API,
		ChainDiscoveryModel,
		resource.Registration[discovery.Service, *ChainDiscoveryConfig]{
			Constructor: newChainDiscovery,
		})
}

// ChainDiscoveryConfig is the configuration for the discovery service
type ChainDiscoveryConfig struct {
	// Directory scanned for chain YAML files (default: VIAM_MODULE_DATA)
	DataDir string `json:"data_dir,omitempty"`
}

// Validate ensures the config is valid
func (cfg *ChainDiscoveryConfig) Validate(path string) ([]string, []string, error) {
	return nil, nil, nil
}

// chainDiscovery proposes arm and claw configs for every chain file it finds
type chainDiscovery struct {
	resource.Named
	resource.AlwaysRebuild
	resource.TriviallyCloseable
	logger  logging.Logger
	dataDir string
}

func newChainDiscovery(
	ctx context.Context,
	deps resource.Dependencies,
	conf resource.Config,
	logger logging.Logger,
) (discovery.Service, error) {
	cfg, err := resource.NativeConfig[*ChainDiscoveryConfig](conf)
	if err != nil {
		return nil, err
	}

	return &chainDiscovery{
		Named:   conf.ResourceName().AsNamed(),
		logger:  logger,
		dataDir: cfg.DataDir,
	}, nil
}

// DiscoverResources returns a planar arm and claw config per chain file. With
// no chain files it proposes a single pair using the default geometry.
func (dis *chainDiscovery) DiscoverResources(ctx context.Context, extra map[string]any) ([]resource.Config, error) {
	dataDir := dis.dataDir
	if dataDir == "" {
		dataDir = os.Getenv("VIAM_MODULE_DATA")
	}
	dis.logger.Debugf("Scanning %q for chain files", dataDir)

	var allConfigs []resource.Config
	seen := map[string]string{}
	for _, path := range filterCandidateFiles(listFiles(dataDir)) {
		select {
		case <-ctx.Done():
			dis.logger.Info("Discovery cancelled")
			return allConfigs, ctx.Err()
		default:
		}

		cfg, err := LoadConfigFromFile(path, dis.logger)
		if err != nil {
			dis.logger.Warnf("Skipping %s: %v", path, err)
			continue
		}
		name := extractChainName(path)
		if first, ok := seen[name]; ok {
			dis.logger.Warnf("Skipping %s: chain %q already defined by %s", path, name, first)
			continue
		}
		seen[name] = path
		cfg.Chain = name
		allConfigs = append(allConfigs, generateConfigs(*cfg)...)
	}

	if len(allConfigs) == 0 {
		dis.logger.Info("No chain files found, proposing the default chain")
		cfg := ChainConfig{Chain: "default"}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		allConfigs = generateConfigs(cfg)
	} else {
		dis.logger.Infof("Discovered %d component configurations", len(allConfigs))
	}

	return allConfigs, nil
}

// generateConfigs creates an arm and a claw sharing one chain
func generateConfigs(cfg ChainConfig) []resource.Config {
	attrs := func() map[string]interface{} {
		return map[string]interface{}{
			"chain":          cfg.Chain,
			"segments":       cfg.Segments,
			"segment_length": cfg.SegmentLength,
			"tolerance":      cfg.Tolerance,
			"max_iterations": cfg.MaxIterations,
			"base_x":         cfg.BaseX,
			"base_y":         cfg.BaseY,
		}
	}

	return []resource.Config{
		{
			Name:       "claw-arm-" + cfg.Chain,
			API:        generic.API,
			Model:      PlanarArmModel,
			Attributes: attrs(),
		},
		{
			Name:       "claw-" + cfg.Chain,
			API:        gripper.API,
			Model:      ClawModel,
			Attributes: attrs(),
		},
	}
}

// filterCandidateFiles keeps visible YAML files, sorted
func filterCandidateFiles(paths []string) []string {
	candidates := []string{}
	for _, path := range paths {
		if isCandidateFile(path) {
			candidates = append(candidates, path)
		}
	}
	sort.Strings(candidates)
	return candidates
}

func isCandidateFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(base))
	return ext == ".yaml" || ext == ".yml"
}

// extractChainName derives the chain key from a file name
// /data/bench.yaml -> "bench"
// left arm.yml -> "left-arm"
func extractChainName(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.Join(strings.Fields(name), "-")
}

// listFiles returns the regular files directly inside dir
func listFiles(dir string) []string {
	if dir == "" {
		return []string{}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []string{}
	}

	var paths []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths
}
