// discovery_test.go
package claw_arm

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.viam.com/rdk/components/generic"
	"go.viam.com/rdk/components/gripper"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/resource"
	"go.viam.com/rdk/services/discovery"
)

func TestFilterCandidateFiles(t *testing.T) {
	tests := []struct {
		name     string
		paths    []string
		expected []string
	}{
		{
			name:     "YAML files sorted",
			paths:    []string{"/data/b.yaml", "/data/a.yml", "/data/notes.txt"},
			expected: []string{"/data/a.yml", "/data/b.yaml"},
		},
		{
			name:     "Hidden files skipped",
			paths:    []string{"/data/.chain.yaml", "/data/CHAIN.YAML"},
			expected: []string{"/data/CHAIN.YAML"},
		},
		{
			name:     "Empty list",
			paths:    []string{},
			expected: []string{},
		},
		{
			name:     "No matching files",
			paths:    []string{"/data/calibration.json", "/data/yaml"},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filterCandidateFiles(tt.paths)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestExtractChainName(t *testing.T) {
	assert.Equal(t, "bench", extractChainName("/data/bench.yaml"))
	assert.Equal(t, "left-arm", extractChainName("left arm.yml"))
}

func newTestDiscovery(t *testing.T, dataDir string) discovery.Service {
	t.Helper()
	conf := resource.Config{
		Name:                "discovery",
		API:                 discovery.API,
		Model:               ChainDiscoveryModel,
		ConvertedAttributes: &ChainDiscoveryConfig{DataDir: dataDir},
	}
	dis, err := newChainDiscovery(context.Background(), nil, conf, logging.NewTestLogger(t))
	require.NoError(t, err)
	return dis
}

func TestDiscoverResourcesFromFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SaveConfigToFile(filepath.Join(dir, "bench.yaml"), ChainConfig{Segments: 4, SegmentLength: 25}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("segments: -1\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("not a chain"), 0644))

	configs, err := newTestDiscovery(t, dir).DiscoverResources(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, configs, 2)

	arm, claw := configs[0], configs[1]
	assert.Equal(t, "claw-arm-bench", arm.Name)
	assert.Equal(t, generic.API, arm.API)
	assert.Equal(t, PlanarArmModel, arm.Model)
	assert.Equal(t, "bench", arm.Attributes["chain"])
	assert.Equal(t, 4, arm.Attributes["segments"])
	assert.Equal(t, 25.0, arm.Attributes["segment_length"])

	assert.Equal(t, "claw-bench", claw.Name)
	assert.Equal(t, gripper.API, claw.API)
	assert.Equal(t, ClawModel, claw.Model)
	assert.Equal(t, arm.Attributes["chain"], claw.Attributes["chain"])
}

func TestDiscoverResourcesSkipsDuplicateChainNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SaveConfigToFile(filepath.Join(dir, "bench.yaml"), ChainConfig{Segments: 4}))
	require.NoError(t, SaveConfigToFile(filepath.Join(dir, "bench.yml"), ChainConfig{Segments: 6}))
	require.NoError(t, SaveConfigToFile(filepath.Join(dir, "left arm.yaml"), ChainConfig{Segments: 2}))
	require.NoError(t, SaveConfigToFile(filepath.Join(dir, "left-arm.yaml"), ChainConfig{Segments: 3}))

	configs, err := newTestDiscovery(t, dir).DiscoverResources(context.Background(), nil)
	require.NoError(t, err)

	names := make([]string, 0, len(configs))
	for _, cfg := range configs {
		names = append(names, cfg.Name)
	}
	assert.Equal(t, []string{"claw-arm-bench", "claw-bench", "claw-arm-left-arm", "claw-left-arm"}, names)

	// The first file in sorted order wins.
	assert.Equal(t, 4, configs[0].Attributes["segments"])
	assert.Equal(t, 2, configs[2].Attributes["segments"])
}

func TestDiscoverResourcesDefault(t *testing.T) {
	configs, err := newTestDiscovery(t, t.TempDir()).DiscoverResources(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, configs, 2)

	assert.Equal(t, "claw-arm-default", configs[0].Name)
	assert.Equal(t, DefaultSegments, configs[0].Attributes["segments"])
	assert.Equal(t, "claw-default", configs[1].Name)
}

func TestDiscoverResourcesCancelled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SaveConfigToFile(filepath.Join(dir, "bench.yaml"), ChainConfig{Segments: 2}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestDiscovery(t, dir).DiscoverResources(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
