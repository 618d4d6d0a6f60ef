package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"morphogen/pkg/core"
	"morphogen/pkg/morph"
)

func simConfig() Config {
	cfg := DefaultConfig()
	cfg.MaxNodes = 40
	cfg.Params.Density = 1
	cfg.WallBudget = 0
	return cfg
}

func TestSimulationLifecycle(t *testing.T) {
	sim := New(simConfig(), WithLogger(zap.NewNop()))
	assert.Equal(t, RunStopped, sim.RunState())

	sim.Reset(11)
	assert.Equal(t, RunRunning, sim.RunState())
	assert.Equal(t, 1, sim.NodeCount())
	assert.Zero(t, sim.Ticks())

	sim.Step()
	assert.Equal(t, 1, sim.Ticks())
	assert.Greater(t, sim.NodeCount(), 1)

	sim.Pause()
	ticks, nodes := sim.Ticks(), sim.NodeCount()
	sim.Step()
	assert.Equal(t, ticks, sim.Ticks(), "paused simulations do not advance")
	assert.Equal(t, nodes, sim.NodeCount())

	sim.Start()
	sim.Step()
	assert.Equal(t, ticks+1, sim.Ticks())

	sim.Stop()
	sim.Step()
	assert.Equal(t, ticks+1, sim.Ticks())
}

func TestSimulationRunsToCompletion(t *testing.T) {
	sim := New(simConfig())
	sim.Reset(12)

	for i := 0; i < 2000 && sim.Progress() < 1; i++ {
		sim.Step()
	}
	assert.Equal(t, 1.0, sim.Progress())
	assert.Equal(t, 40, sim.NodeCount())
	sim.Graph().Check()

	// Completion is stable: further stepping keeps the structure intact.
	nodes := sim.NodeCount()
	for i := 0; i < 20; i++ {
		sim.Step()
	}
	assert.Equal(t, nodes, sim.NodeCount())
}

func TestSimulationDeterministicReplay(t *testing.T) {
	run := func() morph.Snapshot {
		sim := New(simConfig())
		sim.Reset(777)
		for i := 0; i < 120; i++ {
			sim.Step()
		}
		return sim.Snapshot()
	}
	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Fatalf("identical seeds diverged (-first +second):\n%s", diff)
	}
}

func TestSimulationResetSeedFallback(t *testing.T) {
	cfg := simConfig()
	cfg.Seed = 555

	a := New(cfg)
	a.Reset(0)
	b := New(cfg)
	b.Reset(555)
	for i := 0; i < 60; i++ {
		a.Step()
		b.Step()
	}
	if diff := cmp.Diff(a.Snapshot(), b.Snapshot()); diff != "" {
		t.Fatalf("zero seed must fall back to the configured seed:\n%s", diff)
	}
}

func TestSimulationSeedPlacement(t *testing.T) {
	cfg := simConfig()
	cfg.SeedCount = 4
	sim := New(cfg)
	sim.Reset(13)

	require.Equal(t, 4, sim.NodeCount())
	roots := 0
	sim.Graph().ForEachNode(func(n *morph.Node) {
		assert.True(t, n.Root)
		assert.Equal(t, cfg.Bounds.Min.Y, n.Position.Y, "seeds are planted on the floor")
		roots++
	})
	assert.Equal(t, 4, roots)

	// The first seed sits at the floor center.
	center := cfg.Bounds.Center()
	center.Y = cfg.Bounds.Min.Y
	assert.Equal(t, center, sim.Graph().Node(0).Position)
}

func TestSimulationForceProvider(t *testing.T) {
	cfg := simConfig()
	sampled := 0
	sim := New(cfg, WithForceProvider(func(id morph.NodeID, pos core.Vec3) core.Vec3 {
		sampled++
		return core.Vec3{X: 0.9}
	}))
	sim.Reset(14)
	sim.Step()

	assert.Positive(t, sampled)
	assert.Positive(t, sim.AverageStress(), "a loaded structure reports stress")
}

func TestSimulationSetParamsMidRun(t *testing.T) {
	sim := New(simConfig())
	sim.Reset(15)
	for i := 0; i < 10; i++ {
		sim.Step()
	}

	p := simConfig().Params
	p.Biomorph = core.BiomorphBone
	p.Density = 0
	sim.SetParams(p)
	assert.Equal(t, "morphogen-bone", sim.Name())
	assert.Equal(t, 1.0, sim.Progress(), "lowering density below the current size completes growth")

	nodes := sim.NodeCount()
	sim.Step()
	assert.Equal(t, nodes, sim.NodeCount())
}

func TestSimulationParametersSnapshot(t *testing.T) {
	sim := New(simConfig())
	sim.Reset(16)
	snap := sim.Parameters()

	require.Len(t, snap.Groups, 2)
	assert.Equal(t, "Biomorph", snap.Groups[0].Name)
	assert.Equal(t, "Telemetry", snap.Groups[1].Name)

	keys := map[string]bool{}
	for _, g := range snap.Groups {
		for _, p := range g.Params {
			keys[p.Key] = true
			assert.NotEmpty(t, p.Label)
			assert.NotEmpty(t, p.Value)
		}
	}
	for _, key := range []string{"biomorph", "density", "growth_rate", "nodes", "edges", "progress"} {
		assert.True(t, keys[key], "missing parameter %s", key)
	}
}

func TestSimulationName(t *testing.T) {
	cfg := simConfig()
	cfg.Params.Biomorph = core.BiomorphMycelium
	sim := New(cfg)
	assert.Equal(t, "morphogen-mycelium", sim.Name())
}
