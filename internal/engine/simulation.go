package engine

import (
	"strconv"

	"go.uber.org/zap"

	"morphogen/internal/field"
	"morphogen/pkg/core"
	"morphogen/pkg/morph"
)

// ForceProvider samples the external force acting on a node this tick. The
// environment simulation owns the physics; the engine only consumes the
// per-node vectors.
type ForceProvider func(id morph.NodeID, pos core.Vec3) core.Vec3

// RunState is the facade lifecycle.
type RunState int

const (
	RunStopped RunState = iota
	RunRunning
	RunPaused
)

// Option configures a Simulation.
type Option func(*Simulation)

// WithLogger injects a structured logger; the default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Simulation) { s.log = l }
}

// WithForceProvider registers the environment force sampler.
func WithForceProvider(fp ForceProvider) Option {
	return func(s *Simulation) { s.forces = fp }
}

// Simulation ties the graph, influence field, orchestrator, and adaptation
// engine behind the lifecycle collaborators drive: start/pause/stop/reset and
// one Step per scheduler tick. Everything runs on the caller's goroutine.
type Simulation struct {
	cfg Config
	log *zap.Logger

	graph *morph.Graph
	fld   *field.Field
	rng   *core.RNG

	orch  *Orchestrator
	adapt *Adaptation

	forces ForceProvider
	state  RunState
	ticks  int
}

// New constructs a stopped simulation; call Reset to plant seeds.
func New(cfg Config, opts ...Option) *Simulation {
	cfg.Params = cfg.Params.Normalized()
	g := morph.NewGraph(cfg.MaxNodes, cfg.ConnectDistance)
	f := field.New(cfg.Bounds, cfg.FieldCellSize)
	rng := core.NewRNG(cfg.Seed)
	s := &Simulation{
		cfg:   cfg,
		log:   zap.NewNop(),
		graph: g,
		fld:   f,
		rng:   rng,
		orch:  NewOrchestrator(cfg, g, f, rng),
		adapt: NewAdaptation(cfg, g, f, rng),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.orch.SetForceLookup(s.adapt.ForceAt)
	return s
}

// Name identifies the engine for window titles and logs.
func (s *Simulation) Name() string { return "morphogen-" + string(s.cfg.Params.Biomorph) }

// Graph exposes the underlying structure for collaborators inside the module.
func (s *Simulation) Graph() *morph.Graph { return s.graph }

// Reset replants the seed nodes using deterministic randomness. A zero seed
// falls back to the configured one.
func (s *Simulation) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = s.cfg.Seed
	}
	s.rng = core.NewRNG(effective)
	s.orch.rng = s.rng
	s.adapt.rng = s.rng

	seeds := make([]core.Vec3, 0, s.cfg.SeedCount)
	center := s.cfg.Bounds.Center()
	center.Y = s.cfg.Bounds.Min.Y
	seeds = append(seeds, center)
	for i := 1; i < s.cfg.SeedCount; i++ {
		p := s.cfg.Bounds.RandomPoint(s.rng)
		p.Y = s.cfg.Bounds.Min.Y
		seeds = append(seeds, p)
	}
	s.orch.Initialize(seeds, nil, s.cfg.Params)
	s.adapt.Initialize(s.cfg.Params)
	s.state = RunRunning
	s.ticks = 0
	s.log.Info("simulation reset",
		zap.Int64("seed", effective),
		zap.String("biomorph", string(s.cfg.Params.Biomorph)),
		zap.Int("target", s.orch.Target()),
	)
}

// Start resumes a paused or stopped simulation.
func (s *Simulation) Start() {
	if s.state == RunRunning {
		return
	}
	s.state = RunRunning
	s.orch.Resume()
	s.log.Debug("simulation started")
}

// Pause suspends ticking without losing progress.
func (s *Simulation) Pause() {
	if s.state == RunRunning {
		s.state = RunPaused
		s.log.Debug("simulation paused")
	}
}

// Stop halts growth and adaptation until the next Start or Reset.
func (s *Simulation) Stop() {
	s.state = RunStopped
	s.orch.Stop()
	s.log.Debug("simulation stopped")
}

// SetParams swaps archetype parameters between ticks without resetting the
// structure.
func (s *Simulation) SetParams(p core.Params) {
	s.cfg.Params = p.Normalized()
	s.orch.SetParams(s.cfg.Params)
	s.adapt.SetParams(s.cfg.Params)
}

// SetEnvInfluence forwards the environmental bias to the colonization
// strategy.
func (s *Simulation) SetEnvInfluence(v core.Vec3) { s.orch.SetEnvInfluence(v) }

// Step advances the simulation by one tick: sample forces, update stress,
// grow, adapt. Paused or stopped simulations do nothing.
func (s *Simulation) Step() {
	if s.state != RunRunning {
		return
	}
	s.ticks++

	if s.forces != nil {
		samples := make(map[morph.NodeID]core.Vec3, s.graph.NodeCount())
		s.graph.ForEachNode(func(n *morph.Node) {
			samples[n.ID] = s.forces(n.ID, n.Position)
		})
		s.adapt.UpdateForces(samples)
	} else {
		s.adapt.UpdateForces(nil)
	}

	outcome := s.orch.Tick()
	if outcome == OutcomeBudgetExceeded {
		s.log.Info("growth budget exhausted",
			zap.Float64("progress", s.orch.Progress()),
			zap.Int("nodes", s.graph.NodeCount()),
		)
	}

	s.adapt.Step(s.cfg.TickDelta)
}

// Ticks returns how many ticks have run since the last Reset.
func (s *Simulation) Ticks() int { return s.ticks }

// RunState returns the facade lifecycle state.
func (s *Simulation) RunState() RunState { return s.state }

// Progress reports growth completion in [0,1].
func (s *Simulation) Progress() float64 { return s.orch.Progress() }

// AverageStress reports the mean node stress.
func (s *Simulation) AverageStress() float64 { return s.adapt.AverageStress() }

// NodeCount reports the current node total.
func (s *Simulation) NodeCount() int { return s.graph.NodeCount() }

// ConnectionCount reports the current live edge total.
func (s *Simulation) ConnectionCount() int { return s.graph.EdgeCount() }

// Snapshot returns the plain node/edge state for display or export.
func (s *Simulation) Snapshot() morph.Snapshot { return s.graph.Snapshot() }

// Parameters exposes the current tunables for the HUD.
func (s *Simulation) Parameters() core.ParameterSnapshot {
	p := s.cfg.Params
	return core.ParameterSnapshot{
		Groups: []core.ParameterGroup{
			{
				Name: "Biomorph",
				Params: []core.Parameter{
					{Key: "biomorph", Label: "Archetype", Type: core.ParamTypeString, Value: string(p.Biomorph)},
					floatParam("density", "Density", p.Density),
					floatParam("complexity", "Complexity", p.Complexity),
					floatParam("connectivity", "Connectivity", p.Connectivity),
					floatParam("growth_rate", "Growth rate", p.GrowthRate),
					floatParam("adaptation_rate", "Adaptation rate", p.AdaptationRate),
				},
			},
			{
				Name: "Telemetry",
				Params: []core.Parameter{
					intParam("nodes", "Nodes", s.NodeCount()),
					intParam("edges", "Edges", s.ConnectionCount()),
					floatParam("progress", "Progress", s.Progress()),
					floatParam("avg_stress", "Average stress", s.AverageStress()),
				},
			},
		},
	}
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.Itoa(value)}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeFloat, Value: strconv.FormatFloat(value, 'f', 3, 64)}
}
