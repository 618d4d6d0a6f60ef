package core

// BiomorphType selects the growth archetype driving the engine.
type BiomorphType string

const (
	BiomorphMold     BiomorphType = "mold"
	BiomorphBone     BiomorphType = "bone"
	BiomorphCoral    BiomorphType = "coral"
	BiomorphMycelium BiomorphType = "mycelium"
	BiomorphCustom   BiomorphType = "custom"
	// BiomorphColonize is the auxiliary space-colonization strategy. It is not
	// one of the five user-facing archetypes but shares the same contract.
	BiomorphColonize BiomorphType = "colonize"
)

// Params holds the normalized tunables shared by all archetypes. Each value
// is clamped to [0,1] on construction and treated as immutable per step.
type Params struct {
	Biomorph       BiomorphType `yaml:"biomorph"`
	Density        float64      `yaml:"density"`
	Complexity     float64      `yaml:"complexity"`
	Connectivity   float64      `yaml:"connectivity"`
	GrowthRate     float64      `yaml:"growth_rate"`
	AdaptationRate float64      `yaml:"adaptation_rate"`
}

// DefaultParams returns a mid-range parameter set using the mold archetype.
func DefaultParams() Params {
	return Params{
		Biomorph:       BiomorphMold,
		Density:        0.5,
		Complexity:     0.5,
		Connectivity:   0.5,
		GrowthRate:     0.5,
		AdaptationRate: 0.5,
	}
}

// Normalized returns a copy with every scalar clamped to [0,1].
func (p Params) Normalized() Params {
	p.Density = Clamp01(p.Density)
	p.Complexity = Clamp01(p.Complexity)
	p.Connectivity = Clamp01(p.Connectivity)
	p.GrowthRate = Clamp01(p.GrowthRate)
	p.AdaptationRate = Clamp01(p.AdaptationRate)
	return p
}

// ParamType enumerates supported parameter value kinds.
type ParamType string

const (
	// ParamTypeInt denotes integer-valued parameters.
	ParamTypeInt ParamType = "int"
	// ParamTypeFloat denotes floating-point parameters.
	ParamTypeFloat ParamType = "float"
	// ParamTypeString denotes free-form string parameters.
	ParamTypeString ParamType = "string"
)

// Parameter describes a single tunable value exposed by the engine.
type Parameter struct {
	Key         string
	Label       string
	Type        ParamType
	Value       string
	Description string
}

// ParameterGroup clusters related parameters for presentation purposes.
type ParameterGroup struct {
	Name    string
	Params  []Parameter
	Summary string
}

// ParameterSnapshot captures the current set of tunables exposed by the engine.
type ParameterSnapshot struct {
	Groups []ParameterGroup
}
