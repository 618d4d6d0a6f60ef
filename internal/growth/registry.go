package growth

import "morphogen/pkg/core"

var strategies = map[core.BiomorphType]Strategy{}

// Register adds a strategy under the provided archetype.
func Register(t core.BiomorphType, s Strategy) {
	if t == "" || s == nil {
		return
	}
	strategies[t] = s
}

// Select returns the strategy for the archetype. Unknown or unset archetypes
// silently fall back to mold; selection never fails.
func Select(t core.BiomorphType) Strategy {
	if s, ok := strategies[t]; ok {
		return s
	}
	return strategies[core.BiomorphMold]
}

// Strategies exposes the registry of available strategies.
func Strategies() map[core.BiomorphType]Strategy {
	return strategies
}
