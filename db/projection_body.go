package db

import "github.com/SebastianOsuna/neo4j-qb/internal"

// Return modifiers.
const (
	Distinct = internal.ModifierDistinct
	Max      = internal.ModifierMax
)

// Modifiers applies return modifiers positionally: the i-th modifier wraps
// the i-th returned value. Use "" to leave a value unmodified.
func Modifiers(modifiers ...string) ProjectionOption {
	return &internal.Configurer{
		Projection: func(p *internal.Projection) {
			p.Modifiers = append(p.Modifiers, modifiers...)
		},
	}
}

// Aliases names the returned values positionally. Use "" to leave a value
// unaliased.
func Aliases(aliases ...string) ProjectionOption {
	return &internal.Configurer{
		Projection: func(p *internal.Projection) {
			p.Aliases = append(p.Aliases, aliases...)
		},
	}
}
