package db

import "github.com/SebastianOsuna/neo4j-qb/internal"

// Relate modifiers change how an existing relationship's property is updated
// on a repeated merge.
const (
	// Increment adds the new value to the stored one.
	Increment = internal.ModifierIncrement
	// KeepMax keeps the larger of the stored and the new value.
	KeepMax = internal.ModifierMax
)

// Modify sets the modifier applied to property when the relationship already
// exists.
func Modify(property, modifier string) RelateOption {
	return &internal.Configurer{
		Relate: func(r *internal.RelateOptions) {
			if r.Modifiers == nil {
				r.Modifiers = map[string]string{}
			}
			r.Modifiers[property] = modifier
		},
	}
}
