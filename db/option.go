package db

import "github.com/SebastianOsuna/neo4j-qb/internal"

// Props is a property map. It can be passed wherever a pattern or relate
// option is accepted.
type Props = internal.Props

type (
	PatternOption    = internal.PatternOption
	ProjectionOption = internal.ProjectionOption
	RelateOption     = internal.RelateOption
)

// Label sets the label of a node or the type of a relationship.
func Label(label string) PatternOption { return internal.Label(label) }

// Alias sets the variable a node or relationship is bound to.
func Alias(alias string) PatternOption { return internal.Alias(alias) }
