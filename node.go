package neoqb

import (
	"github.com/SebastianOsuna/neo4j-qb/db"
	"github.com/SebastianOsuna/neo4j-qb/internal"
)

type (
	// Props is a property map for nodes and relationships.
	Props = db.Props
	// PathBuilder accumulates the steps of a multi-hop pattern. See
	// QueryBuilder.Path.
	PathBuilder = internal.PathBuilder
	// CompiledCypher is a rendered query and its parameters.
	CompiledCypher = internal.CompiledCypher
)

var (
	ErrInvalidArgument = internal.ErrInvalidArgument
	ErrInvalidOperator = internal.ErrInvalidOperator
	ErrUnknownModifier = internal.ErrUnknownModifier
	ErrMissingArgument = internal.ErrMissingArgument
	ErrMissingHandler  = internal.ErrMissingHandler
	ErrBindingConflict = internal.ErrBindingConflict
	ErrTxSettled       = internal.ErrTransactionSettled
)
