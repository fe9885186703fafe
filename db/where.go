package db

import "github.com/SebastianOsuna/neo4j-qb/internal"

// Comparison operators accepted by Where. Operators are matched
// case-insensitively.
const (
	Eq        = internal.OpEq
	Neq       = internal.OpNeq
	Lt        = internal.OpLt
	Lte       = internal.OpLte
	Gt        = internal.OpGt
	Gte       = internal.OpGte
	In        = internal.OpIn
	IsNull    = internal.OpIsNull
	IsNotNull = internal.OpIsNotNull
)

// Asc and Desc are the directions accepted by Order.
const (
	Asc  = "ASC"
	Desc = "DESC"
)
