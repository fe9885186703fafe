package neoqb

import (
	"context"

	"github.com/SebastianOsuna/neo4j-qb/db"
)

// QueryScope is the surface shared by QueryBuilder and Tx. B is the concrete
// builder returned by chainable calls.
type QueryScope[B any] interface {
	Clauses[B]
	Terminals

	// ToCypher compiles the pending operations without executing them.
	ToCypher() (string, error)
	// Compile compiles the pending operations. When run is set the merged
	// parameters are attached to the scope and returned by Params.
	Compile(run bool) (*CompiledCypher, error)
	Params() map[string]any
	// Err reports the construction errors recorded since the last reset.
	Err() error
}

type Clauses[B any] interface {
	Find(opts ...db.PatternOption) B
	Match(opts ...db.PatternOption) B

	// Where adds a condition. Consecutive conditions are joined with AND.
	//
	//	Where("p.id", 2)            // WHERE p.id = {p_id}
	//	Where("p.age", ">", 18)     // WHERE p.age > {p_age}
	//	Where("p.e", nil)           // WHERE p.e IS NULL
	//	Where("p.id", []int{1, 2})  // WHERE p.id IN {p_id}
	//	Where(db.Raw("exists(p.x)")) // WHERE exists(p.x)
	Where(property any, args ...any) B
	WhereNull(property string) B
	WhereNotNull(property string) B
	WhereIn(property string, values any) B

	// Order adds ORDER BY. direction defaults to ASC.
	Order(property any, direction ...string) B
	// Limit adds LIMIT n. Limits are always emitted at the end of the query.
	Limit(n any) B
	Skip(n any) B

	// Path adds a MATCH built from a multi-hop pattern.
	Path(build func(p *PathBuilder)) B
	With(values any, opts ...db.ProjectionOption) B
	Return(values any, opts ...db.ProjectionOption) B
	Union() B
	UnionAll() B
	// Raw appends a fragment verbatim.
	Raw(cypher string, params ...map[string]any) B
	Reset() B
}

// Terminals compile the pending operations, run them and reset the scope
// whatever the outcome.
type Terminals interface {
	Exec(ctx context.Context) (*Response, error)
	// ExecCompiled runs a query compiled elsewhere, such as by Compile or a
	// plan, instead of the pending operations. IsWrite selects the session
	// access mode.
	ExecCompiled(ctx context.Context, cy *CompiledCypher) (*Response, error)
	Fetch(ctx context.Context, values any, opts ...db.ProjectionOption) (*Response, error)

	// Insert creates a node and returns it as n.
	Insert(ctx context.Context, props db.Props, label string) (*Response, error)
	// Upsert merges a node on match and sets the remaining props on both
	// create and match.
	Upsert(ctx context.Context, props, match db.Props, label string) (*Response, error)
	// Relate merges a relationship from the variable from to the variable
	// to, both bound by earlier clauses.
	Relate(ctx context.Context, label, to, from string, opts ...db.RelateOption) (*Response, error)
	Del(ctx context.Context, alias string) (*Response, error)
	DetachDel(ctx context.Context, alias string) (*Response, error)

	IndexOn(ctx context.Context, label, property string) (*Response, error)
	DropIndex(ctx context.Context, label, property string) (*Response, error)
	Unique(ctx context.Context, label, property string) (*Response, error)
	DropUnique(ctx context.Context, label, property string) (*Response, error)
}

var (
	_ QueryScope[*QueryBuilder] = (*QueryBuilder)(nil)
	_ QueryScope[*Tx]           = (*Tx)(nil)
)
