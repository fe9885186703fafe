package neoqb

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"time"

	"github.com/goccy/go-json"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/SebastianOsuna/neo4j-qb/db"
	"github.com/SebastianOsuna/neo4j-qb/internal"
)

type (
	// runner executes a compiled query against a session or a transaction.
	runner interface {
		run(ctx context.Context, cy *internal.CompiledCypher) (*Response, error)
	}
	// chain implements the clause accumulation shared by QueryBuilder and
	// Tx. Chainable calls return self.
	chain[B any] struct {
		self   B
		scope  *internal.Scope
		runner runner
	}
)

func newChain[B any](self B, r runner) chain[B] {
	return chain[B]{
		self:   self,
		scope:  internal.NewScope(),
		runner: r,
	}
}

func (c *chain[B]) add(op internal.Operation, err error) B {
	if err != nil {
		c.scope.AddError(err)
	} else {
		c.scope.Add(op)
	}
	return c.self
}

func (c *chain[B]) Find(opts ...db.PatternOption) B {
	p := internal.NewPattern(opts...)
	return c.add(internal.Match(p.Label, p.Props, p.Alias))
}

func (c *chain[B]) Match(opts ...db.PatternOption) B {
	return c.Find(opts...)
}

func (c *chain[B]) Where(property any, args ...any) B {
	return c.add(internal.Where(property, args...))
}

func (c *chain[B]) WhereNull(property string) B {
	return c.Where(property, internal.OpIsNull)
}

func (c *chain[B]) WhereNotNull(property string) B {
	return c.Where(property, internal.OpIsNotNull)
}

func (c *chain[B]) WhereIn(property string, values any) B {
	return c.Where(property, internal.OpIn, values)
}

func (c *chain[B]) Order(property any, direction ...string) B {
	return c.add(internal.Order(property, direction...))
}

func (c *chain[B]) Limit(n any) B {
	return c.add(internal.Limit(n))
}

func (c *chain[B]) Skip(n any) B {
	return c.add(internal.Skip(n))
}

func (c *chain[B]) Path(build func(p *PathBuilder)) B {
	p := internal.NewPathBuilder()
	if build != nil {
		build(p)
	}
	return c.add(p.Render())
}

func (c *chain[B]) With(values any, opts ...db.ProjectionOption) B {
	p := internal.NewProjection(opts...)
	return c.add(internal.With(values, p.Aliases))
}

func (c *chain[B]) Return(values any, opts ...db.ProjectionOption) B {
	p := internal.NewProjection(opts...)
	return c.add(internal.Return(values, p.Modifiers, p.Aliases))
}

func (c *chain[B]) Union() B {
	return c.add(internal.Union(false), nil)
}

func (c *chain[B]) UnionAll() B {
	return c.add(internal.Union(true), nil)
}

func (c *chain[B]) Raw(cypher string, params ...map[string]any) B {
	return c.add(db.Raw(cypher, params...).Operation(), nil)
}

func (c *chain[B]) Reset() B {
	c.scope.Reset()
	return c.self
}

func (c *chain[B]) ToCypher() (string, error) {
	cy, err := c.scope.Compile(false)
	if err != nil {
		return "", err
	}
	return cy.Cypher, nil
}

func (c *chain[B]) Compile(run bool) (*CompiledCypher, error) {
	return c.scope.Compile(run)
}

func (c *chain[B]) Params() map[string]any { return c.scope.Params() }

func (c *chain[B]) Err() error { return c.scope.Err() }

func (c *chain[B]) Exec(ctx context.Context) (*Response, error) {
	defer c.scope.Reset()
	cy, err := c.scope.Compile(true)
	if err != nil {
		return nil, err
	}
	return c.runner.run(ctx, cy)
}

func (c *chain[B]) ExecCompiled(ctx context.Context, cy *CompiledCypher) (*Response, error) {
	defer c.scope.Reset()
	if cy == nil {
		return nil, fmt.Errorf("%w: no compiled query", internal.ErrMissingArgument)
	}
	return c.runner.run(ctx, cy)
}

func (c *chain[B]) terminal(ctx context.Context, op internal.Operation, err error) (*Response, error) {
	c.add(op, err)
	return c.Exec(ctx)
}

func (c *chain[B]) Fetch(ctx context.Context, values any, opts ...db.ProjectionOption) (*Response, error) {
	c.Return(values, opts...)
	return c.Exec(ctx)
}

func (c *chain[B]) Insert(ctx context.Context, props db.Props, label string) (*Response, error) {
	op, err := internal.Insert(props, label)
	return c.terminal(ctx, op, err)
}

func (c *chain[B]) Upsert(ctx context.Context, props, match db.Props, label string) (*Response, error) {
	op, err := internal.Upsert(props, match, label)
	return c.terminal(ctx, op, err)
}

func (c *chain[B]) Relate(ctx context.Context, label, to, from string, opts ...db.RelateOption) (*Response, error) {
	r := internal.NewRelateOptions(opts...)
	op, err := internal.Relate(label, to, from, r.Props, r.Modifiers)
	return c.terminal(ctx, op, err)
}

func (c *chain[B]) Del(ctx context.Context, alias string) (*Response, error) {
	op, err := internal.Delete(alias, false)
	return c.terminal(ctx, op, err)
}

func (c *chain[B]) DetachDel(ctx context.Context, alias string) (*Response, error) {
	op, err := internal.Delete(alias, true)
	return c.terminal(ctx, op, err)
}

func (c *chain[B]) IndexOn(ctx context.Context, label, property string) (*Response, error) {
	op, err := internal.CreateIndex(label, property)
	return c.terminal(ctx, op, err)
}

func (c *chain[B]) DropIndex(ctx context.Context, label, property string) (*Response, error) {
	op, err := internal.DropIndex(label, property)
	return c.terminal(ctx, op, err)
}

func (c *chain[B]) Unique(ctx context.Context, label, property string) (*Response, error) {
	op, err := internal.CreateUnique(label, property)
	return c.terminal(ctx, op, err)
}

func (c *chain[B]) DropUnique(ctx context.Context, label, property string) (*Response, error) {
	op, err := internal.DropUnique(label, property)
	return c.terminal(ctx, op, err)
}

type (
	// executor runs compiled queries with logging and telemetry. txID is
	// empty outside explicit transactions.
	executor struct {
		logger *slog.Logger
		obs    *instruments
		txID   string
	}
	runFunc func(ctx context.Context, cypher string, params map[string]any) (neo4j.ResultWithContext, error)
)

func (e *executor) execute(ctx context.Context, cy *internal.CompiledCypher, run runFunc) (resp *Response, err error) {
	params, err := canonicalizeParams(cy.Parameters)
	if err != nil {
		return nil, err
	}
	ctx, span := e.obs.start(ctx, cy, e.txID)
	defer func() {
		records := 0
		if resp != nil {
			records = len(resp.Records)
		}
		e.obs.finish(ctx, span, records, err)
	}()

	e.logger.DebugContext(ctx, "running query", "cypher", cy.Cypher, "params", len(params))
	result, err := run(ctx, cy.Cypher, params)
	if err != nil {
		e.logger.ErrorContext(ctx, "query failed", "cypher", cy.Cypher, "error", err)
		return nil, err
	}
	records, err := result.Collect(ctx)
	if err != nil {
		e.logger.ErrorContext(ctx, "collecting results failed", "cypher", cy.Cypher, "error", err)
		return nil, err
	}
	return newResponse(records), nil
}

// canonicalizeParams converts user-defined structs, maps and slices of them
// into the plain map[string]any / []any values the driver accepts. Scalars,
// types the driver encodes natively (time.Time, temporal and spatial values)
// and slices of either are passed through unchanged.
func canonicalizeParams(params map[string]any) (map[string]any, error) {
	canon := make(map[string]any, len(params))
	for k, v := range params {
		cv, err := canonicalize(v)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", k, err)
		}
		canon[k] = cv
	}
	return canon, nil
}

var nativeTypes = map[reflect.Type]bool{
	reflect.TypeOf(time.Time{}):            true,
	reflect.TypeOf(dbtype.Date{}):          true,
	reflect.TypeOf(dbtype.LocalTime{}):     true,
	reflect.TypeOf(dbtype.LocalDateTime{}): true,
	reflect.TypeOf(dbtype.Time{}):          true,
	reflect.TypeOf(dbtype.Duration{}):      true,
	reflect.TypeOf(dbtype.Point2D{}):       true,
	reflect.TypeOf(dbtype.Point3D{}):       true,
	reflect.TypeOf(dbtype.Node{}):          true,
	reflect.TypeOf(dbtype.Relationship{}):  true,
}

// isNative reports whether the driver encodes values of t without help.
func isNative(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return nativeTypes[t] || isScalarKind(t.Kind())
}

func canonicalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	rv := internal.UnwindValue(reflect.ValueOf(v))
	if !rv.IsValid() || isNative(rv.Type()) {
		return v, nil
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if isNative(rv.Type().Elem()) {
			return v, nil
		}
		list := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			cv, err := canonicalize(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			list[i] = cv
		}
		return list, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return roundTrip(v)
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			cv, err := canonicalize(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			m[iter.Key().String()] = cv
		}
		return m, nil
	case reflect.Struct:
		return roundTrip(v)
	}
	return v, nil
}

func isScalarKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// roundTrip encodes a user-defined value with its json tags and decodes it
// back into plain maps and lists.
func roundTrip(v any) (any, error) {
	bytes, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(bytes, &out); err != nil {
		return nil, err
	}
	return normalizeNumbers(out), nil
}

// normalizeNumbers turns integral float64 values produced by decoding back
// into int64. A list is converted only when every number in it is
// integral, so lists stay homogeneous.
func normalizeNumbers(v any) any {
	switch vv := v.(type) {
	case float64:
		if isIntegral(vv) {
			return int64(vv)
		}
	case map[string]any:
		for k, e := range vv {
			vv[k] = normalizeNumbers(e)
		}
	case []any:
		integral := true
		for _, e := range vv {
			if f, ok := e.(float64); ok && !isIntegral(f) {
				integral = false
				break
			}
		}
		for i, e := range vv {
			if _, isFloat := e.(float64); isFloat && !integral {
				continue
			}
			vv[i] = normalizeNumbers(e)
		}
	}
	return v
}

func isIntegral(f float64) bool {
	return f == math.Trunc(f) && math.Abs(f) < 1<<63
}
