package plan

import (
	"fmt"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/SebastianOsuna/neo4j-qb/internal"
)

type handler func(args *yaml.Node) (internal.Operation, error)

var handlers map[string]handler

func init() {
	handlers = map[string]handler{
		"find":           find,
		"where":          where,
		"where_null":     whereNull(internal.OpIsNull),
		"where_not_null": whereNull(internal.OpIsNotNull),
		"where_in":       whereIn,
		"order":          order,
		"limit":          func(args *yaml.Node) (internal.Operation, error) { return count(args, internal.Limit) },
		"skip":           func(args *yaml.Node) (internal.Operation, error) { return count(args, internal.Skip) },
		"with":           with,
		"return":         ret,
		"union":          union(false),
		"union_all":      union(true),
		"path":           path,
		"raw":            raw,
		"insert":         insert,
		"upsert":         upsert,
		"relate":         relate,
		"delete":         del(false),
		"detach_delete":  del(true),
		"index_on":       schema(internal.CreateIndex),
		"drop_index":     schema(internal.DropIndex),
		"unique":         schema(internal.CreateUnique),
		"drop_unique":    schema(internal.DropUnique),
	}
}

func apply(scope *internal.Scope, step Step) error {
	h, ok := handlers[step.Name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStep, step.Name)
	}
	op, err := h(&step.Args)
	if err != nil {
		return err
	}
	scope.Add(op)
	return nil
}

func isEmpty(n *yaml.Node) bool {
	return n.Kind == 0 || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

// decode leaves into untouched for a step without arguments.
func decode(n *yaml.Node, into any) error {
	if n.Kind == 0 {
		return nil
	}
	if err := n.Decode(into); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidStep, err)
	}
	return nil
}

func sequence(n *yaml.Node, least, most int) ([]any, error) {
	var items []any
	if err := decode(n, &items); err != nil {
		return nil, err
	}
	if len(items) < least || len(items) > most {
		return nil, fmt.Errorf("%w: expected %d to %d items, got %d", ErrInvalidStep, least, most, len(items))
	}
	return items, nil
}

// stringList accepts a scalar or a sequence of scalars.
func stringList(n *yaml.Node) ([]string, error) {
	if isEmpty(n) {
		return nil, nil
	}
	var items []any
	if n.Kind == yaml.ScalarNode {
		items = []any{n.Value}
	} else if err := decode(n, &items); err != nil {
		return nil, err
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, err := cast.ToStringE(item)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidStep, err)
		}
		out[i] = s
	}
	return out, nil
}

type patternArgs struct {
	Label string         `yaml:"label"`
	Alias string         `yaml:"alias"`
	Props internal.Props `yaml:"props"`
}

// pattern accepts a mapping or a bare alias.
func pattern(n *yaml.Node) (patternArgs, error) {
	var p patternArgs
	switch {
	case isEmpty(n):
	case n.Kind == yaml.ScalarNode:
		p.Alias = n.Value
	default:
		if err := decode(n, &p); err != nil {
			return p, err
		}
	}
	return p, nil
}

func (p patternArgs) options() []internal.PatternOption {
	return []internal.PatternOption{
		internal.Label(p.Label),
		internal.Alias(p.Alias),
		p.Props,
	}
}

func find(args *yaml.Node) (internal.Operation, error) {
	p, err := pattern(args)
	if err != nil {
		return internal.Operation{}, err
	}
	return internal.Match(p.Label, p.Props, p.Alias)
}

type whereArgs struct {
	Property string         `yaml:"property"`
	Op       string         `yaml:"op"`
	Value    any            `yaml:"value"`
	Raw      string         `yaml:"raw"`
	Params   map[string]any `yaml:"params"`
}

// where accepts a raw condition, [property, value], [property, op, value]
// or a mapping.
func where(args *yaml.Node) (internal.Operation, error) {
	switch {
	case isEmpty(args):
	case args.Kind == yaml.ScalarNode:
		return internal.Where(internal.NewRaw(args.Value, nil))
	case args.Kind == yaml.SequenceNode:
		items, err := sequence(args, 2, 3)
		if err != nil {
			return internal.Operation{}, err
		}
		property := cast.ToString(items[0])
		if len(items) == 2 {
			return internal.Where(property, items[1])
		}
		op, err := cast.ToStringE(items[1])
		if err != nil {
			return internal.Operation{}, fmt.Errorf("%w: %v", internal.ErrInvalidOperator, items[1])
		}
		return internal.Where(property, op, items[2])
	case args.Kind == yaml.MappingNode:
		var w whereArgs
		if err := decode(args, &w); err != nil {
			return internal.Operation{}, err
		}
		if w.Raw != "" {
			return internal.Where(internal.NewRaw(w.Raw, w.Params))
		}
		if w.Op == "" {
			return internal.Where(w.Property, w.Value)
		}
		return internal.Where(w.Property, w.Op, w.Value)
	}
	return internal.Operation{}, fmt.Errorf("%w: where requires a condition", internal.ErrMissingArgument)
}

func whereNull(op string) handler {
	return func(args *yaml.Node) (internal.Operation, error) {
		var property string
		if err := decode(args, &property); err != nil {
			return internal.Operation{}, err
		}
		return internal.Where(property, op)
	}
}

type inArgs struct {
	Property string `yaml:"property"`
	Values   []any  `yaml:"values"`
}

func whereIn(args *yaml.Node) (internal.Operation, error) {
	var in inArgs
	if args.Kind == yaml.SequenceNode {
		items, err := sequence(args, 2, 2)
		if err != nil {
			return internal.Operation{}, err
		}
		in.Property = cast.ToString(items[0])
		values, err := cast.ToSliceE(items[1])
		if err != nil {
			return internal.Operation{}, fmt.Errorf("%w: %w", internal.ErrInvalidArgument, err)
		}
		in.Values = values
	} else if err := decode(args, &in); err != nil {
		return internal.Operation{}, err
	}
	if in.Values == nil {
		in.Values = []any{}
	}
	return internal.Where(in.Property, internal.OpIn, in.Values)
}

// order accepts `p.name` or `[p.name, desc]`.
func order(args *yaml.Node) (internal.Operation, error) {
	items, err := stringList(args)
	if err != nil {
		return internal.Operation{}, err
	}
	switch len(items) {
	case 1:
		return internal.Order(items[0])
	case 2:
		return internal.Order(items[0], items[1])
	}
	return internal.Operation{}, fmt.Errorf("%w: order expects a property and an optional direction", internal.ErrInvalidArgument)
}

func count(args *yaml.Node, build func(any) (internal.Operation, error)) (internal.Operation, error) {
	var n any
	if err := decode(args, &n); err != nil {
		return internal.Operation{}, err
	}
	return build(n)
}

type projectionArgs struct {
	Values    yaml.Node `yaml:"values"`
	Modifiers []string  `yaml:"modifiers"`
	Aliases   []string  `yaml:"aliases"`
}

// projection accepts a value, a list of values or a mapping with values,
// modifiers and aliases.
func projection(args *yaml.Node) ([]string, projectionArgs, error) {
	var p projectionArgs
	if args.Kind != yaml.MappingNode {
		values, err := stringList(args)
		return values, p, err
	}
	if err := decode(args, &p); err != nil {
		return nil, p, err
	}
	values, err := stringList(&p.Values)
	return values, p, err
}

func with(args *yaml.Node) (internal.Operation, error) {
	values, p, err := projection(args)
	if err != nil {
		return internal.Operation{}, err
	}
	return internal.With(values, p.Aliases)
}

func ret(args *yaml.Node) (internal.Operation, error) {
	values, p, err := projection(args)
	if err != nil {
		return internal.Operation{}, err
	}
	return internal.Return(values, p.Modifiers, p.Aliases)
}

func union(all bool) handler {
	return func(*yaml.Node) (internal.Operation, error) {
		return internal.Union(all), nil
	}
}

// path accepts a sequence of node, rel, rrel and lrel steps.
func path(args *yaml.Node) (internal.Operation, error) {
	var steps []Step
	if err := decode(args, &steps); err != nil {
		return internal.Operation{}, err
	}
	pb := internal.NewPathBuilder()
	for i, step := range steps {
		p, err := pattern(&step.Args)
		if err != nil {
			return internal.Operation{}, err
		}
		switch step.Name {
		case "node":
			pb.Node(p.options()...)
		case "rel":
			pb.Rel(p.options()...)
		case "rrel":
			pb.RRel(p.options()...)
		case "lrel":
			pb.LRel(p.options()...)
		default:
			return internal.Operation{}, fmt.Errorf("%w: path element %d: %q", ErrUnknownStep, i+1, step.Name)
		}
	}
	return pb.Render()
}

type rawArgs struct {
	Cypher string         `yaml:"cypher"`
	Params map[string]any `yaml:"params"`
}

func raw(args *yaml.Node) (internal.Operation, error) {
	var r rawArgs
	if args.Kind == yaml.ScalarNode {
		r.Cypher = args.Value
	} else if err := decode(args, &r); err != nil {
		return internal.Operation{}, err
	}
	if r.Cypher == "" {
		return internal.Operation{}, fmt.Errorf("%w: raw requires cypher", internal.ErrMissingArgument)
	}
	return internal.NewRaw(r.Cypher, r.Params).Operation(), nil
}

type mutationArgs struct {
	Label     string            `yaml:"label"`
	Props     internal.Props    `yaml:"props"`
	Match     internal.Props    `yaml:"match"`
	From      string            `yaml:"from"`
	To        string            `yaml:"to"`
	Modifiers map[string]string `yaml:"modifiers"`
}

func mutation(args *yaml.Node) (mutationArgs, error) {
	var m mutationArgs
	err := decode(args, &m)
	return m, err
}

func insert(args *yaml.Node) (internal.Operation, error) {
	m, err := mutation(args)
	if err != nil {
		return internal.Operation{}, err
	}
	return internal.Insert(m.Props, m.Label)
}

func upsert(args *yaml.Node) (internal.Operation, error) {
	m, err := mutation(args)
	if err != nil {
		return internal.Operation{}, err
	}
	return internal.Upsert(m.Props, m.Match, m.Label)
}

func relate(args *yaml.Node) (internal.Operation, error) {
	m, err := mutation(args)
	if err != nil {
		return internal.Operation{}, err
	}
	return internal.Relate(m.Label, m.To, m.From, m.Props, m.Modifiers)
}

type deleteArgs struct {
	Alias  string `yaml:"alias"`
	Detach bool   `yaml:"detach"`
}

func del(detach bool) handler {
	return func(args *yaml.Node) (internal.Operation, error) {
		d := deleteArgs{Detach: detach}
		if args.Kind == yaml.ScalarNode {
			d.Alias = args.Value
		} else if err := decode(args, &d); err != nil {
			return internal.Operation{}, err
		}
		return internal.Delete(d.Alias, d.Detach)
	}
}

type schemaArgs struct {
	Label    string `yaml:"label"`
	Property string `yaml:"property"`
}

func schema(build func(label, property string) (internal.Operation, error)) handler {
	return func(args *yaml.Node) (internal.Operation, error) {
		var s schemaArgs
		if err := decode(args, &s); err != nil {
			return internal.Operation{}, err
		}
		return build(s.Label, s.Property)
	}
}
