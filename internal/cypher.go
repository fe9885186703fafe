package internal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

type cypher struct {
	*strings.Builder
	params Bindings
}

func newCypher() *cypher {
	return &cypher{
		Builder: &strings.Builder{},
		params:  Bindings{},
	}
}

func (cy *cypher) operation(kind Kind) (Operation, error) {
	return newOperation(kind, cy.String(), cy.params), nil
}

// writeRaw inlines a pre-rendered fragment and adopts its parameters.
func (cy *cypher) writeRaw(r *Raw) error {
	if err := cy.params.Merge(r.Params); err != nil {
		return err
	}
	cy.WriteString(r.Text)
	return nil
}

// nodePattern ::= "(" [ variable ] [ ":" label ] [ properties ] ")"
func (cy *cypher) writeNode(label string, props Props, alias, prefix string) error {
	cy.WriteString("(")
	if err := cy.writePatternFiller(label, props, alias, prefix); err != nil {
		return err
	}
	cy.WriteString(")")
	return nil
}

// relationshipPattern ::= "<-[" filler "]-" | "-[" filler "]->" | "-[" filler "]-"
func (cy *cypher) writeRelationship(dir Direction, label string, props Props, alias, prefix string) error {
	if dir == DirectionLeft {
		cy.WriteString("<-[")
	} else {
		cy.WriteString("-[")
	}
	if err := cy.writePatternFiller(label, props, alias, prefix); err != nil {
		return err
	}
	if dir == DirectionRight {
		cy.WriteString("]->")
	} else {
		cy.WriteString("]-")
	}
	return nil
}

func (cy *cypher) writePatternFiller(label string, props Props, alias, prefix string) error {
	padProps := false
	if alias = Escape(alias, false); alias != "" {
		padProps = true
		cy.WriteString(alias)
	}
	if label = Escape(label, false); label != "" {
		padProps = true
		cy.WriteString(":" + label)
	}
	encoded, err := Encode(props, prefix, cy.params)
	if err != nil {
		return err
	}
	if encoded != "" {
		if padProps {
			cy.WriteRune(' ')
		}
		cy.WriteString(encoded)
	}
	return nil
}

// Match renders MATCH (alias:label {props}). Property parameters are
// prefixed with the alias.
func Match(label string, props Props, alias string) (Operation, error) {
	cy := newCypher()
	cy.WriteString("MATCH ")
	if err := cy.writeNode(label, props, alias, alias); err != nil {
		return Operation{}, err
	}
	return cy.operation(KindMatch)
}

const (
	OpEq        = "="
	OpNeq       = "<>"
	OpLte       = "<="
	OpGte       = ">="
	OpGt        = ">"
	OpLt        = "<"
	OpIn        = "IN"
	OpIsNull    = "IS NULL"
	OpIsNotNull = "IS NOT NULL"
)

var (
	comparisonOperators = map[string]bool{
		OpEq: true, OpNeq: true, OpLte: true, OpGte: true, OpGt: true, OpLt: true, OpIn: true,
	}
	nullOperators = map[string]bool{OpIsNull: true, OpIsNotNull: true}
	reSpaces      = strings.NewReplacer("\t", " ", "\n", " ")
)

func normalizeOperator(op string) string {
	return strings.Join(strings.Fields(strings.ToUpper(reSpaces.Replace(op))), " ")
}

// Where renders a single boolean condition. It accepts the forms
//
//	Where("p.id", 2)            // p.id = {p_id}
//	Where("p.id", "<>", 2)      // p.id <> {p_id}
//	Where("p.e", nil)           // p.e IS NULL
//	Where("p.e", "IS NOT NULL") // p.e IS NOT NULL
//	Where("p.id", []int{1, 2})  // p.id IN {p_id}
//	Where(raw)                  // raw, verbatim
func Where(property any, args ...any) (Operation, error) {
	var (
		op    string
		value any
	)
	switch len(args) {
	case 0:
		if raw, ok := property.(*Raw); ok {
			cy := newCypher()
			if err := cy.writeRaw(raw); err != nil {
				return Operation{}, err
			}
			return cy.operation(KindWhere)
		}
		return Operation{}, fmt.Errorf("%w: expected a comparison value for %v", ErrInvalidArgument, property)
	case 1:
		if s, ok := args[0].(string); ok && nullOperators[normalizeOperator(s)] {
			op = normalizeOperator(s)
		} else {
			op, value = OpEq, args[0]
		}
	case 2:
		s, ok := args[0].(string)
		if !ok {
			return Operation{}, fmt.Errorf("%w: %v", ErrInvalidOperator, args[0])
		}
		op, value = normalizeOperator(s), args[1]
	default:
		return Operation{}, fmt.Errorf("%w: too many arguments to where", ErrInvalidArgument)
	}

	if !comparisonOperators[op] && !nullOperators[op] {
		return Operation{}, fmt.Errorf("%w: %q", ErrInvalidOperator, op)
	}
	_, valueIsRaw := value.(*Raw)
	switch {
	case op == OpEq && isNil(value):
		op = OpIsNull
	case op == OpNeq && isNil(value):
		op = OpIsNotNull
	case op == OpEq && isList(value):
		op = OpIn
	}
	if op == OpIn && !isList(value) && !valueIsRaw {
		return Operation{}, fmt.Errorf("%w: expected a list for operator %q, got %T", ErrInvalidOperator, OpIn, value)
	}
	if comparisonOperators[op] && isNil(value) {
		return Operation{}, fmt.Errorf("%w: expected a comparison value for operator %q", ErrInvalidArgument, op)
	}

	cy := newCypher()
	var key string
	switch p := property.(type) {
	case *Raw:
		if err := cy.writeRaw(p); err != nil {
			return Operation{}, err
		}
		key = Escape(p.Text, true)
	case string:
		accessor := Escape(p, false)
		if accessor == "" {
			return Operation{}, fmt.Errorf("%w: where requires a property", ErrMissingArgument)
		}
		cy.WriteString(accessor)
		key = Escape(p, true)
	default:
		return Operation{}, fmt.Errorf("%w: unsupported where property %T", ErrInvalidArgument, property)
	}
	if key == "" {
		key = "where"
	}
	cy.WriteString(" " + op)
	if nullOperators[op] {
		return cy.operation(KindWhere)
	}
	cy.WriteRune(' ')
	if valueIsRaw {
		if err := cy.writeRaw(value.(*Raw)); err != nil {
			return Operation{}, err
		}
	} else {
		if err := cy.params.Bind(key, value); err != nil {
			return Operation{}, err
		}
		cy.WriteString(placeholder(key))
	}
	return cy.operation(KindWhere)
}

var orderDirections = map[string]bool{
	"ASC": true, "DESC": true, "ASCENDING": true, "DESCENDING": true,
}

// Order renders ORDER BY prop DIR. The direction defaults to ASC.
func Order(property any, direction ...string) (Operation, error) {
	dir := "ASC"
	if len(direction) > 0 && strings.TrimSpace(direction[0]) != "" {
		dir = strings.ToUpper(strings.TrimSpace(direction[0]))
	}
	if !orderDirections[dir] {
		return Operation{}, fmt.Errorf("%w: order direction %q", ErrInvalidArgument, dir)
	}
	cy := newCypher()
	cy.WriteString("ORDER BY ")
	switch p := property.(type) {
	case *Raw:
		if err := cy.writeRaw(p); err != nil {
			return Operation{}, err
		}
	case string:
		accessor := Escape(p, false)
		if accessor == "" {
			return Operation{}, fmt.Errorf("%w: order requires a property", ErrMissingArgument)
		}
		cy.WriteString(accessor)
	default:
		return Operation{}, fmt.Errorf("%w: unsupported order property %T", ErrInvalidArgument, property)
	}
	cy.WriteString(" " + dir)
	return cy.operation(KindOrder)
}

func Limit(n any) (Operation, error) {
	return count(KindLimit, "LIMIT", n)
}

func Skip(n any) (Operation, error) {
	return count(KindSkip, "SKIP", n)
}

func count(kind Kind, clause string, n any) (Operation, error) {
	if _, isBool := n.(bool); isBool || isNil(n) {
		return Operation{}, fmt.Errorf("%w: %s value %v", ErrInvalidArgument, clause, n)
	}
	var (
		i   int64
		err error
	)
	if s, isString := n.(string); isString {
		// decimal only: "010" is ten
		i, err = strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	} else {
		i, err = cast.ToInt64E(n)
	}
	if err != nil {
		return Operation{}, fmt.Errorf("%w: %s value %v: %w", ErrInvalidArgument, clause, n, err)
	}
	if i < 0 {
		return Operation{}, fmt.Errorf("%w: negative %s value %d", ErrInvalidArgument, clause, i)
	}
	cy := newCypher()
	fmt.Fprintf(cy, "%s %d", clause, i)
	return cy.operation(kind)
}

const (
	ModifierMax      = "MAX"
	ModifierDistinct = "DISTINCT"
)

// Return renders RETURN v1 [AS a1], ... values, modifiers and aliases may each
// be a single value or a slice; they are matched up by position.
func Return(values, modifiers, aliases any) (Operation, error) {
	return projection(KindReturn, "RETURN", values, modifiers, aliases)
}

// With renders WITH v1 [AS a1], ...
func With(values, aliases any) (Operation, error) {
	return projection(KindWith, "WITH", values, nil, aliases)
}

func projection(kind Kind, clause string, values, modifiers, aliases any) (Operation, error) {
	vals := toList(values)
	if len(vals) == 0 {
		return Operation{}, fmt.Errorf("%w: %s requires at least one value", ErrMissingArgument, clause)
	}
	mods, as := toList(modifiers), toList(aliases)
	cy := newCypher()
	cy.WriteString(clause + " ")
	for i, v := range vals {
		if i > 0 {
			cy.WriteString(", ")
		}
		var item string
		switch vv := v.(type) {
		case *Raw:
			if err := cy.params.Merge(vv.Params); err != nil {
				return Operation{}, err
			}
			item = vv.Text
		case string:
			item = Escape(vv, false)
		default:
			return Operation{}, fmt.Errorf("%w: unsupported %s value %T", ErrInvalidArgument, clause, v)
		}
		if i < len(mods) && !isNil(mods[i]) {
			modifier, ok := mods[i].(string)
			if !ok {
				return Operation{}, fmt.Errorf("%w: %v", ErrUnknownModifier, mods[i])
			}
			switch strings.ToUpper(strings.TrimSpace(modifier)) {
			case "":
			case ModifierMax:
				item = "max(" + item + ")"
			case ModifierDistinct:
				item = "DISTINCT " + item
			default:
				return Operation{}, fmt.Errorf("%w: %q", ErrUnknownModifier, modifier)
			}
		}
		cy.WriteString(item)
		if i < len(as) && !isNil(as[i]) {
			alias := Escape(cast.ToString(as[i]), false)
			if alias != "" {
				cy.WriteString(" AS " + alias)
			}
		}
	}
	return cy.operation(kind)
}

// Delete renders [DETACH ]DELETE alias.
func Delete(alias string, detach bool) (Operation, error) {
	alias = Escape(alias, false)
	if alias == "" {
		return Operation{}, fmt.Errorf("%w: delete requires a variable", ErrMissingArgument)
	}
	cy := newCypher()
	if detach {
		cy.WriteString("DETACH ")
	}
	cy.WriteString("DELETE " + alias)
	return cy.operation(KindDelete)
}

func Union(all bool) Operation {
	if all {
		return newOperation(KindUnion, "UNION ALL", nil)
	}
	return newOperation(KindUnion, "UNION", nil)
}
