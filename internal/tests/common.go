package tests

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SebastianOsuna/neo4j-qb/internal"
)

func canon(cypher string) string {
	return strings.Join(strings.Fields(cypher), " ")
}

// compile adds every operation to a fresh scope and compiles it.
func compile(t *testing.T, ops ...func() (internal.Operation, error)) (*internal.CompiledCypher, error) {
	t.Helper()
	s := internal.NewScope()
	for _, op := range ops {
		o, err := op()
		if err != nil {
			s.AddError(err)
			continue
		}
		s.Add(o)
	}
	return s.Compile(false)
}

func check(t *testing.T, cy *internal.CompiledCypher, err error, want internal.CompiledCypher) {
	t.Helper()
	require.NoError(t, err)
	want.Cypher = canon(want.Cypher)
	if want.Parameters == nil {
		want.Parameters = map[string]any{}
	}
	require.Equal(t, want.Cypher, cy.Cypher)
	require.Equal(t, want.Parameters, cy.Parameters)
	require.Equal(t, want.IsWrite, cy.IsWrite)
}

func match(label string, props internal.Props, alias string) func() (internal.Operation, error) {
	return func() (internal.Operation, error) { return internal.Match(label, props, alias) }
}

func where(property any, args ...any) func() (internal.Operation, error) {
	return func() (internal.Operation, error) { return internal.Where(property, args...) }
}

func ret(values, modifiers, aliases any) func() (internal.Operation, error) {
	return func() (internal.Operation, error) { return internal.Return(values, modifiers, aliases) }
}

func with(values, aliases any) func() (internal.Operation, error) {
	return func() (internal.Operation, error) { return internal.With(values, aliases) }
}

func limit(n any) func() (internal.Operation, error) {
	return func() (internal.Operation, error) { return internal.Limit(n) }
}

func skip(n any) func() (internal.Operation, error) {
	return func() (internal.Operation, error) { return internal.Skip(n) }
}

func order(property any, direction ...string) func() (internal.Operation, error) {
	return func() (internal.Operation, error) { return internal.Order(property, direction...) }
}

func raw(text string, params map[string]any) func() (internal.Operation, error) {
	return func() (internal.Operation, error) { return internal.NewRaw(text, params).Operation(), nil }
}
