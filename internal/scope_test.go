package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustOp(t *testing.T) func(Operation, error) Operation {
	return func(op Operation, err error) Operation {
		t.Helper()
		require.NoError(t, err)
		return op
	}
}

func TestScopeCompile(t *testing.T) {
	must := mustOp(t)

	t.Run("limit moves to the end and wheres are conjoined", func(t *testing.T) {
		s := NewScope()
		s.Add(must(Match("Lab", nil, "p")))
		s.Add(must(Limit(10)))
		s.Add(must(Where("p.id", 2)))
		s.Add(must(Where("p.e", nil)))
		s.Add(must(Return("p", nil, nil)))

		cy, err := s.Compile(false)
		require.NoError(t, err)
		require.Equal(t, "MATCH (p:Lab) WHERE p.id = {p_id} AND p.e IS NULL RETURN p LIMIT 10", cy.Cypher)
		require.Equal(t, map[string]any{"p_id": 2}, cy.Parameters)
		require.False(t, cy.IsWrite)
		require.Nil(t, s.Params())
	})

	t.Run("a non-where operation ends the conjunction", func(t *testing.T) {
		s := NewScope()
		s.Add(must(Match("", nil, "a")))
		s.Add(must(Where("a.x", 1)))
		s.Add(must(With("a", nil)))
		s.Add(must(Where("a.y", 2)))

		cy, err := s.Compile(false)
		require.NoError(t, err)
		require.Equal(t, "MATCH (a) WHERE a.x = {a_x} WITH a WHERE a.y = {a_y}", cy.Cypher)
	})

	t.Run("several limits keep their relative order", func(t *testing.T) {
		s := NewScope()
		s.Add(must(Limit(1)))
		s.Add(must(Match("", nil, "n")))
		s.Add(must(Limit(2)))
		s.Add(must(Return("n", nil, nil)))

		cy, err := s.Compile(false)
		require.NoError(t, err)
		require.Equal(t, "MATCH (n) RETURN n LIMIT 1 LIMIT 2", cy.Cypher)
	})

	t.Run("run attaches parameters", func(t *testing.T) {
		s := NewScope()
		s.Add(must(Insert(Props{"id": 1}, "Lab")))

		cy, err := s.Compile(true)
		require.NoError(t, err)
		require.True(t, cy.IsWrite)
		require.Equal(t, map[string]any{"id": 1}, s.Params())
		require.Len(t, s.Operations(), 1)
	})

	t.Run("conflicting bindings across operations", func(t *testing.T) {
		s := NewScope()
		s.Add(must(Where("p.id", 1)))
		s.Add(must(Where("p.id", "<>", 2)))

		_, err := s.Compile(false)
		require.ErrorIs(t, err, ErrBindingConflict)
	})

	t.Run("recorded errors fail compilation", func(t *testing.T) {
		s := NewScope()
		_, err := Limit("ten")
		s.AddError(err)
		_, err = Where("p.id", "~", 1)
		s.AddError(err)

		_, err = s.Compile(false)
		require.ErrorIs(t, err, ErrInvalidArgument)
		require.ErrorIs(t, err, ErrInvalidOperator)
	})

	t.Run("reset", func(t *testing.T) {
		s := NewScope()
		s.Add(must(Match("", nil, "n")))
		s.AddError(ErrMissingArgument)
		_, _ = s.Compile(true)
		s.Reset()

		require.Empty(t, s.Operations())
		require.NoError(t, s.Err())
		require.Nil(t, s.Params())
		cy, err := s.Compile(false)
		require.NoError(t, err)
		require.Empty(t, cy.Cypher)
	})
}
