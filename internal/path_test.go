package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPathBuilder(t *testing.T) {
	t.Run("node, undirected relationship, node", func(t *testing.T) {
		p := NewPathBuilder()
		op, err := p.Node(Label("Lab"), Props{"id": 1}, Alias("l")).Rel().Node().Render()
		require.NoError(t, err)
		require.Equal(t, KindMatch, op.Kind)
		require.Equal(t, "MATCH (l:Lab {id: {lid}})-[]-()", op.Text)
		require.Equal(t, map[string]any{"lid": 1}, op.Params)
		require.Empty(t, p.Steps())
	})

	t.Run("directions", func(t *testing.T) {
		op, err := NewPathBuilder().
			Node(Alias("a")).
			RRel(Label("KNOWS"), Alias("k"), Props{"since": 2001}).
			Node(Alias("b")).
			LRel(Label("OWNS")).
			Node(Label("Car"), Alias("c"), Props{"since": 2001}).
			Render()
		require.NoError(t, err)
		require.Equal(t, "MATCH (a)-[k:KNOWS {since: {ksince}}]->(b)<-[:OWNS]-(c:Car {since: {csince}})", op.Text)
		require.Equal(t, map[string]any{"ksince": 2001, "csince": 2001}, op.Params)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := NewPathBuilder().Render()
		require.ErrorIs(t, err, ErrMissingArgument)
	})

	t.Run("steps sharing an alias conflict", func(t *testing.T) {
		_, err := NewPathBuilder().
			Node(Alias("a"), Props{"id": 1}).
			Rel().
			Node(Alias("a"), Props{"id": 2}).
			Render()
		require.ErrorIs(t, err, ErrBindingConflict)
	})
}
