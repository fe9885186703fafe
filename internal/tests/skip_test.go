package tests

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SebastianOsuna/neo4j-qb/internal"
)

func TestSkip(t *testing.T) {
	t.Run("Skip first three rows", func(t *testing.T) {
		cy, err := compile(t,
			match("", nil, "n"),
			ret("n.name", nil, nil),
			order("n.name"),
			skip(3),
		)
		check(t, cy, err, internal.CompiledCypher{
			Cypher: `MATCH (n) RETURN n.name ORDER BY n.name ASC SKIP 3`,
		})
	})

	t.Run("Skip stays in place while limit moves", func(t *testing.T) {
		cy, err := compile(t, match("", nil, "n"), ret("n", nil, nil), limit(2), skip(1))
		check(t, cy, err, internal.CompiledCypher{
			Cypher: `MATCH (n) RETURN n SKIP 1 LIMIT 2`,
		})
	})

	t.Run("Strings are decimal", func(t *testing.T) {
		op, err := internal.Skip("010")
		require.NoError(t, err)
		require.Equal(t, "SKIP 10", op.Text)
	})

	t.Run("Non-numeric", func(t *testing.T) {
		for _, n := range []any{"x", "0x10", "0b11"} {
			_, err := internal.Skip(n)
			require.ErrorIs(t, err, internal.ErrInvalidArgument, "skip %v", n)
		}
	})
}
