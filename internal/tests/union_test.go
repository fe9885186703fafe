package tests

import (
	"testing"

	"github.com/SebastianOsuna/neo4j-qb/internal"
)

func TestUnion(t *testing.T) {
	union := func(all bool) func() (internal.Operation, error) {
		return func() (internal.Operation, error) { return internal.Union(all), nil }
	}

	t.Run("Combine two queries and remove duplicates", func(t *testing.T) {
		cy, err := compile(t,
			match("Actor", nil, "n"), ret("n.name", nil, "name"),
			union(false),
			match("Movie", nil, "n"), ret("n.title", nil, "name"),
		)
		check(t, cy, err, internal.CompiledCypher{
			Cypher: `MATCH (n:Actor) RETURN n.name AS name UNION MATCH (n:Movie) RETURN n.title AS name`,
		})
	})

	t.Run("Union all", func(t *testing.T) {
		cy, err := compile(t,
			match("Actor", nil, "n"), ret("n.name", nil, "name"),
			union(true),
			match("Movie", nil, "n"), ret("n.title", nil, "name"),
		)
		check(t, cy, err, internal.CompiledCypher{
			Cypher: `MATCH (n:Actor) RETURN n.name AS name UNION ALL MATCH (n:Movie) RETURN n.title AS name`,
		})
	})
}
