package tests

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SebastianOsuna/neo4j-qb/internal"
)

func TestSchema(t *testing.T) {
	cases := []struct {
		name  string
		build func(label, property string) (internal.Operation, error)
		want  string
	}{
		{"create index", internal.CreateIndex, "CREATE INDEX ON :Lab(name)"},
		{"drop index", internal.DropIndex, "DROP INDEX ON :Lab(name)"},
		{"create unique", internal.CreateUnique, "CREATE CONSTRAINT ON (n:Lab) ASSERT n.name IS UNIQUE"},
		{"drop unique", internal.DropUnique, "DROP CONSTRAINT ON (n:Lab) ASSERT n.name IS UNIQUE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cy, err := compile(t, func() (internal.Operation, error) { return tc.build("Lab", "name") })
			check(t, cy, err, internal.CompiledCypher{Cypher: tc.want, IsWrite: true})

			_, err = tc.build("", "name")
			require.ErrorIs(t, err, internal.ErrMissingArgument)
			_, err = tc.build("Lab", "")
			require.ErrorIs(t, err, internal.ErrMissingArgument)
		})
	}
}

func TestRaw(t *testing.T) {
	cy, err := compile(t,
		raw("MATCH (n) WHERE n.created < {before}", map[string]any{"before": 10}),
		ret("n", nil, nil),
	)
	check(t, cy, err, internal.CompiledCypher{
		Cypher:     `MATCH (n) WHERE n.created < {before} RETURN n`,
		Parameters: map[string]any{"before": 10},
		IsWrite:    true,
	})
}
