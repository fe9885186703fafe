package neoqb

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SebastianOsuna/neo4j-qb/db"
)

func TestToCypher(t *testing.T) {
	t.Run("chained clauses", func(t *testing.T) {
		qb := New(NewMock())
		cy, err := qb.
			Find(db.Label("Lab"), db.Props{"id": 1}, db.Alias("l")).
			Limit(5).
			Where("l.name", "x").
			WhereNotNull("l.created").
			Return("l").
			ToCypher()
		require.NoError(t, err)
		assert.Equal(t, "MATCH (l:Lab {id: {lid}}) WHERE l.name = {l_name} AND l.created IS NOT NULL RETURN l LIMIT 5", cy)
	})

	t.Run("inspection does not reset", func(t *testing.T) {
		qb := New(NewMock()).Match(db.Alias("n")).Return("n")
		first, err := qb.ToCypher()
		require.NoError(t, err)
		second, err := qb.ToCypher()
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Nil(t, qb.Params())

		_, err = qb.Compile(true)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{}, qb.Params())
	})

	t.Run("path", func(t *testing.T) {
		cy, err := New(NewMock()).
			Path(func(p *PathBuilder) {
				p.Node(db.Label("Lab"), db.Props{"id": 1}, db.Alias("l")).Rel().Node()
			}).
			ToCypher()
		require.NoError(t, err)
		assert.Equal(t, "MATCH (l:Lab {id: {lid}})-[]-()", cy)
	})

	t.Run("empty path", func(t *testing.T) {
		qb := New(NewMock()).Path(nil)
		require.ErrorIs(t, qb.Err(), ErrMissingArgument)
		_, err := qb.ToCypher()
		require.ErrorIs(t, err, ErrMissingArgument)
	})

	t.Run("projection options", func(t *testing.T) {
		cy, err := New(NewMock()).
			Match(db.Alias("p")).
			Match(db.Alias("u")).
			With([]string{"p", "u"}).
			Return([]string{"p.id", "u.name"}, db.Modifiers(db.Distinct, db.Max), db.Aliases("d", "max")).
			ToCypher()
		require.NoError(t, err)
		assert.Equal(t, "MATCH (p) MATCH (u) WITH p, u RETURN DISTINCT p.id AS d, max(u.name) AS max", cy)
	})

	t.Run("where helpers", func(t *testing.T) {
		qb := New(NewMock())
		cy, err := qb.
			Match(db.Alias("p")).
			WhereIn("p.id", []int{1, 2}).
			WhereNull("p.deleted").
			Where(db.Raw("p.score > {min}", map[string]any{"min": 3})).
			Order("p.id", db.Desc).
			Skip(10).
			ToCypher()
		require.NoError(t, err)
		assert.Equal(t, "MATCH (p) WHERE p.id IN {p_id} AND p.deleted IS NULL AND p.score > {min} ORDER BY p.id DESC SKIP 10", cy)
	})

	t.Run("union and raw", func(t *testing.T) {
		cy, err := New(NewMock()).
			Raw("MATCH (a:A) RETURN a.name AS name").
			UnionAll().
			Raw("MATCH (b:B) RETURN b.name AS name").
			Union().
			Raw("RETURN {name} AS name", map[string]any{"name": "c"}).
			ToCypher()
		require.NoError(t, err)
		assert.Equal(t, "MATCH (a:A) RETURN a.name AS name UNION ALL MATCH (b:B) RETURN b.name AS name UNION RETURN {name} AS name", cy)
	})

	t.Run("reset", func(t *testing.T) {
		qb := New(NewMock()).Match(db.Alias("n")).Limit("nope")
		require.ErrorIs(t, qb.Err(), ErrInvalidArgument)
		cy, err := qb.Reset().Match(db.Alias("m")).ToCypher()
		require.NoError(t, err)
		assert.Equal(t, "MATCH (m)", cy)
	})
}

func TestExec(t *testing.T) {
	ctx := context.Background()

	t.Run("runs in a read session and resets", func(t *testing.T) {
		m := NewMock()
		m.BindRecords([]map[string]any{{"id": int64(1)}, {"id": int64(2)}})
		qb := New(m)

		resp, err := qb.Match(db.Label("Lab"), db.Alias("l")).Where("l.id", "<", 3).Fetch(ctx, "l.id", db.Aliases("id"))
		require.NoError(t, err)
		require.Equal(t, 2, resp.Len())

		require.Len(t, m.Runs, 1)
		assert.Equal(t, "MATCH (l:Lab) WHERE l.id < {l_id} RETURN l.id AS id", m.Runs[0].Cypher)
		assert.Equal(t, map[string]any{"l_id": 3}, m.Runs[0].Params)
		assert.Equal(t, neo4j.AccessModeRead, m.Runs[0].AccessMode)
		assert.False(t, m.Runs[0].InTx)
		require.Len(t, m.Sessions, 1)
		assert.Equal(t, 1, m.Sessions[0].Closes)

		cy, err := qb.ToCypher()
		require.NoError(t, err)
		assert.Empty(t, cy)
	})

	t.Run("mutations run in write sessions", func(t *testing.T) {
		m := NewMock()
		qb := New(m, WithDatabase("graph"))

		_, err := qb.Insert(ctx, db.Props{"name": "a"}, "Lab")
		require.NoError(t, err)
		_, err = qb.Upsert(ctx, db.Props{"data": 1, "id": 5}, db.Props{"id": 1}, "Lab")
		require.NoError(t, err)
		_, err = qb.Match(db.Alias("a")).Match(db.Alias("b")).
			Relate(ctx, "REL", "a", "b", db.Props{"hits": 1}, db.Modify("hits", db.Increment))
		require.NoError(t, err)
		_, err = qb.Match(db.Alias("n")).Where("n.id", 1).DetachDel(ctx, "n")
		require.NoError(t, err)
		_, err = qb.Match(db.Alias("n")).Del(ctx, "n")
		require.NoError(t, err)

		want := []string{
			"CREATE (n:Lab {name: {name}}) RETURN n",
			"MERGE (n:Lab {id: {id}}) ON MATCH SET n.data = {ndata} ON CREATE SET n.data = {ndata}",
			"MATCH (a) MATCH (b) MERGE (b)-[r:REL]->(a) ON CREATE SET r.hits = {rhits} ON MATCH SET r.hits = r.hits + {rhits}",
			"MATCH (n) WHERE n.id = {n_id} DETACH DELETE n",
			"MATCH (n) DELETE n",
		}
		require.Len(t, m.Runs, len(want))
		for i, run := range m.Runs {
			assert.Equal(t, want[i], run.Cypher)
			assert.Equal(t, neo4j.AccessModeWrite, run.AccessMode)
		}
		for _, s := range m.Sessions {
			assert.Equal(t, "graph", s.Config.DatabaseName)
			assert.Equal(t, 1, s.Closes)
		}
	})

	t.Run("schema", func(t *testing.T) {
		m := NewMock()
		qb := New(m)
		_, err := qb.IndexOn(ctx, "Lab", "name")
		require.NoError(t, err)
		_, err = qb.DropIndex(ctx, "Lab", "name")
		require.NoError(t, err)
		_, err = qb.Unique(ctx, "Lab", "id")
		require.NoError(t, err)
		_, err = qb.DropUnique(ctx, "Lab", "id")
		require.NoError(t, err)

		_, err = qb.IndexOn(ctx, "", "name")
		require.ErrorIs(t, err, ErrMissingArgument)

		require.Len(t, m.Runs, 4)
		assert.Equal(t, "CREATE INDEX ON :Lab(name)", m.Runs[0].Cypher)
		assert.Equal(t, "DROP INDEX ON :Lab(name)", m.Runs[1].Cypher)
		assert.Equal(t, "CREATE CONSTRAINT ON (n:Lab) ASSERT n.id IS UNIQUE", m.Runs[2].Cypher)
		assert.Equal(t, "DROP CONSTRAINT ON (n:Lab) ASSERT n.id IS UNIQUE", m.Runs[3].Cypher)
	})

	t.Run("construction errors fail before any network call", func(t *testing.T) {
		m := NewMock()
		qb := New(m)
		qb.Match(db.Alias("p")).Where("p.id", "IN", 1).Limit(-1)
		require.ErrorIs(t, qb.Err(), ErrInvalidOperator)
		require.ErrorIs(t, qb.Err(), ErrInvalidArgument)

		_, err := qb.Exec(ctx)
		require.ErrorIs(t, err, ErrInvalidOperator)
		assert.Empty(t, m.Runs)
		assert.Empty(t, m.Sessions)
		assert.NoError(t, qb.Err())

		_, err = qb.Relate(ctx, "REL", "a", "b", db.Modify("x", "MIN"))
		require.ErrorIs(t, err, ErrUnknownModifier)
		assert.Empty(t, m.Runs)
	})

	t.Run("binding conflicts", func(t *testing.T) {
		m := NewMock()
		_, err := New(m).Match(db.Alias("p")).Where("p.id", 1).Where("p.id", "<>", 2).Exec(ctx)
		require.ErrorIs(t, err, ErrBindingConflict)
		assert.Empty(t, m.Runs)
	})

	t.Run("upstream failures propagate and close the session", func(t *testing.T) {
		m := NewMock()
		m.RunErr = errors.New("boom")
		qb := New(m)
		_, err := qb.Match(db.Alias("n")).Fetch(ctx, "n")
		require.ErrorIs(t, err, m.RunErr)
		require.Len(t, m.Sessions, 1)
		assert.Equal(t, 1, m.Sessions[0].Closes)

		cy, err := qb.ToCypher()
		require.NoError(t, err)
		assert.Empty(t, cy)
	})

	t.Run("close errors are joined", func(t *testing.T) {
		m := NewMock()
		m.CloseErr = errors.New("close")
		_, err := New(m).Match(db.Alias("n")).Fetch(ctx, "n")
		require.ErrorIs(t, err, m.CloseErr)
	})

	t.Run("parameters are canonicalized", func(t *testing.T) {
		type point struct {
			X int `json:"x"`
			Y int `json:"y"`
		}
		m := NewMock()
		_, err := New(m).Insert(ctx, db.Props{
			"at":    point{X: 1, Y: 2},
			"tags":  []string{"a"},
			"trail": []point{{X: 3, Y: 4}},
		}, "Spot")
		require.NoError(t, err)
		require.Len(t, m.Runs, 1)
		assert.Equal(t, map[string]any{
			"at":    map[string]any{"x": int64(1), "y": int64(2)},
			"tags":  []string{"a"},
			"trail": []any{map[string]any{"x": int64(3), "y": int64(4)}},
		}, m.Runs[0].Params)
	})

	t.Run("driver-native parameters pass through", func(t *testing.T) {
		born := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
		home := neo4j.Point2D{X: 1, Y: 2, SpatialRefId: 7203}
		day := dbtype.Date(born)
		m := NewMock()
		_, err := New(m).Insert(ctx, db.Props{
			"born":     born,
			"home":     home,
			"day":      day,
			"visits":   []time.Time{born},
			"stops":    []neo4j.Point2D{home},
			"reminder": &born,
		}, "Person")
		require.NoError(t, err)
		require.Len(t, m.Runs, 1)
		assert.Equal(t, map[string]any{
			"born":     born,
			"home":     home,
			"day":      day,
			"visits":   []time.Time{born},
			"stops":    []neo4j.Point2D{home},
			"reminder": &born,
		}, m.Runs[0].Params)
	})

	t.Run("number lists stay homogeneous", func(t *testing.T) {
		type stats struct {
			Scores []float64 `json:"scores"`
			Counts []float64 `json:"counts"`
		}
		m := NewMock()
		_, err := New(m).Insert(ctx, db.Props{
			"scores": []any{1.0, 2.5},
			"stats":  stats{Scores: []float64{1, 2.5}, Counts: []float64{1, 2}},
		}, "P")
		require.NoError(t, err)
		require.Len(t, m.Runs, 1)
		assert.Equal(t, []any{1.0, 2.5}, m.Runs[0].Params["scores"])
		assert.Equal(t, map[string]any{
			"scores": []any{1.0, 2.5},
			"counts": []any{int64(1), int64(2)},
		}, m.Runs[0].Params["stats"])
	})

	t.Run("precompiled queries keep their access mode", func(t *testing.T) {
		m := NewMock()
		qb := New(m)
		read, err := New(m).Match(db.Alias("n")).Where("n.id", 1).Return("n").Compile(false)
		require.NoError(t, err)
		write, err := New(m).Match(db.Alias("n")).Limit(1).Compile(false)
		require.NoError(t, err)
		write.IsWrite = true

		_, err = qb.Match(db.Alias("pending")).ExecCompiled(ctx, read)
		require.NoError(t, err)
		_, err = qb.ExecCompiled(ctx, write)
		require.NoError(t, err)

		require.Len(t, m.Runs, 2)
		assert.Equal(t, "MATCH (n) WHERE n.id = {n_id} RETURN n", m.Runs[0].Cypher)
		assert.Equal(t, map[string]any{"n_id": 1}, m.Runs[0].Params)
		assert.Equal(t, neo4j.AccessModeRead, m.Runs[0].AccessMode)
		assert.Equal(t, neo4j.AccessModeWrite, m.Runs[1].AccessMode)

		cy, err := qb.ToCypher()
		require.NoError(t, err)
		assert.Empty(t, cy)

		_, err = qb.ExecCompiled(ctx, nil)
		require.ErrorIs(t, err, ErrMissingArgument)
		assert.Len(t, m.Runs, 2)
	})

	t.Run("queries are logged", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		_, err := New(NewMock(), WithLogger(logger)).Match(db.Alias("n")).Fetch(ctx, "n")
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "running query")
		assert.Contains(t, buf.String(), `cypher="MATCH (n) RETURN n"`)
	})
}
