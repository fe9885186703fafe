package neoqb

import (
	"context"
	"slices"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// NewMock creates a neo4j driver for testing. It never touches the network:
// every run is recorded and answered with the next bound records.
func NewMock() *MockDriver {
	return &MockDriver{}
}

type (
	MockDriver struct {
		// Embedded so that methods the builder never calls need no stub.
		neo4j.DriverWithContext

		mu       sync.Mutex
		bindings [][]map[string]any

		// Runs lists every query in execution order.
		Runs []MockRun
		// Sessions lists every session opened, in order.
		Sessions []*MockSession

		// Injected failures. A nil error means success.
		RunErr, BeginErr, CommitErr, RollbackErr, CloseErr error
	}
	MockRun struct {
		Cypher     string
		Params     map[string]any
		AccessMode neo4j.AccessMode
		InTx       bool
	}
	MockSession struct {
		neo4j.SessionWithContext

		driver *MockDriver
		Config neo4j.SessionConfig
		Closes int
		Tx     *MockTx
	}
	MockTx struct {
		neo4j.ExplicitTransaction

		session   *MockSession
		Commits   int
		Rollbacks int
	}
	mockResult struct {
		neo4j.ResultWithContext

		records []*neo4j.Record
		cursor  int
	}
)

var (
	_ neo4j.DriverWithContext   = (*MockDriver)(nil)
	_ neo4j.SessionWithContext  = (*MockSession)(nil)
	_ neo4j.ExplicitTransaction = (*MockTx)(nil)
	_ neo4j.ResultWithContext   = (*mockResult)(nil)
)

// Bind queues a single-record result for the next run.
func (d *MockDriver) Bind(record map[string]any) {
	d.BindRecords([]map[string]any{record})
}

// BindRecords queues a result for the next run. Runs without a queued
// result return no records.
func (d *MockDriver) BindRecords(records []map[string]any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bindings = append(d.bindings, records)
}

func (d *MockDriver) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bindings = nil
	d.Runs = nil
	d.Sessions = nil
}

func (d *MockDriver) NewSession(ctx context.Context, config neo4j.SessionConfig) neo4j.SessionWithContext {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := &MockSession{driver: d, Config: config}
	d.Sessions = append(d.Sessions, s)
	return s
}

func (d *MockDriver) VerifyConnectivity(ctx context.Context) error {
	return nil
}

func (d *MockDriver) Close(ctx context.Context) error {
	return nil
}

func (d *MockDriver) run(cypher string, params map[string]any, mode neo4j.AccessMode, inTx bool) (neo4j.ResultWithContext, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Runs = append(d.Runs, MockRun{
		Cypher:     cypher,
		Params:     params,
		AccessMode: mode,
		InTx:       inTx,
	})
	if d.RunErr != nil {
		return nil, d.RunErr
	}
	r := &mockResult{}
	if len(d.bindings) > 0 {
		var next []map[string]any
		next, d.bindings = d.bindings[0], d.bindings[1:]
		for _, m := range next {
			r.records = append(r.records, toRecord(m))
		}
	}
	return r, nil
}

func toRecord(m map[string]any) *neo4j.Record {
	rec := &neo4j.Record{
		Keys:   make([]string, 0, len(m)),
		Values: make([]any, 0, len(m)),
	}
	for k := range m {
		rec.Keys = append(rec.Keys, k)
	}
	slices.Sort(rec.Keys)
	for _, k := range rec.Keys {
		rec.Values = append(rec.Values, m[k])
	}
	return rec
}

func (s *MockSession) Run(ctx context.Context, cypher string, params map[string]any, configurers ...func(*neo4j.TransactionConfig)) (neo4j.ResultWithContext, error) {
	return s.driver.run(cypher, params, s.Config.AccessMode, false)
}

func (s *MockSession) BeginTransaction(ctx context.Context, configurers ...func(*neo4j.TransactionConfig)) (neo4j.ExplicitTransaction, error) {
	if s.driver.BeginErr != nil {
		return nil, s.driver.BeginErr
	}
	s.Tx = &MockTx{session: s}
	return s.Tx, nil
}

func (s *MockSession) Close(ctx context.Context) error {
	s.Closes++
	return s.driver.CloseErr
}

func (t *MockTx) Run(ctx context.Context, cypher string, params map[string]any) (neo4j.ResultWithContext, error) {
	return t.session.driver.run(cypher, params, t.session.Config.AccessMode, true)
}

func (t *MockTx) Commit(ctx context.Context) error {
	t.Commits++
	return t.session.driver.CommitErr
}

func (t *MockTx) Rollback(ctx context.Context) error {
	t.Rollbacks++
	return t.session.driver.RollbackErr
}

func (t *MockTx) Close(ctx context.Context) error {
	return nil
}

func (r *mockResult) Keys() ([]string, error) {
	if len(r.records) == 0 {
		return nil, nil
	}
	return r.records[0].Keys, nil
}

func (r *mockResult) NextRecord(ctx context.Context, record **neo4j.Record) bool {
	if r.cursor < len(r.records) {
		*record = r.records[r.cursor]
		r.cursor++
		return true
	}
	return false
}

func (r *mockResult) Next(ctx context.Context) bool {
	var rec *neo4j.Record
	return r.NextRecord(ctx, &rec)
}

func (r *mockResult) Record() *neo4j.Record {
	if r.cursor == 0 || r.cursor > len(r.records) {
		return nil
	}
	return r.records[r.cursor-1]
}

func (r *mockResult) Err() error {
	return nil
}

func (r *mockResult) Collect(ctx context.Context) ([]*neo4j.Record, error) {
	rest := r.records[r.cursor:]
	r.cursor = len(r.records)
	return rest, nil
}

func (r *mockResult) IsOpen() bool {
	return r.cursor < len(r.records)
}
