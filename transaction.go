package neoqb

import (
	"context"
	"errors"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/oklog/ulid/v2"

	"github.com/SebastianOsuna/neo4j-qb/internal"
)

// Tx is a QueryBuilder bound to an explicit transaction. Terminal calls run
// inside the transaction and never settle it; call Commit or Rollback
// exactly once.
type Tx struct {
	chain[*Tx]
	executor

	id         ulid.ULID
	session    neo4j.SessionWithContext
	tx         neo4j.ExplicitTransaction
	once       sync.Once
	completion *Completion
}

func newTx(qb *QueryBuilder, sess neo4j.SessionWithContext, etx neo4j.ExplicitTransaction) *Tx {
	id := ulid.Make()
	t := &Tx{
		executor: executor{
			logger: qb.logger.With("tx", id.String()),
			obs:    qb.obs,
			txID:   id.String(),
		},
		id:         id,
		session:    sess,
		tx:         etx,
		completion: newCompletion(),
	}
	t.chain = newChain(t, t)
	t.logger.Debug("transaction opened")
	return t
}

func (t *Tx) ID() ulid.ULID { return t.id }

func (t *Tx) Completion() *Completion { return t.completion }

func (t *Tx) run(ctx context.Context, cy *internal.CompiledCypher) (*Response, error) {
	if t.completion.settled() {
		return nil, ErrTxSettled
	}
	return t.execute(ctx, cy, func(ctx context.Context, cypher string, params map[string]any) (neo4j.ResultWithContext, error) {
		return t.tx.Run(ctx, cypher, params)
	})
}

// Commit commits the transaction, closes the session it was opened in and
// settles the Completion with the outcome. Calls after the first settle
// return ErrTxSettled.
func (t *Tx) Commit(ctx context.Context) error {
	return t.settle(ctx, true)
}

// Rollback rolls the transaction back. It settles the Completion like
// Commit.
func (t *Tx) Rollback(ctx context.Context) error {
	return t.settle(ctx, false)
}

func (t *Tx) settle(ctx context.Context, commit bool) error {
	err := ErrTxSettled
	t.once.Do(func() {
		action := "rollback"
		if commit {
			action = "commit"
			err = t.tx.Commit(ctx)
		} else {
			err = t.tx.Rollback(ctx)
		}
		if err != nil {
			t.logger.ErrorContext(ctx, "transaction "+action+" failed", "error", err)
		}
		if closeErr := t.session.Close(ctx); closeErr != nil {
			t.logger.ErrorContext(ctx, "closing transaction session failed", "error", closeErr)
			err = errors.Join(err, closeErr)
		}
		t.completion.settle(commit && err == nil, err)
		t.logger.DebugContext(ctx, "transaction settled", "action", action, "ok", err == nil)
	})
	return err
}

// Completion is settled once by the first Commit or Rollback of a Tx.
type Completion struct {
	done      chan struct{}
	err       error
	committed bool
}

func newCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

func (c *Completion) settle(committed bool, err error) {
	c.committed = committed
	c.err = err
	close(c.done)
}

func (c *Completion) settled() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Done is closed when the transaction settles.
func (c *Completion) Done() <-chan struct{} { return c.done }

// Err returns the commit or rollback error once settled, and nil before.
func (c *Completion) Err() error {
	if !c.settled() {
		return nil
	}
	return c.err
}

// Committed reports whether the transaction settled by a successful commit.
func (c *Completion) Committed() bool {
	return c.settled() && c.committed
}

// Wait blocks until the transaction settles or ctx is done.
func (c *Completion) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
