package neoqb

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/SebastianOsuna/neo4j-qb/internal"
)

// New creates a QueryBuilder that runs every terminal call in a fresh
// session of driver.
func New(driver neo4j.DriverWithContext, configurers ...Configurer) *QueryBuilder {
	cfg := newConfig(configurers...)
	qb := &QueryBuilder{
		driver: driver,
		config: cfg,
		executor: executor{
			logger: cfg.Logger,
			obs:    newInstruments(cfg),
		},
	}
	qb.chain = newChain(qb, qb)
	return qb
}

// QueryBuilder accumulates clauses and runs them against the driver. It is
// not safe for concurrent use; create one builder per goroutine.
type QueryBuilder struct {
	chain[*QueryBuilder]
	executor

	driver neo4j.DriverWithContext
	config Config
}

func (qb *QueryBuilder) DB() neo4j.DriverWithContext {
	return qb.driver
}

func (qb *QueryBuilder) sessionConfig(write bool) neo4j.SessionConfig {
	config := qb.config.SessionConfig
	if write {
		config.AccessMode = neo4j.AccessModeWrite
	} else {
		config.AccessMode = neo4j.AccessModeRead
	}
	return config
}

func (qb *QueryBuilder) run(ctx context.Context, cy *internal.CompiledCypher) (resp *Response, err error) {
	sess := qb.driver.NewSession(ctx, qb.sessionConfig(cy.IsWrite))
	defer func() {
		if closeErr := sess.Close(ctx); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()
	return qb.execute(ctx, cy, func(ctx context.Context, cypher string, params map[string]any) (neo4j.ResultWithContext, error) {
		return sess.Run(ctx, cypher, params, qb.config.TxConfigurers...)
	})
}

// Transacting opens a session and an explicit transaction, and passes a Tx
// bound to it to handler. The returned Completion settles once the Tx is
// committed or rolled back, which may happen after Transacting returns.
//
// If handler panics the transaction is rolled back and the panic is
// propagated.
func (qb *QueryBuilder) Transacting(ctx context.Context, handler func(tx *Tx)) (*Completion, error) {
	if handler == nil {
		return nil, ErrMissingHandler
	}
	sess := qb.driver.NewSession(ctx, qb.sessionConfig(true))
	etx, err := sess.BeginTransaction(ctx, qb.config.TxConfigurers...)
	if err != nil {
		err = fmt.Errorf("beginning transaction: %w", err)
		if closeErr := sess.Close(ctx); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
		return nil, err
	}
	tx := newTx(qb, sess, etx)
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()
	handler(tx)
	return tx.Completion(), nil
}
