package internal

import (
	"errors"
	"strings"
)

type CompiledCypher struct {
	Cypher     string
	Parameters map[string]any
	// IsWrite is set when any operation may modify the graph. Raw fragments
	// are opaque and always count as writes.
	IsWrite bool
}

// Scope accumulates the operations of a single query in call order. It is
// not safe for concurrent use.
type Scope struct {
	operations []Operation
	params     map[string]any
	err        error
}

func NewScope() *Scope {
	return &Scope{}
}

func (s *Scope) Add(op Operation) {
	s.operations = append(s.operations, op)
}

// AddError records a construction error. Operations added after a failure
// are still accumulated so that Operations reflects the call chain, but
// Compile refuses to render.
func (s *Scope) AddError(err error) {
	if err == nil {
		return
	}
	if s.err != nil {
		s.err = errors.Join(s.err, err)
	} else {
		s.err = err
	}
}

func (s *Scope) Err() error { return s.err }

func (s *Scope) Operations() []Operation {
	return s.operations
}

// Params returns the parameters attached by the last Compile(true), or nil.
func (s *Scope) Params() map[string]any {
	return s.params
}

func (s *Scope) Reset() {
	s.operations = nil
	s.params = nil
	s.err = nil
}

// Compile renders the accumulated operations. LIMIT operations are moved to
// the end, keeping their relative order. Consecutive WHERE operations are
// joined with AND. When run is set the merged parameters are attached to
// the scope.
func (s *Scope) Compile(run bool) (*CompiledCypher, error) {
	if s.err != nil {
		return nil, s.err
	}
	var (
		sb      strings.Builder
		params  = Bindings{}
		inWhere bool
		isWrite bool
	)
	for _, op := range relocateLimits(s.operations) {
		if err := params.Merge(op.Params); err != nil {
			return nil, err
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		if op.Kind == KindWhere {
			if inWhere {
				sb.WriteString("AND ")
			} else {
				sb.WriteString("WHERE ")
			}
			inWhere = true
		} else {
			inWhere = false
		}
		sb.WriteString(op.Text)
		switch op.Kind {
		case KindCreate, KindMerge, KindRelate, KindDelete, KindRaw:
			isWrite = true
		}
	}
	cy := &CompiledCypher{
		Cypher:     strings.TrimSpace(sb.String()),
		Parameters: params,
		IsWrite:    isWrite,
	}
	if run {
		s.params = cy.Parameters
	}
	return cy, nil
}

func relocateLimits(ops []Operation) []Operation {
	out := make([]Operation, 0, len(ops))
	var limits []Operation
	for _, op := range ops {
		if op.Kind == KindLimit {
			limits = append(limits, op)
			continue
		}
		out = append(out, op)
	}
	return append(out, limits...)
}
