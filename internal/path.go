package internal

import (
	"fmt"
	"strings"
)

// Direction of a relationship step, read left to right.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionRight
	DirectionLeft
)

type StepRole int

const (
	RoleNode StepRole = iota
	RoleRelationship
)

type PathStep struct {
	Pattern
	Role      StepRole
	Direction Direction
}

// PathBuilder accumulates node and relationship steps and renders them as a
// single MATCH pattern:
//
//	p.Node(Label("Lab"), Props{"id": 1}, Alias("l")).Rel().Node()
//	// MATCH (l:Lab {id: {lid}})-[]-()
//
// The properties of each step are bound under that step's alias, so two
// steps only collide if they share an alias and a property name with
// different values.
type PathBuilder struct {
	steps []PathStep
}

func NewPathBuilder() *PathBuilder {
	return &PathBuilder{}
}

func (p *PathBuilder) Node(opts ...PatternOption) *PathBuilder {
	return p.add(RoleNode, DirectionNone, opts)
}

// Rel adds an undirected relationship: -[...]-
func (p *PathBuilder) Rel(opts ...PatternOption) *PathBuilder {
	return p.add(RoleRelationship, DirectionNone, opts)
}

// RRel adds a left-to-right relationship: -[...]->
func (p *PathBuilder) RRel(opts ...PatternOption) *PathBuilder {
	return p.add(RoleRelationship, DirectionRight, opts)
}

// LRel adds a right-to-left relationship: <-[...]-
func (p *PathBuilder) LRel(opts ...PatternOption) *PathBuilder {
	return p.add(RoleRelationship, DirectionLeft, opts)
}

func (p *PathBuilder) add(role StepRole, dir Direction, opts []PatternOption) *PathBuilder {
	p.steps = append(p.steps, PathStep{
		Pattern:   NewPattern(opts...),
		Role:      role,
		Direction: dir,
	})
	return p
}

func (p *PathBuilder) Steps() []PathStep {
	return p.steps
}

// Render consumes the accumulated steps into a MATCH operation.
func (p *PathBuilder) Render() (Operation, error) {
	if len(p.steps) == 0 {
		return Operation{}, fmt.Errorf("%w: path requires at least one step", ErrMissingArgument)
	}
	defer func() { p.steps = nil }()
	cy := newCypher()
	cy.WriteString("MATCH ")
	for _, step := range p.steps {
		var err error
		if step.Role == RoleRelationship {
			err = cy.writeRelationship(step.Direction, step.Label, step.Props, step.Alias, step.Alias)
		} else {
			err = cy.writeNode(step.Label, step.Props, step.Alias, step.Alias)
		}
		if err != nil {
			return Operation{}, err
		}
	}
	op, err := cy.operation(KindMatch)
	op.Text = strings.TrimSpace(op.Text)
	return op, err
}
