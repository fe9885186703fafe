package internal

import (
	"fmt"
	"strings"
)

const (
	ModifierIncrement = "INCREMENT"
)

// Insert renders CREATE (n:label {props}) RETURN n.
func Insert(props Props, label string) (Operation, error) {
	cy := newCypher()
	cy.WriteString("CREATE ")
	if err := cy.writeNode(label, props, "n", ""); err != nil {
		return Operation{}, err
	}
	cy.WriteString(" RETURN n")
	return cy.operation(KindCreate)
}

// Upsert renders
//
//	MERGE (n:label {match}) ON MATCH SET n.k = {nk} ON CREATE SET n.k = {nk}
//
// Properties that are also match keys are left out of both SET lists.
func Upsert(props, match Props, label string) (Operation, error) {
	if len(match) == 0 && Escape(label, false) == "" {
		return Operation{}, fmt.Errorf("%w: merge requires a label or match properties", ErrInvalidArgument)
	}
	set := make(Props, len(props))
	for k, v := range props {
		if _, isMatchKey := match[k]; !isMatchKey {
			set[k] = v
		}
	}
	cy := newCypher()
	cy.WriteString("MERGE ")
	if err := cy.writeNode(label, match, "n", ""); err != nil {
		return Operation{}, err
	}
	assignments, err := cascade(set, "n", cy.params, nil)
	if err != nil {
		return Operation{}, err
	}
	if assignments != "" {
		fmt.Fprintf(cy, " ON MATCH SET %s ON CREATE SET %s", assignments, assignments)
	}
	return cy.operation(KindMerge)
}

// Relate merges a relationship between two already bound variables:
//
//	MERGE (from)-[r:label]->(to) ON CREATE SET r.k = {rk} ON MATCH SET r.k = {rk}
//
// modifiers change how a property is assigned when the relationship already
// exists; see ModifierIncrement and ModifierMax.
func Relate(label, to, from string, props Props, modifiers map[string]string) (Operation, error) {
	label, to, from = Escape(label, false), Escape(to, false), Escape(from, false)
	switch {
	case label == "":
		return Operation{}, fmt.Errorf("%w: relate requires a relationship type", ErrMissingArgument)
	case to == "" || from == "":
		return Operation{}, fmt.Errorf("%w: relate requires both endpoint variables", ErrMissingArgument)
	}
	for key, m := range modifiers {
		if _, err := modify(m, "", ""); err != nil {
			return Operation{}, fmt.Errorf("%w (property %q)", err, key)
		}
	}
	cy := newCypher()
	fmt.Fprintf(cy, "MERGE (%s)-[r:%s]->(%s)", from, label, to)
	if len(props) == 0 {
		return cy.operation(KindRelate)
	}
	onCreate, err := cascade(props, "r", cy.params, nil)
	if err != nil {
		return Operation{}, err
	}
	onMatch, err := cascade(props, "r", cy.params, modifiers)
	if err != nil {
		return Operation{}, err
	}
	fmt.Fprintf(cy, " ON CREATE SET %s ON MATCH SET %s", onCreate, onMatch)
	return cy.operation(KindRelate)
}

// modify returns the right-hand side assigning param to prop under modifier.
func modify(modifier, prop, param string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(modifier)) {
	case "":
		return param, nil
	case ModifierIncrement:
		return prop + " + " + param, nil
	case ModifierMax:
		return fmt.Sprintf("CASE WHEN %s > %s THEN %s ELSE %s END", prop, param, prop, param), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownModifier, modifier)
	}
}
