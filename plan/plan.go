// Package plan compiles declarative YAML query plans into parameterized
// Cypher. A plan is a list of steps, each a single-key mapping naming a
// builder operation:
//
//	name: adults
//	steps:
//	  - find: {label: Person, alias: p}
//	  - where: [p.age, ">=", 18]
//	  - order: [p.name, desc]
//	  - limit: 10
//	  - return: p
package plan

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"github.com/SebastianOsuna/neo4j-qb/internal"
)

var (
	ErrEmptyPlan   = errors.New("plan has no steps")
	ErrUnknownStep = errors.New("unknown step")
	ErrInvalidStep = errors.New("invalid step")
)

type (
	Plan struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Steps       []Step `yaml:"steps"`
	}
	// Step is one builder call. Name is normalized to snake case.
	Step struct {
		Name string
		Args yaml.Node
	}
)

// UnmarshalYAML decodes a single-key mapping such as `limit: 10`. A bare
// scalar (`- union`) is a step without arguments.
func (s *Step) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		s.Name = normalizeName(value.Value)
		return nil
	case yaml.MappingNode:
		if len(value.Content) != 2 {
			return fmt.Errorf("%w: line %d: a step must have exactly one key", ErrInvalidStep, value.Line)
		}
		s.Name = normalizeName(value.Content[0].Value)
		s.Args = *value.Content[1]
		return nil
	default:
		return fmt.Errorf("%w: line %d: expected a mapping", ErrInvalidStep, value.Line)
	}
}

var nameAliases = map[string]string{
	"r_rel":         "rrel",
	"l_rel":         "lrel",
	"match":         "find",
	"fetch":         "return",
	"del":           "delete",
	"detach_del":    "detach_delete",
	"where_is_null": "where_null",
}

func normalizeName(name string) string {
	snake := strcase.ToSnake(name)
	if alias, ok := nameAliases[snake]; ok {
		return alias
	}
	return snake
}

// Load decodes a plan. Unknown top-level fields are rejected.
func Load(r io.Reader) (*Plan, error) {
	var p Plan
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}
	if len(p.Steps) == 0 {
		return nil, ErrEmptyPlan
	}
	return &p, nil
}

// Compile runs every step against a fresh scope and renders the result.
// The first failing step aborts compilation.
func (p *Plan) Compile() (*internal.CompiledCypher, error) {
	scope := internal.NewScope()
	for i, step := range p.Steps {
		if err := apply(scope, step); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.Name, err)
		}
	}
	return scope.Compile(false)
}

// Render writes the query on the first line followed by its parameters as
// indented JSON.
func Render(w io.Writer, cy *internal.CompiledCypher) error {
	params := cy.Parameters
	if params == nil {
		params = map[string]any{}
	}
	js, err := json.MarshalIndent(params, "", "  ")
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	buf.WriteString(cy.Cypher)
	buf.WriteByte('\n')
	buf.Write(js)
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}
