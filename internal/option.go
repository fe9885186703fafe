package internal

func ConfigurePattern(p *Pattern, configurer PatternOption) {
	configurer.configurePattern(p)
}

func ConfigureProjection(p *Projection, configurer ProjectionOption) {
	configurer.configureProjection(p)
}

func ConfigureRelate(r *RelateOptions, configurer RelateOption) {
	configurer.configureRelate(r)
}

// Configurer adapts plain functions to the option interfaces.
type Configurer struct {
	Pattern    func(*Pattern)
	Projection func(*Projection)
	Relate     func(*RelateOptions)
}

var _ interface {
	PatternOption
	ProjectionOption
	RelateOption
} = (*Configurer)(nil)

func (c *Configurer) configurePattern(p *Pattern) {
	if c.Pattern != nil {
		c.Pattern(p)
	}
}

func (c *Configurer) configureProjection(p *Projection) {
	if c.Projection != nil {
		c.Projection(p)
	}
}

func (c *Configurer) configureRelate(r *RelateOptions) {
	if c.Relate != nil {
		c.Relate(r)
	}
}

type (
	PatternOption interface {
		configurePattern(*Pattern)
	}
	// Pattern describes a single node or relationship in a pattern. Every
	// field is optional.
	Pattern struct {
		Label string
		Alias string
		Props Props
	}
	Label string
	Alias string
)

func NewPattern(opts ...PatternOption) Pattern {
	var p Pattern
	for _, opt := range opts {
		opt.configurePattern(&p)
	}
	return p
}

func (l Label) configurePattern(p *Pattern) { p.Label = string(l) }

func (a Alias) configurePattern(p *Pattern) { p.Alias = string(a) }

func (props Props) configurePattern(p *Pattern) { p.Props = props }

type (
	ProjectionOption interface {
		configureProjection(*Projection)
	}
	// Projection holds the positional modifiers and aliases of a RETURN or
	// WITH clause.
	Projection struct {
		Modifiers []string
		Aliases   []string
	}
)

func NewProjection(opts ...ProjectionOption) Projection {
	var p Projection
	for _, opt := range opts {
		opt.configureProjection(&p)
	}
	return p
}

type (
	RelateOption interface {
		configureRelate(*RelateOptions)
	}
	RelateOptions struct {
		Props     Props
		Modifiers map[string]string
	}
)

func NewRelateOptions(opts ...RelateOption) RelateOptions {
	var r RelateOptions
	for _, opt := range opts {
		opt.configureRelate(&r)
	}
	return r
}

func (props Props) configureRelate(r *RelateOptions) { r.Props = props }
