package internal

import "maps"

// Kind tags an Operation with the clause it renders. The compiler only
// special-cases KindWhere and KindLimit; every other kind is emitted in
// call order.
type Kind string

const (
	KindMatch  Kind = "match"
	KindWhere  Kind = "where"
	KindLimit  Kind = "limit"
	KindSkip   Kind = "skip"
	KindOrder  Kind = "order"
	KindReturn Kind = "return"
	KindCreate Kind = "create"
	KindMerge  Kind = "merge"
	KindRelate Kind = "relate"
	KindDelete Kind = "delete"
	KindWith   Kind = "with"
	KindUnion  Kind = "union"
	KindRaw    Kind = "raw"
)

// Operation is one rendered clause fragment together with the parameters its
// placeholders refer to.
type Operation struct {
	Kind   Kind
	Text   string
	Params map[string]any
}

func newOperation(kind Kind, text string, params Bindings) Operation {
	if params == nil {
		params = Bindings{}
	}
	return Operation{Kind: kind, Text: text, Params: params}
}

// Raw is a pre-rendered fragment that bypasses escaping. The caller is
// responsible for its safety.
type Raw struct {
	Text   string
	Params map[string]any
}

func NewRaw(text string, params map[string]any) *Raw {
	r := &Raw{Text: text, Params: map[string]any{}}
	maps.Copy(r.Params, params)
	return r
}

func (r *Raw) Operation() Operation {
	return newOperation(KindRaw, r.Text, Bindings(maps.Clone(r.Params)))
}

func (r *Raw) String() string { return r.Text }
