package internal

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Props is a property map for nodes and relationships.
type Props map[string]any

func (p Props) keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Bindings allocates parameter names. A key may be bound more than once only
// to an equal value, so two fragments can never silently overwrite each
// other's parameters.
type Bindings map[string]any

func (b Bindings) Bind(key string, value any) error {
	if existing, ok := b[key]; ok && !reflect.DeepEqual(existing, value) {
		return fmt.Errorf("%w: %q (have %v, want %v)", ErrBindingConflict, key, existing, value)
	}
	b[key] = value
	return nil
}

// Merge binds every entry of params, in key order.
func (b Bindings) Merge(params map[string]any) error {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if err := b.Bind(k, params[k]); err != nil {
			return err
		}
	}
	return nil
}

func placeholder(key string) string { return "{" + key + "}" }

// Encode renders props as an inline map literal such as
// "{id: {lid}, name: {lname}}", binding each value under the escaped key
// prefixed with prefix. Empty props render as "".
func Encode(props Props, prefix string, into Bindings) (string, error) {
	if len(props) == 0 {
		return "", nil
	}
	entries := make([]string, 0, len(props))
	for _, key := range props.keys() {
		escaped := Escape(key, false)
		if escaped == "" {
			return "", fmt.Errorf("%w: property name %q", ErrInvalidArgument, key)
		}
		bindingKey := Escape(prefix+escaped, true)
		if err := into.Bind(bindingKey, props[key]); err != nil {
			return "", err
		}
		entries = append(entries, escaped+": "+placeholder(bindingKey))
	}
	return "{" + strings.Join(entries, ", ") + "}", nil
}

// Cascade renders props as SET assignments such as
// "n.data = {ndata}, n.id = {nid}".
func Cascade(props Props, alias string, into Bindings) (string, error) {
	return cascade(props, alias, into, nil)
}

func cascade(props Props, alias string, into Bindings, modifiers map[string]string) (string, error) {
	if len(props) == 0 {
		return "", nil
	}
	alias = Escape(alias, false)
	entries := make([]string, 0, len(props))
	for _, key := range props.keys() {
		escaped := Escape(key, false)
		if escaped == "" {
			return "", fmt.Errorf("%w: property name %q", ErrInvalidArgument, key)
		}
		bindingKey := Escape(alias+escaped, true)
		if err := into.Bind(bindingKey, props[key]); err != nil {
			return "", err
		}
		lhs := alias + "." + escaped
		rhs, err := modify(modifiers[key], lhs, placeholder(bindingKey))
		if err != nil {
			return "", err
		}
		entries = append(entries, lhs+" = "+rhs)
	}
	return strings.Join(entries, ", "), nil
}
