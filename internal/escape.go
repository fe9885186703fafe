package internal

import (
	"regexp"
	"strings"
)

var (
	reSeparators = regexp.MustCompile(`[\s,\-]+`)
	reStripped   = strings.NewReplacer(
		"'", "", `"`, "",
		"{", "", "}", "",
		"[", "", "]", "",
		"(", "", ")", "",
		"*", "", "+", "",
	)
)

// Escape normalizes a label, alias or property name into an identifier token
// that is safe to inline into a query.
//
// Whitespace, comma and hyphen runs collapse into a single underscore and
// quote, bracket, brace, paren, '*' and '+' characters are removed. With hard
// set, '.' is replaced by '_' too, which turns property accessors such as
// "p.id" into parameter names such as "p_id".
func Escape(raw string, hard bool) string {
	s := reStripped.Replace(strings.TrimSpace(raw))
	s = reSeparators.ReplaceAllString(strings.TrimSpace(s), "_")
	if hard {
		s = strings.ReplaceAll(s, ".", "_")
	}
	return s
}
