package db

import "github.com/SebastianOsuna/neo4j-qb/internal"

// Raw wraps a pre-rendered fragment and the parameters it refers to. It is
// inlined without escaping.
func Raw(cypher string, params ...map[string]any) *internal.Raw {
	merged := map[string]any{}
	for _, p := range params {
		for k, v := range p {
			merged[k] = v
		}
	}
	return internal.NewRaw(cypher, merged)
}
