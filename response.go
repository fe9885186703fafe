package neoqb

import (
	"github.com/goccy/go-json"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Response holds the records returned by a query, one map per record keyed
// by column.
type Response struct {
	Records []map[string]any
}

func newResponse(records []*neo4j.Record) *Response {
	r := &Response{Records: make([]map[string]any, len(records))}
	for i, record := range records {
		r.Records[i] = record.AsMap()
	}
	return r
}

func (r *Response) Len() int { return len(r.Records) }

// Value collapses the response: a single record is returned as its map.
// Otherwise every record is flattened into a slice, where a record with a
// "properties" map column, or with a single node or relationship column, is
// replaced by those properties.
func (r *Response) Value() any {
	if len(r.Records) == 1 {
		return r.Records[0]
	}
	out := make([]map[string]any, len(r.Records))
	for i, record := range r.Records {
		out[i] = flatten(record)
	}
	return out
}

func flatten(record map[string]any) map[string]any {
	if props, ok := record["properties"].(map[string]any); ok {
		return props
	}
	if len(record) != 1 {
		return record
	}
	for _, v := range record {
		switch entity := v.(type) {
		case neo4j.Node:
			return entity.Props
		case neo4j.Relationship:
			return entity.Props
		}
	}
	return record
}

// Decode stores the collapsed Value of the response in v, which should be a
// pointer to a struct or map for single-record responses and to a slice
// otherwise.
func (r *Response) Decode(v any) error {
	bytes, err := json.Marshal(r.Value())
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, v)
}
