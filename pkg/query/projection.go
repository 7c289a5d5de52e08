// Package query provides a small fluent SQL builder for paginated,
// filterable PostgreSQL queries over mapped projections.
package query

import "strings"

// ProjectionMap maps logical field names to aliased table columns for a
// single table. Field names are the API-facing identifiers used in sort and
// filter expressions; columns are the physical column names.
type ProjectionMap struct {
	schema string
	table  string
	alias  string
	order  []string
	fields map[string]string
}

// NewProjectionMap creates a ProjectionMap for the given schema, table, and alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema: schema,
		table:  table,
		alias:  alias,
		fields: make(map[string]string),
	}
}

// Project registers a column under a logical field name. Returns the map for chaining.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	col := p.alias + "." + column
	if _, exists := p.fields[field]; !exists {
		p.order = append(p.order, field)
	}
	p.fields[field] = col
	return p
}

// Table returns the aliased FROM clause target.
func (p *ProjectionMap) Table() string {
	return p.schema + "." + p.table + " " + p.alias
}

// Columns returns the full aliased column list in projection order.
func (p *ProjectionMap) Columns() string {
	cols := make([]string, len(p.order))
	for i, field := range p.order {
		cols[i] = p.fields[field]
	}
	return strings.Join(cols, ", ")
}

// Column resolves a logical field name to its aliased column. Unknown fields
// resolve to the empty string.
func (p *ProjectionMap) Column(field string) string {
	return p.fields[field]
}

// SortField represents a single sort directive over a projected field.
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending,omitempty"`
}

// ParseSortFields parses a comma-separated sort expression into sort fields.
// A "-" prefix marks a field as descending: "Name,-CreatedAt".
func ParseSortFields(expr string) []SortField {
	if expr == "" {
		return nil
	}

	var fields []SortField
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "-") {
			fields = append(fields, SortField{Field: part[1:], Descending: true})
		} else {
			fields = append(fields, SortField{Field: part})
		}
	}
	return fields
}
