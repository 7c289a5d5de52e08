package agents

import (
	"net/url"
	"strconv"

	"github.com/parlorlabs/parlor/pkg/query"
)

// Filters contains optional filtering criteria for agent queries.
type Filters struct {
	Name   *string
	Active *bool
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}
	if a := values.Get("active"); a != "" {
		if parsed, err := strconv.ParseBool(a); err == nil {
			f.Active = &parsed
		}
	}

	return f
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.WhereContains("Name", f.Name)
	if f.Active != nil {
		b.WhereEquals("Active", *f.Active)
	}
	return b
}
