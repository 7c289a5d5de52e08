package threads

import "github.com/parlorlabs/parlor/pkg/query"

var projection = query.
	NewProjectionMap("public", "threads", "t").
	Project("id", "Id").
	Project("user_email", "UserEmail").
	Project("title", "Title").
	Project("icon", "Icon").
	Project("active", "Active").
	Project("total_messages", "TotalMessages").
	Project("total_input_tokens", "TotalInputTokens").
	Project("total_output_tokens", "TotalOutputTokens").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "UpdatedAt", Descending: true}
