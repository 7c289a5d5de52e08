package agents

import "github.com/parlorlabs/parlor/pkg/query"

var projection = query.
	NewProjectionMap("public", "agents", "a").
	Project("id", "Id").
	Project("code", "Code").
	Project("name", "Name").
	Project("description", "Description").
	Project("system_prompt", "SystemPrompt").
	Project("icon", "Icon").
	Project("tags", "Tags").
	Project("active", "Active").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "Name"}
