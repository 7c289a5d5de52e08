package agents

import (
	"encoding/json"

	"github.com/parlorlabs/parlor/pkg/repository"
)

func scanAgent(s repository.Scanner) (Agent, error) {
	var a Agent
	var tags []byte

	err := s.Scan(
		&a.ID,
		&a.Code,
		&a.Name,
		&a.Description,
		&a.SystemPrompt,
		&a.Icon,
		&tags,
		&a.Active,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return a, err
	}

	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &a.Tags); err != nil {
			return a, err
		}
	}
	return a, nil
}
