package main

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/parlorlabs/parlor/internal/agents"
)

//go:embed agents.json
var agentSeedData []byte

func init() {
	registerSeeder(&AgentSeeder{})
}

// AgentSeedData represents the JSON structure for agent seed files.
type AgentSeedData struct {
	Agents []agents.CreateCommand `json:"agents"`
}

// AgentSeeder implements Seeder for the agent catalog. It loads seed
// data from the embedded file or an external file path.
type AgentSeeder struct {
	file string
}

// Name returns "agents" as the seeder identifier.
func (s *AgentSeeder) Name() string {
	return "agents"
}

// Description returns a human-readable description of this seeder.
func (s *AgentSeeder) Description() string {
	return "Seeds the agent catalog: the primary assistant and the specialist agents"
}

// SetFile configures an external seed file path, overriding the embedded default.
func (s *AgentSeeder) SetFile(path string) {
	s.file = path
}

// Seed saves the agent catalog using upsert semantics so it can run
// repeatedly without duplicating entries.
func (s *AgentSeeder) Seed(ctx context.Context, tx *sql.Tx) error {
	data, err := s.loadSeedData()
	if err != nil {
		return err
	}

	q := `
		INSERT INTO agents (code, name, description, system_prompt, icon, tags)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			system_prompt = EXCLUDED.system_prompt,
			icon = EXCLUDED.icon,
			tags = EXCLUDED.tags,
			active = TRUE,
			updated_at = NOW()`

	for _, a := range data.Agents {
		tags, err := json.Marshal(a.Tags)
		if err != nil {
			return fmt.Errorf("encode tags for %s: %w", a.Code, err)
		}
		if _, err := tx.ExecContext(ctx, q, a.Code, a.Name, a.Description, a.SystemPrompt, a.Icon, tags); err != nil {
			return fmt.Errorf("save agent %s: %w", a.Code, err)
		}
	}

	return nil
}

func (s *AgentSeeder) loadSeedData() (*AgentSeedData, error) {
	raw := agentSeedData
	if s.file != "" {
		external, err := os.ReadFile(s.file)
		if err != nil {
			return nil, fmt.Errorf("read seed file %s: %w", s.file, err)
		}
		raw = external
	}

	var data AgentSeedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return &data, nil
}
