package threads

import "github.com/parlorlabs/parlor/pkg/repository"

func scanThread(s repository.Scanner) (Thread, error) {
	var t Thread
	err := s.Scan(
		&t.ID,
		&t.UserEmail,
		&t.Title,
		&t.Icon,
		&t.Active,
		&t.TotalMessages,
		&t.TotalInputTokens,
		&t.TotalOutputTokens,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

func scanMessage(s repository.Scanner) (Message, error) {
	var m Message
	err := s.Scan(
		&m.ID,
		&m.ThreadID,
		&m.Position,
		&m.Role,
		&m.AgentCode,
		&m.Content,
		&m.InputTokens,
		&m.OutputTokens,
		&m.CreatedAt,
	)
	return m, err
}
