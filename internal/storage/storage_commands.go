package storage

import (
	"fmt"

	"shamash/internal/customcmd"
)

// Custom command persistence. Storage implements customcmd.Store; triggers
// arrive already lowercased from the validation layer.

// ListCommands returns a guild's custom commands in creation order.
func (s *Storage) ListCommands(guildID string) ([]customcmd.Definition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.loadGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.CustomCommands, nil
}

// InsertCommand adds a definition; customcmd.ErrConflict if the trigger is
// taken. The duplicate and cap checks run under the same lock as the append,
// so concurrent inserts can neither duplicate a trigger nor push a guild
// over MaxCommandsPerGuild.
func (s *Storage) InsertCommand(guildID string, def customcmd.Definition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.loadGuildRecord(guildID)
	if err != nil {
		return err
	}

	if len(record.CustomCommands) >= customcmd.MaxCommandsPerGuild {
		return &customcmd.ValidationError{
			Field:  "trigger",
			Reason: fmt.Sprintf("guild already has %d commands", customcmd.MaxCommandsPerGuild),
		}
	}

	for _, existing := range record.CustomCommands {
		if existing.Trigger == def.Trigger {
			return customcmd.ErrConflict
		}
	}

	record.CustomCommands = append(record.CustomCommands, def)
	s.ds.Add(guildID, record)
	return nil
}

// UpdateCommand replaces the definition stored under trigger;
// customcmd.ErrNotFound if absent.
func (s *Storage) UpdateCommand(guildID, trigger string, def customcmd.Definition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.loadGuildRecord(guildID)
	if err != nil {
		return err
	}

	for i, existing := range record.CustomCommands {
		if existing.Trigger == trigger {
			record.CustomCommands[i] = def
			s.ds.Add(guildID, record)
			return nil
		}
	}
	return customcmd.ErrNotFound
}

// DeleteCommand removes the definition stored under trigger;
// customcmd.ErrNotFound if absent.
func (s *Storage) DeleteCommand(guildID, trigger string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.loadGuildRecord(guildID)
	if err != nil {
		return err
	}

	for i, existing := range record.CustomCommands {
		if existing.Trigger == trigger {
			record.CustomCommands = append(record.CustomCommands[:i], record.CustomCommands[i+1:]...)
			s.ds.Add(guildID, record)
			return nil
		}
	}
	return customcmd.ErrNotFound
}
