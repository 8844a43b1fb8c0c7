package storage

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"shamash/datastore"
	"shamash/internal/customcmd"
)

const commandHistoryLimit = 50

// Storage is the persistence layer: one Record per guild inside a JSON
// datastore. All read-modify-write cycles happen under mu so invariants
// like trigger uniqueness hold across concurrent writers.
type Storage struct {
	ds *datastore.DataStore
	mu sync.Mutex
}

// CommandHistoryRecord is one audit entry for a command invocation.
type CommandHistoryRecord struct {
	ChannelID   string    `json:"channel_id"`
	ChannelName string    `json:"channel_name"`
	GuildName   string    `json:"guild_name"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Command     string    `json:"command"`
	Datetime    time.Time `json:"datetime"`
}

// Record is everything persisted for a guild.
type Record struct {
	CustomCommands      []customcmd.Definition `json:"custom_commands"`
	CommandsHistoryList []CommandHistoryRecord `json:"cmd_history"`
}

func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] Storage opened %s with %d guild records", filePath, len(ds.Keys()))
	return &Storage{ds: ds}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

// loadGuildRecord loads a guild's record, returning an empty one for guilds
// the datastore has never seen. Nothing is persisted here; only write paths
// call ds.Add, so reads never dirty the datastore. Callers that write the
// record back must hold mu.
func (s *Storage) loadGuildRecord(guildID string) (*Record, error) {
	data, exists := s.ds.Get(guildID)
	if !exists {
		return &Record{}, nil
	}

	// The datastore hands back generic JSON values after a reload, so
	// round-trip through encoding/json to get a typed Record.
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("error marshalling data: %w", err)
	}

	var record Record
	if err := json.Unmarshal(jsonData, &record); err != nil {
		return nil, fmt.Errorf("error unmarshalling to *Record: %w", err)
	}

	return &record, nil
}

// AppendCommandToHistory appends an audit entry for a guild, keeping the
// newest commandHistoryLimit entries.
func (s *Storage) AppendCommandToHistory(guildID string, entry CommandHistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.loadGuildRecord(guildID)
	if err != nil {
		return err
	}

	record.CommandsHistoryList = append(record.CommandsHistoryList, entry)
	if len(record.CommandsHistoryList) > commandHistoryLimit {
		record.CommandsHistoryList = record.CommandsHistoryList[len(record.CommandsHistoryList)-commandHistoryLimit:]
	}
	s.ds.Add(guildID, record)
	return nil
}

// FetchCommandHistory returns a guild's audit entries, oldest first.
func (s *Storage) FetchCommandHistory(guildID string) ([]CommandHistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.loadGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.CommandsHistoryList, nil
}
