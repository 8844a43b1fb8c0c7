// Package customcmd implements user-authored guild commands: definitions,
// validation, template rendering, built-in functions, a sandboxed script
// evaluator, and the dispatcher that ties them to inbound messages.
package customcmd

import (
	"errors"
	"fmt"
	"time"
)

// Kind selects which content field of a Definition is active.
type Kind string

const (
	KindText     Kind = "text"     // template response
	KindFunction Kind = "function" // built-in function by name
	KindCode     Kind = "code"     // sandboxed script
)

// Limits chosen for storage growth; the platform itself imposes none.
const (
	MaxCommandsPerGuild = 100
	MaxTriggerLen       = 64
	MaxTemplateLen      = 2000
	MaxScriptLen        = 4096
	MaxDescriptionLen   = 256

	// MessageLimit is the platform's maximum message length; dispatch output
	// is truncated to this.
	MessageLimit = 2000
)

// Definition is one custom command owned by a guild. Exactly one of
// Response/FunctionName/Code is populated, matching Kind; the validator
// clears the inactive fields before a definition is persisted.
type Definition struct {
	Trigger      string    `json:"trigger"`
	Kind         Kind      `json:"type"`
	Response     string    `json:"response,omitempty"`
	FunctionName string    `json:"function_name,omitempty"`
	Code         string    `json:"code,omitempty"`
	Description  string    `json:"description,omitempty"`
	Embed        bool      `json:"embed,omitempty"`
	CreatedBy    string    `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// InvocationContext is the read-only snapshot handed to every evaluation.
// Built fresh per dispatch, never shared between in-flight dispatches.
type InvocationContext struct {
	UserID      string
	Username    string
	GuildID     string
	GuildName   string
	MemberCount int
	ChannelID   string
	ChannelName string
}

// UserMention returns the platform mention for the invoking user.
func (c InvocationContext) UserMention() string { return "<@" + c.UserID + ">" }

// ChannelMention returns the platform mention for the invoking channel.
func (c InvocationContext) ChannelMention() string { return "<#" + c.ChannelID + ">" }

// Store persists command definitions per guild. Trigger comparisons are
// case-insensitive; implementations receive already-lowercased triggers.
// Insert must be atomic with respect to trigger uniqueness and the
// MaxCommandsPerGuild cap.
type Store interface {
	ListCommands(guildID string) ([]Definition, error)
	InsertCommand(guildID string, def Definition) error
	UpdateCommand(guildID, trigger string, def Definition) error
	DeleteCommand(guildID, trigger string) error
}

var (
	// ErrConflict is returned when a trigger already exists in a guild.
	ErrConflict = errors.New("trigger already exists")
	// ErrNotFound is returned when no command with the trigger exists.
	ErrNotFound = errors.New("command not found")
	// ErrTimeout is returned when a script exceeds its wall-clock deadline.
	ErrTimeout = errors.New("script timed out")
	// ErrOutputTooLarge is returned when a script result exceeds the output cap.
	ErrOutputTooLarge = errors.New("script output too large")
)

// ScriptError wraps a runtime fault raised by a sandboxed script. The host
// never crashes on one; the dispatcher turns it into a visible diagnostic.
type ScriptError struct {
	Message string
}

func (e *ScriptError) Error() string { return "script error: " + e.Message }

// ValidationError reports which authoring constraint a candidate violated.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
