package customcmd

import (
	"strings"
	"time"
)

// Service is the single authoring entry point. Every surface (the slash
// command and the dashboard HTTP API) funnels through it, so validation
// behavior is identical regardless of where a definition comes from.
type Service struct {
	store Store
	eval  *Evaluator
	now   func() time.Time
}

// NewService wires the authoring layer to a store and an evaluator (used
// only by Test).
func NewService(store Store, eval *Evaluator) *Service {
	return &Service{store: store, eval: eval, now: time.Now}
}

// Create validates a candidate and persists it. A duplicate trigger yields
// ErrConflict; a guild at MaxCommandsPerGuild yields a ValidationError. Both
// checks live inside the store's locked insert, so concurrent creates cannot
// slip past either bound.
func (s *Service) Create(guildID, authorID string, c Candidate) (Definition, error) {
	def, err := Validate(c)
	if err != nil {
		return Definition{}, err
	}

	def.CreatedBy = authorID
	def.CreatedAt = s.now()
	if err := s.store.InsertCommand(guildID, def); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// Edit applies a patch to an existing command. Supplying a content field
// re-tags Kind; see Patch.
func (s *Service) Edit(guildID, trigger string, p Patch) (Definition, error) {
	trigger = strings.ToLower(strings.TrimSpace(trigger))
	existing, err := s.Get(guildID, trigger)
	if err != nil {
		return Definition{}, err
	}

	def, err := applyPatch(existing, p)
	if err != nil {
		return Definition{}, err
	}
	def.UpdatedAt = s.now()

	if err := s.store.UpdateCommand(guildID, trigger, def); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// Remove deletes a command by trigger; ErrNotFound if absent.
func (s *Service) Remove(guildID, trigger string) error {
	return s.store.DeleteCommand(guildID, strings.ToLower(strings.TrimSpace(trigger)))
}

// List returns the guild's commands.
func (s *Service) List(guildID string) ([]Definition, error) {
	return s.store.ListCommands(guildID)
}

// Get returns one command by trigger; ErrNotFound if absent.
func (s *Service) Get(guildID, trigger string) (Definition, error) {
	defs, err := s.store.ListCommands(guildID)
	if err != nil {
		return Definition{}, err
	}
	for _, d := range defs {
		if d.Trigger == trigger {
			return d, nil
		}
	}
	return Definition{}, ErrNotFound
}

// Test evaluates a candidate without persisting anything: the same
// evaluation branches as live dispatch, run against the caller-supplied
// (usually synthetic) context. The trigger is not required.
func (s *Service) Test(c Candidate, ctx InvocationContext) (string, error) {
	if c.Trigger == "" {
		c.Trigger = "test"
	}
	def, err := Validate(c)
	if err != nil {
		return "", err
	}
	return s.eval.Evaluate(def, ctx), nil
}
