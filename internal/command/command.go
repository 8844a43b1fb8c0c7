// Package command defines the bot's command contract, registry, and the
// commands themselves. The Discord gateway hands every event to registered
// commands through typed contexts; each command type-asserts the context it
// handles and ignores the rest.
package command

import (
	"shamash/internal/config"
	"shamash/internal/customcmd"
	"shamash/internal/dashboard"
	"shamash/internal/storage"

	"github.com/bwmarrin/discordgo"
)

// Command is the contract every bot command implements.
type Command interface {
	Name() string
	Description() string
	Category() string
	RequireAdmin() bool
	Run(ctx interface{}) error
}

// SlashProvider is implemented by commands registered as slash commands.
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// Deps are the shared services handed to every command invocation.
type Deps struct {
	Storage    *storage.Storage
	Commands   *customcmd.Service
	Dispatcher *customcmd.Dispatcher
	Sessions   *dashboard.SessionStore
	Config     *config.Config
}

// SlashInteractionContext is passed when a slash command fires.
type SlashInteractionContext struct {
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Deps    *Deps
}

// MessageContext is passed for every ordinary guild message.
type MessageContext struct {
	Session *discordgo.Session
	Event   *discordgo.MessageCreate
	Deps    *Deps
}
