package command

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

type Middleware func(Command) Command

type wrappedCommand struct {
	Command
	wrap func(ctx interface{}) error
}

func (w *wrappedCommand) Run(ctx interface{}) error {
	if w.wrap != nil {
		return w.wrap(ctx)
	}
	return w.Command.Run(ctx)
}

func (w *wrappedCommand) SlashDefinition() *discordgo.ApplicationCommand {
	if sp, ok := w.Command.(SlashProvider); ok {
		return sp.SlashDefinition()
	}
	return nil
}

// WithGuildOnly drops invocations that arrive outside a guild (DMs).
func WithGuildOnly() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx interface{}) error {
				if v, ok := ctx.(*SlashInteractionContext); ok && v.Event.GuildID == "" {
					return nil
				}
				if v, ok := ctx.(*MessageContext); ok && v.Event.GuildID == "" {
					return nil
				}
				return cmd.Run(ctx)
			},
		}
	}
}

// WithAdminOnly rejects commands that declare RequireAdmin when the
// invoking member lacks Manage Server or Administrator.
func WithAdminOnly() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx interface{}) error {
				if !cmd.RequireAdmin() {
					return cmd.Run(ctx)
				}

				v, ok := ctx.(*SlashInteractionContext)
				if !ok {
					return cmd.Run(ctx)
				}
				if v.Event.Member == nil {
					return nil
				}
				if !IsAdministrator(v.Session, v.Event) {
					RespondEphemeral(v.Session, v.Event, "You need the **Manage Server** permission to use this command.")
					return nil
				}
				return cmd.Run(ctx)
			},
		}
	}
}

// WithCommandLogger records each execution to the guild's command history.
func WithCommandLogger() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx interface{}) error {
				err := cmd.Run(ctx)

				// Only slash invocations go to the audit log; every command
				// sees foreign contexts from the message fan-out and ignores
				// them, so logging those would record commands that never ran.
				if v, ok := ctx.(*SlashInteractionContext); ok {
					member := v.Event.Member
					if member == nil || v.Deps.Storage == nil {
						return err
					}
					user := member.User
					if e := LogCommand(v.Session, v.Deps.Storage, v.Event.GuildID, v.Event.ChannelID, user.ID, user.Username, cmd.Name()); e != nil {
						log.Printf("[WARN] Failed to log command /%s: %v", cmd.Name(), e)
					}
				}

				return err
			},
		}
	}
}
