package discord

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"shamash/internal/command"
)

// registerCommands bulk-overwrites a guild's slash commands with the current
// registry. Commands that expose no slash definition (the message
// dispatcher) are skipped.
func (b *Bot) registerCommands(guildID string) error {
	appID := b.dg.State.User.ID
	if appID == "" {
		user, err := b.dg.User("@me")
		if err != nil {
			return fmt.Errorf("resolve application ID: %w", err)
		}
		appID = user.ID
	}

	var wanted []*discordgo.ApplicationCommand
	for _, cmd := range command.All() {
		sp, ok := cmd.(command.SlashProvider)
		if !ok {
			continue
		}
		if def := sp.SlashDefinition(); def != nil {
			wanted = append(wanted, def)
		}
	}

	if _, err := b.dg.ApplicationCommandBulkOverwrite(appID, guildID, wanted); err != nil {
		return fmt.Errorf("bulk overwrite: %w", err)
	}
	log.Printf("[INFO] Registered %d slash commands for guild %s", len(wanted), guildID)
	return nil
}
