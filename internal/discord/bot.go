// Package discord runs the gateway session: it registers slash commands,
// routes interactions to the command registry, and feeds every guild
// message through the custom-command dispatcher.
package discord

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"shamash/internal/command"
	"shamash/internal/customcmd"
)

// Bot is the Discord gateway worker.
type Bot struct {
	dg   *discordgo.Session
	deps *command.Deps
}

func NewBot(deps *command.Deps) *Bot {
	return &Bot{deps: deps}
}

// Run opens the gateway session and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.run(ctx, b.deps.Config.DiscordToken); err != nil {
		return fmt.Errorf("bot run error: %w", err)
	}
	return nil
}

func (b *Bot) run(ctx context.Context, token string) error {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.dg = dg

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentMessageContent

	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onGuildCreate)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onInteractionCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	log.Println("[INFO] ❎ Shutdown signal received. Cleaning up...")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	botInfo, err := s.User("@me")
	if err != nil {
		log.Println("[WARN] Error retrieving bot user:", err)
		return
	}

	if b.deps.Config.InitSlashCommands {
		for _, g := range r.Guilds {
			if err := b.registerCommands(g.ID); err != nil {
				log.Println("[ERR] Error registering slash commands for guild", g.ID, ":", err)
			}
		}
	} else {
		log.Println("[INFO] Registering slash commands skipped")
	}

	log.Printf("[INFO] ✅ Discord bot %v is running.", botInfo.Username)
}

func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	log.Printf("[INFO] Bot added to guild: %s (%s)", g.Guild.ID, g.Guild.Name)

	if b.deps.Config.InitSlashCommands {
		if err := b.registerCommands(g.Guild.ID); err != nil {
			log.Printf("[ERR] Failed to register commands for new guild %s: %v", g.Guild.ID, err)
		}
	}
}

// onMessageCreate runs every registered command against the message; in
// practice that is the custom-command dispatcher, which decides on its own
// whether anything matches.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	ctx := &command.MessageContext{
		Session: s,
		Event:   m,
		Deps:    b.deps,
	}
	for _, cmd := range command.All() {
		if err := cmd.Run(ctx); err != nil {
			log.Println("[ERR] Error running message command:", err)
		}
	}
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	cmdName := i.ApplicationCommandData().Name
	cmd, ok := command.Get(cmdName)
	if !ok {
		log.Printf("[WARN] Unknown command: %s", cmdName)
		return
	}

	ctx := &command.SlashInteractionContext{
		Session: s,
		Event:   i,
		Deps:    b.deps,
	}
	if err := cmd.Run(ctx); err != nil {
		log.Println("[ERR] Error running slash command:", err)
		command.RespondEphemeral(s, i, fmt.Sprintf("Error running command: `%v`", err))
	}
}

// Snapshot builds an evaluation context for a guild from session state; used
// by the dashboard's test endpoint, where there is no live message to take
// identity from.
func (b *Bot) Snapshot(guildID string) customcmd.InvocationContext {
	ctx := customcmd.InvocationContext{GuildID: guildID}
	if b.dg == nil {
		return ctx
	}
	if guild, err := b.dg.State.Guild(guildID); err == nil && guild != nil {
		ctx.GuildName = guild.Name
		ctx.MemberCount = guild.MemberCount
	}
	return ctx
}
