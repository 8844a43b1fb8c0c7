package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	embed "github.com/clinet/discordgo-embed"

	"shamash/internal/version"
)

type AboutCommand struct{}

func (c *AboutCommand) Name() string        { return "about" }
func (c *AboutCommand) Description() string { return "Discover the origin of this bot" }
func (c *AboutCommand) Category() string    { return "🕯️ Information" }
func (c *AboutCommand) RequireAdmin() bool  { return false }

func (c *AboutCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *AboutCommand) Run(ctx interface{}) error {
	slash, ok := ctx.(*SlashInteractionContext)
	if !ok {
		return nil
	}

	buildDate := "unknown"
	if version.BuildDate != "" {
		if t, err := time.Parse(time.RFC3339, version.BuildDate); err == nil {
			buildDate = t.Format("2006-01-02")
		}
	}
	goVer := "unknown"
	if version.GoVersion != "" {
		goVer = strings.TrimPrefix(version.GoVersion, "go")
	}

	embedMsg := embed.NewEmbed().
		SetColor(EmbedColor).
		SetTitle(fmt.Sprintf("ℹ️ %s", version.AppFullName)).
		SetDescription("Serves custom commands your server's admins author themselves.").
		AddField("Version", version.Version).
		AddField("Release", fmt.Sprintf("%s (Go %s)", buildDate, goVer))

	return RespondEmbedEphemeral(slash.Session, slash.Event, embedMsg.MessageEmbed)
}

func init() {
	Register(&AboutCommand{}, WithGuildOnly())
}
