package command

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

type DashboardCommand struct{}

func (c *DashboardCommand) Name() string { return "dashboard" }
func (c *DashboardCommand) Description() string {
	return "Get a link to the web dashboard for this server"
}
func (c *DashboardCommand) Category() string   { return "⚙️ Maintenance" }
func (c *DashboardCommand) RequireAdmin() bool { return true }

func (c *DashboardCommand) SlashDefinition() *discordgo.ApplicationCommand {
	manageGuild := int64(discordgo.PermissionManageGuild)
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		Type:                     discordgo.ChatApplicationCommand,
		DefaultMemberPermissions: &manageGuild,
	}
}

func (c *DashboardCommand) Run(ctx interface{}) error {
	slash, ok := ctx.(*SlashInteractionContext)
	if !ok {
		return nil
	}

	s := slash.Session
	i := slash.Event
	deps := slash.Deps

	sess := deps.Sessions.Create(i.GuildID, i.Member.User.ID)
	msg := fmt.Sprintf(
		"🔑 Your dashboard session is ready.\n\nURL: %s\nToken: `%s`\n\nThe token expires <t:%d:R>. Keep it to yourself.",
		deps.Config.DashboardBaseURL, sess.Token, sess.ExpiresAt.Unix(),
	)
	return RespondEphemeral(s, i, msg)
}

func init() {
	Register(&DashboardCommand{}, WithCommandLogger(), WithAdminOnly(), WithGuildOnly())
}
