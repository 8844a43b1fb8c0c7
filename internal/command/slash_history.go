package command

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const (
	codeLeftBlockWrapper  = "```md\n"
	codeRightBlockWrapper = "```"
)

var maxHistoryContentLength = 2000 - len(codeLeftBlockWrapper) - len(codeRightBlockWrapper)

type HistoryCommand struct{}

func (c *HistoryCommand) Name() string        { return "history" }
func (c *HistoryCommand) Description() string { return "Review recent command activity on this server" }
func (c *HistoryCommand) Category() string    { return "⚙️ Maintenance" }
func (c *HistoryCommand) RequireAdmin() bool  { return true }

func (c *HistoryCommand) SlashDefinition() *discordgo.ApplicationCommand {
	manageGuild := int64(discordgo.PermissionManageGuild)
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		DefaultMemberPermissions: &manageGuild,
	}
}

func (c *HistoryCommand) Run(ctx interface{}) error {
	slash, ok := ctx.(*SlashInteractionContext)
	if !ok {
		return nil
	}

	s := slash.Session
	i := slash.Event

	records, err := slash.Deps.Storage.FetchCommandHistory(i.GuildID)
	if err != nil {
		return RespondEphemeral(s, i, fmt.Sprintf("Failed to fetch command history: `%v`", err))
	}
	if len(records) == 0 {
		return RespondEphemeral(s, i, "No command activity recorded yet.")
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%-19s\t%-15s\t%-12s\t%s\n", "# Datetime", "# Username", "# Channel", "# Command"))

	// Newest first, stop before the message limit.
	for idx := len(records) - 1; idx >= 0; idx-- {
		r := records[idx]
		line := fmt.Sprintf(
			"%-19s\t%-15s\t#%-12s\t/%s\n",
			r.Datetime.Format("2006-01-02 15:04:05"),
			r.Username,
			r.ChannelName,
			r.Command,
		)
		if builder.Len()+len(line) > maxHistoryContentLength {
			break
		}
		builder.WriteString(line)
	}

	return RespondEphemeral(s, i, codeLeftBlockWrapper+builder.String()+codeRightBlockWrapper)
}

func init() {
	Register(&HistoryCommand{}, WithAdminOnly(), WithGuildOnly())
}
