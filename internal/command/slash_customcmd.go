package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	embed "github.com/clinet/discordgo-embed"

	"shamash/internal/customcmd"
)

type CustomCmdCommand struct{}

func (c *CustomCmdCommand) Name() string { return "customcmd" }
func (c *CustomCmdCommand) Description() string {
	return "Create and manage this server's custom commands"
}
func (c *CustomCmdCommand) Category() string   { return "⚙️ Maintenance" }
func (c *CustomCmdCommand) RequireAdmin() bool { return true }

func (c *CustomCmdCommand) SlashDefinition() *discordgo.ApplicationCommand {
	manageGuild := int64(discordgo.PermissionManageGuild)
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		Type:                     discordgo.ChatApplicationCommand,
		DefaultMemberPermissions: &manageGuild,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "create",
				Description: "Create a new custom command",
				Options: []*discordgo.ApplicationCommandOption{
					triggerOption("Word or phrase that activates the command"),
					typeOption(true),
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "content",
						Description: "Template text, built-in function name, or script body",
						Required:    true,
					},
					descriptionOption(),
					embedOption(),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "edit",
				Description: "Edit an existing custom command",
				Options: []*discordgo.ApplicationCommandOption{
					triggerOption("Trigger of the command to edit"),
					typeOption(false),
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "content",
						Description: "New template text, function name, or script body",
					},
					descriptionOption(),
					embedOption(),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "delete",
				Description: "Delete a custom command",
				Options: []*discordgo.ApplicationCommandOption{
					triggerOption("Trigger of the command to delete"),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "List this server's custom commands",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "test",
				Description: "Dry-run a command definition without saving it",
				Options: []*discordgo.ApplicationCommandOption{
					typeOption(true),
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "content",
						Description: "Template text, built-in function name, or script body",
						Required:    true,
					},
				},
			},
		},
	}
}

func triggerOption(desc string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "trigger",
		Description: desc,
		Required:    true,
	}
}

func typeOption(required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "type",
		Description: "What kind of command this is",
		Required:    required,
		Choices: []*discordgo.ApplicationCommandOptionChoice{
			{Name: "Text template", Value: string(customcmd.KindText)},
			{Name: "Built-in function", Value: string(customcmd.KindFunction)},
			{Name: "Script", Value: string(customcmd.KindCode)},
		},
	}
}

func descriptionOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "description",
		Description: "Short description shown in the command list",
	}
}

func embedOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionBoolean,
		Name:        "embed",
		Description: "Send the response as an embed",
	}
}

func (c *CustomCmdCommand) Run(ctx interface{}) error {
	slash, ok := ctx.(*SlashInteractionContext)
	if !ok {
		return nil
	}

	s := slash.Session
	i := slash.Event
	deps := slash.Deps

	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return RespondEphemeral(s, i, "Missing subcommand.")
	}
	sub := data.Options[0]
	opts := subOptions(sub)

	switch sub.Name {
	case "create":
		return c.runCreate(s, i, deps, opts)
	case "edit":
		return c.runEdit(s, i, deps, opts)
	case "delete":
		return c.runDelete(s, i, deps, opts)
	case "list":
		return c.runList(s, i, deps)
	case "test":
		return c.runTest(s, i, deps, opts)
	default:
		return RespondEphemeral(s, i, fmt.Sprintf("Unknown subcommand `%s`.", sub.Name))
	}
}

func subOptions(sub *discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(sub.Options))
	for _, opt := range sub.Options {
		opts[opt.Name] = opt
	}
	return opts
}

func (c *CustomCmdCommand) runCreate(s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) error {
	candidate := customcmd.Candidate{
		Trigger: stringOpt(opts, "trigger"),
		Kind:    customcmd.Kind(stringOpt(opts, "type")),
	}
	assignContent(&candidate, stringOpt(opts, "content"))
	candidate.Description = stringOpt(opts, "description")
	if opt, ok := opts["embed"]; ok {
		candidate.Embed = opt.BoolValue()
	}

	def, err := deps.Commands.Create(i.GuildID, i.Member.User.ID, candidate)
	if err != nil {
		return respondCommandError(s, i, err)
	}
	return RespondEphemeral(s, i, fmt.Sprintf("✅ Created `%s` (%s).", def.Trigger, def.Kind))
}

func (c *CustomCmdCommand) runEdit(s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) error {
	trigger := stringOpt(opts, "trigger")

	var patch customcmd.Patch
	if opt, ok := opts["content"]; ok {
		content := opt.StringValue()
		switch customcmd.Kind(stringOpt(opts, "type")) {
		case customcmd.KindFunction:
			patch.FunctionName = &content
		case customcmd.KindCode:
			patch.Code = &content
		case customcmd.KindText:
			patch.Response = &content
		default:
			return RespondEphemeral(s, i, "Supply `type` along with `content` so I know what the new content is.")
		}
	}
	if opt, ok := opts["description"]; ok {
		desc := opt.StringValue()
		patch.Description = &desc
	}
	if opt, ok := opts["embed"]; ok {
		embedFlag := opt.BoolValue()
		patch.Embed = &embedFlag
	}

	def, err := deps.Commands.Edit(i.GuildID, trigger, patch)
	if err != nil {
		return respondCommandError(s, i, err)
	}
	return RespondEphemeral(s, i, fmt.Sprintf("✅ Updated `%s` (%s).", def.Trigger, def.Kind))
}

func (c *CustomCmdCommand) runDelete(s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) error {
	trigger := stringOpt(opts, "trigger")
	if err := deps.Commands.Remove(i.GuildID, trigger); err != nil {
		return respondCommandError(s, i, err)
	}
	return RespondEphemeral(s, i, fmt.Sprintf("🗑️ Deleted `%s`.", strings.ToLower(strings.TrimSpace(trigger))))
}

func (c *CustomCmdCommand) runList(s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps) error {
	defs, err := deps.Commands.List(i.GuildID)
	if err != nil {
		return respondCommandError(s, i, err)
	}
	if len(defs) == 0 {
		return RespondEphemeral(s, i, "This server has no custom commands yet. Start with `/customcmd create`.")
	}

	var b strings.Builder
	for _, def := range defs {
		fmt.Fprintf(&b, "`%s` — %s", def.Trigger, def.Kind)
		if def.Description != "" {
			fmt.Fprintf(&b, ": %s", def.Description)
		}
		b.WriteString("\n")
	}

	embedMsg := embed.NewEmbed().
		SetColor(EmbedColor).
		SetTitle(fmt.Sprintf("Custom commands (%d/%d)", len(defs), customcmd.MaxCommandsPerGuild)).
		SetDescription(b.String())
	return RespondEmbedEphemeral(s, i, embedMsg.MessageEmbed)
}

func (c *CustomCmdCommand) runTest(s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) error {
	candidate := customcmd.Candidate{
		Kind: customcmd.Kind(stringOpt(opts, "type")),
	}
	assignContent(&candidate, stringOpt(opts, "content"))

	output, err := deps.Commands.Test(candidate, snapshotFromInteraction(s, i))
	if err != nil {
		return respondCommandError(s, i, err)
	}
	if output == "" {
		return RespondEphemeral(s, i, "*(empty output — nothing would be sent)*")
	}
	return RespondEphemeral(s, i, output)
}

func assignContent(candidate *customcmd.Candidate, content string) {
	switch candidate.Kind {
	case customcmd.KindFunction:
		candidate.FunctionName = content
	case customcmd.KindCode:
		candidate.Code = content
	default:
		candidate.Response = content
	}
}

func stringOpt(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := opts[name]; ok {
		return opt.StringValue()
	}
	return ""
}

// snapshotFromInteraction builds an evaluation context from a live slash
// interaction, falling back gracefully when state is cold.
func snapshotFromInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) customcmd.InvocationContext {
	ctx := customcmd.InvocationContext{
		UserID:    i.Member.User.ID,
		Username:  i.Member.User.Username,
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
	}
	if guild, err := s.State.Guild(i.GuildID); err == nil && guild != nil {
		ctx.GuildName = guild.Name
		ctx.MemberCount = guild.MemberCount
	}
	if channel, err := s.State.Channel(i.ChannelID); err == nil && channel != nil {
		ctx.ChannelName = channel.Name
	}
	return ctx
}

func respondCommandError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) error {
	var verr *customcmd.ValidationError
	switch {
	case errors.As(err, &verr):
		return RespondEphemeral(s, i, fmt.Sprintf("❌ %s.", verr.Error()))
	case errors.Is(err, customcmd.ErrConflict):
		return RespondEphemeral(s, i, "❌ A command with that trigger already exists. Edit or delete it first.")
	case errors.Is(err, customcmd.ErrNotFound):
		return RespondEphemeral(s, i, "❌ No command with that trigger.")
	default:
		return RespondEphemeral(s, i, fmt.Sprintf("❌ Something went wrong: `%v`", err))
	}
}

func init() {
	Register(&CustomCmdCommand{}, WithCommandLogger(), WithAdminOnly(), WithGuildOnly())
}
