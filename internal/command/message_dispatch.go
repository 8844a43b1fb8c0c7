package command

import (
	"log"

	"github.com/bwmarrin/discordgo"
	embed "github.com/clinet/discordgo-embed"

	"shamash/internal/customcmd"
)

// DispatchCommand matches every ordinary guild message against the guild's
// custom commands. No match, a muted actor, or a deleted command is silence;
// a match produces exactly one reply.
type DispatchCommand struct{}

func (c *DispatchCommand) Name() string        { return "custom-dispatch" }
func (c *DispatchCommand) Description() string { return "Runs stored custom commands on messages" }
func (c *DispatchCommand) Category() string    { return "🎭 Custom" }
func (c *DispatchCommand) RequireAdmin() bool  { return false }

func (c *DispatchCommand) Run(ctx interface{}) error {
	msg, ok := ctx.(*MessageContext)
	if !ok {
		return nil
	}

	s := msg.Session
	m := msg.Event

	out, matched := msg.Deps.Dispatcher.Dispatch(m.GuildID, snapshotFromMessage(s, m), m.Content)
	if !matched {
		return nil
	}
	if out.Text == "" {
		return nil
	}

	var err error
	if out.Embed {
		embedMsg := embed.NewEmbed().SetColor(EmbedColor).SetDescription(out.Text)
		_, err = s.ChannelMessageSendEmbed(m.ChannelID, embedMsg.MessageEmbed)
	} else {
		_, err = s.ChannelMessageSend(m.ChannelID, out.Text)
	}
	if err != nil {
		log.Printf("[WARN] Failed to deliver custom command reply in %s: %v", m.ChannelID, err)
	}
	return nil
}

// snapshotFromMessage builds an evaluation context from an inbound message.
func snapshotFromMessage(s *discordgo.Session, m *discordgo.MessageCreate) customcmd.InvocationContext {
	ctx := customcmd.InvocationContext{
		UserID:    m.Author.ID,
		Username:  m.Author.Username,
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
	}
	if guild, err := s.State.Guild(m.GuildID); err == nil && guild != nil {
		ctx.GuildName = guild.Name
		ctx.MemberCount = guild.MemberCount
	}
	if channel, err := s.State.Channel(m.ChannelID); err == nil && channel != nil {
		ctx.ChannelName = channel.Name
	}
	return ctx
}

func init() {
	Register(&DispatchCommand{}, WithGuildOnly())
}
