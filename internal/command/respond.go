package command

import (
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"shamash/internal/storage"
)

const EmbedColor = 0x5865f2

func Respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}

func RespondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func RespondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

func RespondEmbedEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}

func MessageRespond(s *discordgo.Session, channelID string, content string) error {
	_, err := s.ChannelMessageSend(channelID, content)
	return err
}

func LogCommand(s *discordgo.Session, st *storage.Storage, guildID, channelID, userID, username, commandName string) error {
	channelName := ""
	if channel, err := s.State.Channel(channelID); err == nil && channel != nil {
		channelName = channel.Name
	}
	guildName := ""
	if guild, err := s.State.Guild(guildID); err == nil && guild != nil {
		guildName = guild.Name
	}

	return st.AppendCommandToHistory(guildID, storage.CommandHistoryRecord{
		ChannelID:   channelID,
		ChannelName: channelName,
		GuildName:   guildName,
		UserID:      userID,
		Username:    username,
		Command:     commandName,
		Datetime:    time.Now(),
	})
}

// IsAdministrator reports whether the invoking member may manage custom
// commands: guild owner, Administrator, or Manage Server.
func IsAdministrator(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	member := i.Member
	if member == nil {
		return false
	}
	if member.Permissions&(discordgo.PermissionAdministrator|discordgo.PermissionManageGuild) != 0 {
		return true
	}

	guild, err := s.State.Guild(i.GuildID)
	if err != nil || guild == nil {
		guild, err = s.Guild(i.GuildID)
		if err != nil {
			log.Println("[WARN] Failed to fetch guild:", err)
			return false
		}
	}
	return member.User.ID == guild.OwnerID
}
