package disc

import (
	"RoleBoard/cons"
	"RoleBoard/page"
	"time"

	"github.com/bwmarrin/discordgo"
)

var (
	Session *discordgo.Session
	Ready   *discordgo.Ready
)

const (
	DiscGreen  = cons.ColorGreen
	DiscRed    = cons.ColorRed
	DiscOrange = cons.ColorNotice
)

/* Discord refuses to bulk delete messages older than two weeks */
const bulkDeleteMaxAge = 14 * 24 * time.Hour

// Platform performs the outbound Discord calls for the dispatcher.
type Platform struct {
	S *discordgo.Session
}

func (p *Platform) Defer(in *discordgo.Interaction) error {
	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}
	return p.S.InteractionRespond(in, resp)
}

// Reply answers ephemerally, editing the deferred response if there is one.
func (p *Platform) Reply(in *discordgo.Interaction, deferred bool, color int, title, message string) error {
	embed := []*discordgo.MessageEmbed{{Title: title, Description: message, Color: color}}

	if deferred {
		_, err := p.S.InteractionResponseEdit(in, &discordgo.WebhookEdit{Embeds: &embed})
		return err
	}

	respData := &discordgo.InteractionResponseData{Embeds: embed, Flags: discordgo.MessageFlagsEphemeral}
	resp := &discordgo.InteractionResponse{Type: discordgo.InteractionResponseChannelMessageWithSource, Data: respData}
	return p.S.InteractionRespond(in, resp)
}

func (p *Platform) SendPage(channelID string, pg page.Page) error {
	_, err := p.S.ChannelMessageSendComplex(channelID, RenderPage(pg))
	return err
}

// PurgeRecent deletes up to limit recent messages in the channel.
func (p *Platform) PurgeRecent(channelID string, limit int) error {
	msgs, err := p.S.ChannelMessages(channelID, limit, "", "", "")
	if err != nil {
		return err
	}

	var ids []string
	for _, m := range msgs {
		if time.Since(m.Timestamp) < bulkDeleteMaxAge {
			ids = append(ids, m.ID)
		}
	}

	switch len(ids) {
	case 0:
		return nil
	case 1:
		return p.S.ChannelMessageDelete(channelID, ids[0])
	default:
		return p.S.ChannelMessagesBulkDelete(channelID, ids)
	}
}

func (p *Platform) GrantRole(guildID, userID, roleID string) error {
	return p.S.GuildMemberRoleAdd(guildID, userID, roleID)
}

func (p *Platform) RevokeRole(guildID, userID, roleID string) error {
	return p.S.GuildMemberRoleRemove(guildID, userID, roleID)
}

// RenderPage builds the message for one page: optional embed, one row of buttons.
func RenderPage(pg page.Page) *discordgo.MessageSend {
	msg := &discordgo.MessageSend{}

	if pg.Embed != nil {
		msg.Embeds = []*discordgo.MessageEmbed{{
			Title:       pg.Embed.Title,
			Description: pg.Embed.Description,
			Color:       DiscOrange,
			Footer:      &discordgo.MessageEmbedFooter{Text: cons.NoticeFooter},
		}}
	}

	row := discordgo.ActionsRow{}
	for _, b := range pg.Controls {
		row.Components = append(row.Components, discordgo.Button{
			Label:    b.Label,
			Style:    discordgo.PrimaryButton,
			CustomID: b.CustomID,
		})
	}
	if len(row.Components) > 0 {
		msg.Components = []discordgo.MessageComponent{row}
	}
	return msg
}
