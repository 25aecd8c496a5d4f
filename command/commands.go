package command

import (
	"RoleBoard/cons"
	"RoleBoard/cwlog"
	"RoleBoard/db"
	"RoleBoard/page"
	"RoleBoard/resolve"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

var minText = 1

var cmds = []Command{
	{
		AppCmd: &discordgo.ApplicationCommand{
			Name:        "channel-add",
			Description: "Register this channel for self-assignable roles. (Admin / bot owner only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "title",
					Description: "Title of the role message.",
					Required:    true,
					MinLength:   &minText,
					MaxLength:   cons.MaxTitleLen,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "description",
					Description: "Body of the role message.",
					Required:    true,
					MinLength:   &minText,
					MaxLength:   cons.MaxDescLen,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "mode",
					Description: "Pick one role, or toggle many. Cannot be changed later.",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "single", Value: "single"},
						{Name: "multiple", Value: "multiple"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "default-role",
					Description: "Role granted to anyone who uses this channel's buttons.",
				},
			},
		},
		Command:   ChannelAdd,
		AdminOnly: true,
	},
	{
		AppCmd: &discordgo.ApplicationCommand{
			Name:        "channel-remove",
			Description: "Unregister this channel. (Admin / bot owner only)",
		},
		Command:   ChannelRemove,
		AdminOnly: true,
	},
	{
		AppCmd: &discordgo.ApplicationCommand{
			Name:        "role-add",
			Description: "Add a self-assignable role to this channel. (Admin / bot owner only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Role to add.",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "token",
					Description: "English name for the button, letters only, no spaces.",
					Required:    true,
				},
			},
		},
		Command:   RoleAdd,
		AdminOnly: true,
	},
	{
		AppCmd: &discordgo.ApplicationCommand{
			Name:        "role-remove",
			Description: "Remove a self-assignable role from this channel. (Admin / bot owner only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Role to remove.",
					Required:    true,
				},
			},
		},
		Command:   RoleRemove,
		AdminOnly: true,
	},
	{
		AppCmd: &discordgo.ApplicationCommand{
			Name:        "channel-notify",
			Description: "Re-send the role message in this channel. (Admin / bot owner only)",
		},
		Command:   ChannelNotify,
		AdminOnly: true,
	},
}

func ChannelAdd(d *Dispatcher, ev *Event) (string, error) {
	if d.Store.ChannelExists(ev.GuildID, ev.ChannelID) {
		return "", fmt.Errorf("%w: %v", ErrChannelAlreadyRegistered, ev.ChannelID)
	}

	title := strings.TrimSpace(ev.Options["title"])
	desc := strings.TrimSpace(ev.Options["description"])
	if title == "" || desc == "" || utf8.RuneCountInString(title) > cons.MaxTitleLen || utf8.RuneCountInString(desc) > cons.MaxDescLen {
		return "", ErrInvalidNotice
	}

	mode := db.Single
	if strings.EqualFold(ev.Options["mode"], "multiple") {
		mode = db.Multiple
	}

	ch := db.ChannelData{
		ChannelID:      ev.ChannelID,
		Notice:         db.Notice{Title: title, Description: desc},
		DefaultRoleIDs: []string{},
		AssignType:     mode,
		Roles:          []db.RoleData{},
	}
	if def := ev.Options["default-role"]; def != "" {
		ch.DefaultRoleIDs = append(ch.DefaultRoleIDs, def)
	}

	d.Store.UpsertChannel(ev.GuildID, ch)
	if err := d.persist(); err != nil {
		return "", err
	}

	cwlog.DoLog(fmt.Sprintf("Channel added: %v/%v (%v)", ev.GuildID, ev.ChannelID, mode))
	return "Channel registered. Add roles with /role-add.", nil
}

func ChannelRemove(d *Dispatcher, ev *Event) (string, error) {
	if !d.Store.ChannelExists(ev.GuildID, ev.ChannelID) {
		return "", fmt.Errorf("%w: %v", ErrChannelNotRegistered, ev.ChannelID)
	}

	d.Store.RemoveChannel(ev.GuildID, ev.ChannelID)
	if err := d.persist(); err != nil {
		return "", err
	}

	cwlog.DoLog(fmt.Sprintf("Channel removed: %v/%v", ev.GuildID, ev.ChannelID))
	return "Channel unregistered.", nil
}

func RoleAdd(d *Dispatcher, ev *Event) (string, error) {
	if !d.Store.ChannelExists(ev.GuildID, ev.ChannelID) {
		return "", fmt.Errorf("%w: %v", ErrChannelNotRegistered, ev.ChannelID)
	}

	token := ev.Options["token"]
	if !db.ValidToken(token) {
		return "", fmt.Errorf("%w: %q", ErrInvalidToken, token)
	}

	roleID := ev.Options["role"]
	label := ev.RoleNames[roleID]
	if label == "" {
		label = token
	}

	role := db.RoleData{Token: token, Label: label, RoleID: roleID}
	if err := d.Store.AddRole(ev.GuildID, ev.ChannelID, role); err != nil {
		return "", err
	}
	if err := d.persist(); err != nil {
		return "", err
	}

	cwlog.DoLog(fmt.Sprintf("Role added: %v (%v) to %v/%v", label, roleID, ev.GuildID, ev.ChannelID))
	if err := d.render(ev, ev.GuildID, ev.ChannelID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Role `%v` added and the role message was refreshed.", label), nil
}

func RoleRemove(d *Dispatcher, ev *Event) (string, error) {
	if !d.Store.ChannelExists(ev.GuildID, ev.ChannelID) {
		return "", fmt.Errorf("%w: %v", ErrChannelNotRegistered, ev.ChannelID)
	}

	removed, err := d.Store.RemoveRole(ev.GuildID, ev.ChannelID, ev.Options["role"])
	if err != nil {
		return "", err
	}
	if err := d.persist(); err != nil {
		return "", err
	}

	cwlog.DoLog(fmt.Sprintf("Role removed: %v (%v) from %v/%v", removed.Label, removed.RoleID, ev.GuildID, ev.ChannelID))
	if err := d.render(ev, ev.GuildID, ev.ChannelID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Role `%v` removed and the role message was refreshed.", removed.Label), nil
}

func ChannelNotify(d *Dispatcher, ev *Event) (string, error) {
	if !d.Store.ChannelExists(ev.GuildID, ev.ChannelID) {
		return "", fmt.Errorf("%w: %v", ErrChannelNotRegistered, ev.ChannelID)
	}
	if err := d.render(ev, ev.GuildID, ev.ChannelID); err != nil {
		return "", err
	}
	return "The role message was sent to this channel.", nil
}

// Pages lays out the role message for a channel.
func Pages(ch db.ChannelData) []page.Page {
	roles := make([]page.Button, 0, len(ch.Roles))
	for _, r := range ch.Roles {
		roles = append(roles, page.Button{CustomID: resolve.CustomID(r.Token), Label: r.Label})
	}

	var batch []page.Button
	if ch.AssignType == db.Multiple {
		batch = []page.Button{
			{CustomID: cons.SelectAllID, Label: "Select all"},
			{CustomID: cons.DeselectAllID, Label: "Deselect all"},
		}
	}
	return page.Plan(page.Header{Title: ch.Notice.Title, Description: ch.Notice.Description}, roles, batch)
}

// render clears recent messages and re-sends every page. ev may be nil for gateway events.
func (d *Dispatcher) render(ev *Event, guildID, channelID string) error {
	ch, ok := d.Store.Channel(guildID, channelID)
	if !ok {
		return fmt.Errorf("%w: %v", ErrChannelNotRegistered, channelID)
	}

	if ev != nil {
		if err := d.deferReply(ev); err != nil {
			return err
		}
	}

	if err := d.Out.PurgeRecent(channelID, cons.PurgeLimit); err != nil {
		return external("delete recent messages", err)
	}
	for n, p := range Pages(ch) {
		if err := d.Out.SendPage(channelID, p); err != nil {
			return external(fmt.Sprintf("send page %d", n+1), err)
		}
	}
	return nil
}
