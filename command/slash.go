package command

import (
	"RoleBoard/cfg"
	"RoleBoard/cwlog"
	"RoleBoard/db"
	"RoleBoard/disc"
	"RoleBoard/page"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Platform is the outbound side of Discord used by the dispatcher.
type Platform interface {
	Defer(in *discordgo.Interaction) error
	Reply(in *discordgo.Interaction, deferred bool, color int, title, message string) error
	SendPage(channelID string, p page.Page) error
	PurgeRecent(channelID string, limit int) error
	GrantRole(guildID, userID, roleID string) error
	RevokeRole(guildID, userID, roleID string) error
}

type EventKind int

const (
	SlashEvent EventKind = iota
	ButtonEvent
)

// Event is an inbound interaction reduced to what the dispatcher needs.
type Event struct {
	Interaction *discordgo.Interaction
	Kind        EventKind

	GuildID     string
	ChannelID   string
	UserID      string
	Admin       bool
	MemberRoles []string

	/* Slash commands */
	Name      string
	Options   map[string]string
	RoleNames map[string]string

	/* Buttons */
	CustomID string

	deferred bool
}

type Dispatcher struct {
	Store  *db.Store
	Config *cfg.ServerConfig
	Out    Platform
}

func NewDispatcher(store *db.Store, config *cfg.ServerConfig, out Platform) *Dispatcher {
	return &Dispatcher{Store: store, Config: config, Out: out}
}

// FromInteraction converts a gateway interaction. ok is false for events we never handle.
func FromInteraction(i *discordgo.InteractionCreate) (*Event, bool) {
	/* Ignore DMs */
	if i.Member == nil || i.Member.User == nil {
		return nil, false
	}

	ev := &Event{
		Interaction: i.Interaction,
		GuildID:     i.GuildID,
		ChannelID:   i.ChannelID,
		UserID:      i.Member.User.ID,
		Admin:       i.Member.Permissions&discordgo.PermissionAdministrator != 0,
		MemberRoles: i.Member.Roles,
	}

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		ev.Kind = SlashEvent
		ev.Name = data.Name
		ev.Options = make(map[string]string)
		ev.RoleNames = make(map[string]string)
		for _, o := range data.Options {
			ev.Options[o.Name] = fmt.Sprint(o.Value)
		}
		if data.Resolved != nil {
			for id, r := range data.Resolved.Roles {
				ev.RoleNames[id] = r.Name
			}
		}
	case discordgo.InteractionMessageComponent:
		ev.Kind = ButtonEvent
		ev.CustomID = i.MessageComponentData().CustomID
	default:
		return nil, false
	}
	return ev, true
}

// InteractionCreate is the gateway handler.
func (d *Dispatcher) InteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {

	/* Ignore possible malicious or erroneous */
	if d.Config.App != "" && i.AppID != d.Config.App {
		return
	}

	ev, ok := FromInteraction(i)
	if !ok {
		return
	}
	d.Handle(ev)
}

// Handle runs one event to completion and sends its single reply.
func (d *Dispatcher) Handle(ev *Event) {

	/* Guilds outside the allow-list are silently ignored */
	if !d.Config.Allowed(ev.GuildID) {
		return
	}

	if ev.Kind == ButtonEvent {
		msg, err := d.handleButton(ev)
		if msg == "" && err == nil {
			return
		}
		d.reply(ev, msg, err)
		return
	}

	for _, c := range cmds {
		if c.AppCmd.Name != ev.Name {
			continue
		}
		if c.AdminOnly && !d.authorized(ev) {
			cwlog.DoLog(fmt.Sprintf("Permission denied: %v /%v in guild %v", ev.UserID, ev.Name, ev.GuildID))
			d.reply(ev, "", ErrPermissionDenied)
			return
		}

		/* Read-modify-persist for one guild never interleaves */
		msg, err := func() (string, error) {
			unlock := d.Store.LockGuild(ev.GuildID)
			defer unlock()
			return c.Command(d, ev)
		}()

		if err != nil {
			cwlog.DoLog(fmt.Sprintf("/%v in %v/%v failed: %v", ev.Name, ev.GuildID, ev.ChannelID, err))
		}
		d.reply(ev, msg, err)
		return
	}

	/* Stale registration from an older build */
	cwlog.DoLog(fmt.Sprintf("Unknown command /%v in guild %v", ev.Name, ev.GuildID))
	d.reply(ev, "", fmt.Errorf("%w: /%v", ErrUnknownCommand, ev.Name))
}

func (d *Dispatcher) authorized(ev *Event) bool {
	if ev.Admin {
		return true
	}
	return d.Config.Owner != "" && ev.UserID == d.Config.Owner
}

func (d *Dispatcher) reply(ev *Event, msg string, err error) {
	color, title := disc.DiscGreen, "Done:"
	if err != nil {
		color, title, msg = disc.DiscRed, "ERROR:", describe(err)
	}
	if rerr := d.Out.Reply(ev.Interaction, ev.deferred, color, title, msg); rerr != nil {
		cwlog.DoLog("Reply failed: " + rerr.Error())
	}
}

func (d *Dispatcher) deferReply(ev *Event) error {
	if ev.deferred {
		return nil
	}
	if err := d.Out.Defer(ev.Interaction); err != nil {
		return external("acknowledge interaction", err)
	}
	ev.deferred = true
	return nil
}

func (d *Dispatcher) persist() error {
	if err := d.Store.Persist(); err != nil {
		return external("save directory", err)
	}
	return nil
}
