package command

import (
	"RoleBoard/cwlog"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/remeh/sizedwaitgroup"
)

const joinGrantThreads = 2

// GuildMemberAdd grants the guild's default roles to a new member.
func (d *Dispatcher) GuildMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.Member == nil || m.User == nil || !d.Config.Allowed(m.GuildID) {
		return
	}
	d.GrantGuildDefaults(m.GuildID, m.User.ID)
}

// GrantGuildDefaults returns the number of roles that failed to apply.
func (d *Dispatcher) GrantGuildDefaults(guildID, userID string) int {
	g, ok := d.Store.Guild(guildID)
	if !ok || len(g.DefaultRoleIDs) == 0 {
		return 0
	}

	wg := sizedwaitgroup.New(joinGrantThreads)
	failed := make([]bool, len(g.DefaultRoleIDs))
	for x, roleID := range g.DefaultRoleIDs {
		wg.Add()
		go func(x int, roleID string) {
			defer wg.Done()
			if err := d.Out.GrantRole(guildID, userID, roleID); err != nil {
				cwlog.DoLog(fmt.Sprintf("GuildMemberAdd: unable to assign %v to %v: %v", roleID, userID, err))
				failed[x] = true
			}
		}(x, roleID)
	}
	wg.Wait()

	count := 0
	for _, f := range failed {
		if f {
			count++
		}
	}
	return count
}

// GuildRoleDelete drops a deleted role from every channel of the guild.
func (d *Dispatcher) GuildRoleDelete(s *discordgo.Session, role *discordgo.GuildRoleDelete) {
	if !d.Config.Allowed(role.GuildID) {
		return
	}
	if err := d.SyncRoleDelete(role.GuildID, role.RoleID); err != nil {
		cwlog.DoLog("GuildRoleDelete: " + err.Error())
	}
}

func (d *Dispatcher) SyncRoleDelete(guildID, roleID string) error {
	unlock := d.Store.LockGuild(guildID)
	defer unlock()

	changed, dirty := d.Store.DropRole(guildID, roleID)
	if !dirty {
		return nil
	}
	cwlog.DoLog(fmt.Sprintf("Event: Removed role: %v for guild %v.", roleID, guildID))
	return d.persistAndRender(guildID, changed)
}

// GuildRoleUpdate keeps button labels in step with role names.
func (d *Dispatcher) GuildRoleUpdate(s *discordgo.Session, role *discordgo.GuildRoleUpdate) {
	if role.GuildRole == nil || role.Role == nil || !d.Config.Allowed(role.GuildID) {
		return
	}
	if err := d.SyncRoleRename(role.GuildID, role.Role.ID, role.Role.Name); err != nil {
		cwlog.DoLog("GuildRoleUpdate: " + err.Error())
	}
}

func (d *Dispatcher) SyncRoleRename(guildID, roleID, name string) error {
	unlock := d.Store.LockGuild(guildID)
	defer unlock()

	changed := d.Store.RenameRole(guildID, roleID, name)
	if len(changed) == 0 {
		return nil
	}
	cwlog.DoLog(fmt.Sprintf("Event: Updated role: %v for guild %v.", roleID, guildID))
	return d.persistAndRender(guildID, changed)
}

func (d *Dispatcher) persistAndRender(guildID string, channels []string) error {
	if err := d.persist(); err != nil {
		return err
	}
	for _, channelID := range channels {
		if err := d.render(nil, guildID, channelID); err != nil {
			return err
		}
	}
	return nil
}
