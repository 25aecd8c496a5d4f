package command

import (
	"RoleBoard/cons"
	"RoleBoard/cwlog"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/remeh/sizedwaitgroup"
)

type Command struct {
	Command func(d *Dispatcher, ev *Event) (string, error)
	AppCmd  *discordgo.ApplicationCommand

	AdminOnly bool
}

var adminPerms int64 = discordgo.PermissionAdministrator
var defaultPerms int64 = discordgo.PermissionUseSlashCommands

// CommandRegistrar is the part of the session used for slash command registration.
type CommandRegistrar interface {
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// AppCommands returns the slash command schema. With an owner configured,
// admin commands stay visible to everyone and are checked when run.
func AppCommands(owner string) []*discordgo.ApplicationCommand {
	list := make([]*discordgo.ApplicationCommand, 0, len(cmds))
	for _, o := range cmds {
		appCmd := *o.AppCmd
		if o.AdminOnly && owner == "" {
			appCmd.DefaultMemberPermissions = &adminPerms
		} else {
			appCmd.DefaultMemberPermissions = &defaultPerms
		}
		list = append(list, &appCmd)
	}
	return list
}

// RegisterCommands overwrites the guild commands of every allow-listed guild.
func RegisterCommands(s CommandRegistrar, app, owner string, guilds []string) int {
	return overwriteCommands(s, app, guilds, AppCommands(owner), "Registered")
}

// ClearCommands removes our guild commands from every allow-listed guild.
func ClearCommands(s CommandRegistrar, app string, guilds []string) int {
	return overwriteCommands(s, app, guilds, []*discordgo.ApplicationCommand{}, "Deregistered")
}

func overwriteCommands(s CommandRegistrar, app string, guilds []string, list []*discordgo.ApplicationCommand, verb string) int {
	wg := sizedwaitgroup.New(cons.RegisterThreads)
	results := make([]bool, len(guilds))

	for x, guildID := range guilds {
		wg.Add()
		go func(x int, guildID string) {
			defer wg.Done()

			_, err := s.ApplicationCommandBulkOverwrite(app, guildID, list)
			if err != nil {
				cwlog.DoLog(fmt.Sprintf("Failed to overwrite commands in guild %v: %v", guildID, err))
				return
			}
			cwlog.DoLog(fmt.Sprintf("%v %v commands in guild %v", verb, len(list), guildID))
			results[x] = true
		}(x, guildID)
	}
	wg.Wait()

	count := 0
	for _, ok := range results {
		if ok {
			count++
		}
	}
	return count
}
