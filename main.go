package main

import (
	"RoleBoard/cfg"
	"RoleBoard/command"
	"RoleBoard/cons"
	"RoleBoard/cwlog"
	"RoleBoard/db"
	"RoleBoard/disc"
	"RoleBoard/glob"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	root := &cobra.Command{
		Use:   "roleboard",
		Short: "Discord bot for self-assignable role buttons",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&glob.ConfigPath, "config", cons.ConfigFile, "path to config file")
	root.Flags().BoolVar(&glob.DoRegisterCommands, "register", false, "register slash commands in every allowed guild")
	root.Flags().BoolVar(&glob.DoClearCommands, "deregister", false, "remove slash commands from every allowed guild before registering")
	root.AddCommand(validateCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [snapshot]",
		Short: "Check a role directory snapshot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				if !cfg.ReadCfg(glob.ConfigPath) {
					return fmt.Errorf("unable to read config %v", glob.ConfigPath)
				}
				path = cfg.Config.DataPath()
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			guilds, err := db.Decode(data)
			if err != nil {
				return err
			}

			channels, roles := 0, 0
			for _, g := range guilds {
				channels += len(g.Channels)
				for _, c := range g.Channels {
					roles += len(c.Roles)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%v: %v guilds, %v channels, %v roles\n", path, len(guilds), channels, roles)
			return nil
		},
	}
}

func run() error {
	glob.Uptime = time.Now().UTC().Round(time.Second)
	glob.ServerRunning.Store(true)
	cwlog.StartLog()
	disc.MainLoop()

	if !cfg.ReadCfg(glob.ConfigPath) {
		return fmt.Errorf("unable to read config %v", glob.ConfigPath)
	}
	cfg.WriteCfg(glob.ConfigPath)

	store := db.New(cfg.Config.DataPath())
	if err := store.Reload(); err != nil {
		cwlog.DoLog("Unable to load role directory: " + err.Error())
		return err
	}

	if cfg.Config.Token == "" {
		cwlog.DoLog("No discord token.")
		return fmt.Errorf("no discord token in %v", glob.ConfigPath)
	}

	go startbot(store)

	/* Wait here for process signals */
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	glob.ServerRunning.Store(false)
	if disc.Session != nil {
		disc.Session.Close()
	}
	cwlog.DoLog("RoleBoard stopped, uptime: " + time.Since(glob.Uptime).Round(time.Second).String())
	return nil
}

var DiscordConnectAttempts int

func startbot(store *db.Store) {
	cwlog.DoLog("RoleBoard " + version + " starting.")

	for DiscordConnectAttempts < cons.MaxDiscordAttempts {
		bot, err := discordgo.New("Bot " + cfg.Config.Token)
		if err == nil {
			bot.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers
			bot.LogLevel = discordgo.LogWarning

			dispatcher := command.NewDispatcher(store, &cfg.Config, &disc.Platform{S: bot})
			bot.AddHandler(botReady)
			bot.AddHandler(dispatcher.InteractionCreate)
			bot.AddHandler(dispatcher.GuildMemberAdd)
			bot.AddHandler(dispatcher.GuildRoleDelete)
			bot.AddHandler(dispatcher.GuildRoleUpdate)

			err = bot.Open()
			if err == nil {
				disc.Session = bot
				return
			}
		}

		cwlog.DoLog(fmt.Sprintf("An error occurred when attempting to create the Discord session. Details: %v", err))
		DiscordConnectAttempts++
		time.Sleep(time.Minute * 5)
	}
	cwlog.DoLog("Giving up on Discord connection.")
}

func botReady(s *discordgo.Session, r *discordgo.Ready) {
	disc.Ready = r
	cwlog.DoLog(fmt.Sprintf("Discord bot ready as %v, %v guilds allowed.", r.User.Username, len(cfg.Config.Guilds)))

	if glob.DoClearCommands {
		command.ClearCommands(s, cfg.Config.App, cfg.Config.Guilds)
	}
	if glob.DoRegisterCommands {
		n := command.RegisterCommands(s, cfg.Config.App, cfg.Config.Owner, cfg.Config.Guilds)
		cwlog.DoLog(fmt.Sprintf("Commands registered in %v of %v guilds.", n, len(cfg.Config.Guilds)))
	}
}
