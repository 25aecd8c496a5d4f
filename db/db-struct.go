package db

import (
	"github.com/sasha-s/go-deadlock"
)

type AssignType string

const (
	Single   AssignType = "SINGLE"
	Multiple AssignType = "MULTIPLE"
)

func (a AssignType) Valid() bool {
	return a == Single || a == Multiple
}

type Notice struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type RoleData struct {
	Token  string `json:"token"`
	Label  string `json:"label"`
	RoleID string `json:"roleId"`
}

type ChannelData struct {
	ChannelID      string     `json:"channelId"`
	Notice         Notice     `json:"notice"`
	DefaultRoleIDs []string   `json:"defaultRoleIds"`
	AssignType     AssignType `json:"roleAssignType"`
	Roles          []RoleData `json:"roles"`
}

type GuildData struct {
	GuildID        string        `json:"guildId"`
	DefaultRoleIDs []string      `json:"defaultRoleIds"`
	Channels       []ChannelData `json:"channels"`
}

// Store is the in-memory directory, always fully loaded, persisted as one snapshot.
type Store struct {
	path string

	lock   deadlock.RWMutex
	guilds []*GuildData
	lookup map[string]*GuildData

	/* Serializes read-modify-persist per guild */
	guildLocks     map[string]*deadlock.Mutex
	guildLocksLock deadlock.Mutex

	persistLock deadlock.Mutex
}

func (c ChannelData) clone() ChannelData {
	n := c
	n.DefaultRoleIDs = append([]string{}, c.DefaultRoleIDs...)
	n.Roles = append([]RoleData{}, c.Roles...)
	return n
}

func (g *GuildData) clone() GuildData {
	n := GuildData{GuildID: g.GuildID}
	n.DefaultRoleIDs = append([]string{}, g.DefaultRoleIDs...)
	n.Channels = make([]ChannelData, 0, len(g.Channels))
	for _, c := range g.Channels {
		n.Channels = append(n.Channels, c.clone())
	}
	return n
}

func (g *GuildData) channelIndex(channelID string) int {
	for pos, c := range g.Channels {
		if c.ChannelID == channelID {
			return pos
		}
	}
	return -1
}

// RoleByToken returns the mapping with the given token.
func (c *ChannelData) RoleByToken(token string) (RoleData, bool) {
	for _, r := range c.Roles {
		if r.Token == token {
			return r, true
		}
	}
	return RoleData{}, false
}

func (c *ChannelData) roleIndex(roleID string) int {
	for pos, r := range c.Roles {
		if r.RoleID == roleID {
			return pos
		}
	}
	return -1
}
