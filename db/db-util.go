package db

import (
	"RoleBoard/cons"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrInvalidSnapshot = errors.New("invalid snapshot")

var tokenRule = regexp.MustCompile(cons.TokenPattern)

/* Tokens that would collide with the batch button ids */
var reservedTokens = map[string]struct{}{
	strings.TrimPrefix(cons.SelectAllID, cons.ButtonPrefix):   {},
	strings.TrimPrefix(cons.DeselectAllID, cons.ButtonPrefix): {},
}

// ValidToken reports whether s can be used as a button token.
func ValidToken(s string) bool {
	if _, reserved := reservedTokens[s]; reserved {
		return false
	}
	return tokenRule.MatchString(s)
}

// Decode parses a snapshot and checks the directory invariants.
func Decode(data []byte) ([]GuildData, error) {
	var guilds []GuildData
	if err := json.Unmarshal(data, &guilds); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if guilds == nil {
		guilds = []GuildData{}
	}

	seenGuild := make(map[string]struct{})
	for gpos := range guilds {
		g := &guilds[gpos]
		if g.GuildID == "" {
			return nil, fmt.Errorf("%w: guild %d: guildId is required", ErrInvalidSnapshot, gpos)
		}
		if _, ok := seenGuild[g.GuildID]; ok {
			return nil, fmt.Errorf("%w: duplicate guild %v", ErrInvalidSnapshot, g.GuildID)
		}
		seenGuild[g.GuildID] = struct{}{}

		if g.DefaultRoleIDs == nil {
			g.DefaultRoleIDs = []string{}
		}
		if g.Channels == nil {
			g.Channels = []ChannelData{}
		}

		seenChannel := make(map[string]struct{})
		for cpos := range g.Channels {
			c := &g.Channels[cpos]
			if err := validateChannel(c); err != nil {
				return nil, fmt.Errorf("%w: guild %v channel %d: %v", ErrInvalidSnapshot, g.GuildID, cpos, err)
			}
			if _, ok := seenChannel[c.ChannelID]; ok {
				return nil, fmt.Errorf("%w: guild %v: duplicate channel %v", ErrInvalidSnapshot, g.GuildID, c.ChannelID)
			}
			seenChannel[c.ChannelID] = struct{}{}
		}
	}
	return guilds, nil
}

func validateChannel(c *ChannelData) error {
	if c.ChannelID == "" {
		return errors.New("channelId is required")
	}
	if !c.AssignType.Valid() {
		return fmt.Errorf("unknown roleAssignType %q", c.AssignType)
	}
	if c.DefaultRoleIDs == nil {
		c.DefaultRoleIDs = []string{}
	}
	if c.Roles == nil {
		c.Roles = []RoleData{}
	}

	tokens := make(map[string]struct{})
	roles := make(map[string]struct{})
	for rpos, r := range c.Roles {
		if !ValidToken(r.Token) {
			return fmt.Errorf("role %d: invalid token %q", rpos, r.Token)
		}
		if r.RoleID == "" {
			return fmt.Errorf("role %d: roleId is required", rpos)
		}
		if r.Label == "" {
			return fmt.Errorf("role %d: label is required", rpos)
		}
		if _, ok := tokens[r.Token]; ok {
			return fmt.Errorf("role %d: %w: %v", rpos, ErrDuplicateToken, r.Token)
		}
		if _, ok := roles[r.RoleID]; ok {
			return fmt.Errorf("role %d: %w: %v", rpos, ErrDuplicateRole, r.RoleID)
		}
		tokens[r.Token] = struct{}{}
		roles[r.RoleID] = struct{}{}
	}
	return nil
}

// DropRole removes a platform role from every mapping and default list in the guild.
// Returns the ids of channels whose role mappings changed, and whether anything
// changed at all, defaults included.
func (s *Store) DropRole(guildID, roleID string) (changed []string, dirty bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	g := s.lookup[guildID]
	if g == nil {
		return nil, false
	}

	n := len(g.DefaultRoleIDs)
	g.DefaultRoleIDs = withoutID(g.DefaultRoleIDs, roleID)
	dirty = len(g.DefaultRoleIDs) != n

	for cpos := range g.Channels {
		c := &g.Channels[cpos]
		n = len(c.DefaultRoleIDs)
		c.DefaultRoleIDs = withoutID(c.DefaultRoleIDs, roleID)
		if len(c.DefaultRoleIDs) != n {
			dirty = true
		}
		if rpos := c.roleIndex(roleID); rpos >= 0 {
			c.Roles = append(c.Roles[:rpos], c.Roles[rpos+1:]...)
			changed = append(changed, c.ChannelID)
		}
	}
	return changed, dirty || len(changed) > 0
}

// RenameRole updates the label of every mapping for roleID in the guild.
// Returns the ids of channels whose labels changed.
func (s *Store) RenameRole(guildID, roleID, label string) []string {
	if label == "" {
		return nil
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	g := s.lookup[guildID]
	if g == nil {
		return nil
	}

	var changed []string
	for cpos := range g.Channels {
		c := &g.Channels[cpos]
		if rpos := c.roleIndex(roleID); rpos >= 0 && c.Roles[rpos].Label != label {
			c.Roles[rpos].Label = label
			changed = append(changed, c.ChannelID)
		}
	}
	return changed
}

func withoutID(list []string, id string) []string {
	out := list[:0]
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
