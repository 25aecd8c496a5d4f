package db

import (
	"RoleBoard/cwlog"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sasha-s/go-deadlock"
)

var (
	ErrDuplicateToken    = errors.New("token already registered in this channel")
	ErrDuplicateRole     = errors.New("role already registered in this channel")
	ErrRoleNotRegistered = errors.New("role is not registered in this channel")
	ErrChannelNotFound   = errors.New("channel is not registered")
)

// New returns an empty store backed by the snapshot file at path.
// Call Reload to load an existing snapshot.
func New(path string) *Store {
	return &Store{
		path:       path,
		lookup:     make(map[string]*GuildData),
		guildLocks: make(map[string]*deadlock.Mutex),
	}
}

func (s *Store) Path() string {
	return s.path
}

// LockGuild serializes read-modify-persist sequences for one guild.
// Other guilds are not blocked. Call the returned func to release.
func (s *Store) LockGuild(guildID string) func() {
	s.guildLocksLock.Lock()
	l := s.guildLocks[guildID]
	if l == nil {
		l = new(deadlock.Mutex)
		s.guildLocks[guildID] = l
	}
	s.guildLocksLock.Unlock()

	l.Lock()
	return l.Unlock
}

func (s *Store) Exists(guildID string) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.lookup[guildID] != nil
}

func (s *Store) ChannelExists(guildID, channelID string) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()

	g := s.lookup[guildID]
	return g != nil && g.channelIndex(channelID) >= 0
}

// Channel returns a copy of the channel entry.
func (s *Store) Channel(guildID, channelID string) (ChannelData, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	g := s.lookup[guildID]
	if g == nil {
		return ChannelData{}, false
	}
	pos := g.channelIndex(channelID)
	if pos < 0 {
		return ChannelData{}, false
	}
	return g.Channels[pos].clone(), true
}

// Guild returns a copy of the guild entry.
func (s *Store) Guild(guildID string) (GuildData, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	g := s.lookup[guildID]
	if g == nil {
		return GuildData{}, false
	}
	return g.clone(), true
}

// Snapshot returns a deep copy of every guild, in snapshot order.
func (s *Store) Snapshot() []GuildData {
	s.lock.RLock()
	defer s.lock.RUnlock()

	out := make([]GuildData, 0, len(s.guilds))
	for _, g := range s.guilds {
		out = append(out, g.clone())
	}
	return out
}

// UpsertChannel inserts or replaces a channel entry, creating the guild shell if needed.
func (s *Store) UpsertChannel(guildID string, entry ChannelData) {
	entry = entry.clone()

	s.lock.Lock()
	defer s.lock.Unlock()

	g := s.lookup[guildID]
	if g == nil {
		g = &GuildData{GuildID: guildID, DefaultRoleIDs: []string{}, Channels: []ChannelData{}}
		s.guilds = append(s.guilds, g)
		s.lookup[guildID] = g
		cwlog.DoLog(fmt.Sprintf("UpsertChannel: new guild %v", guildID))
	}

	if pos := g.channelIndex(entry.ChannelID); pos >= 0 {
		g.Channels[pos] = entry
		return
	}
	g.Channels = append(g.Channels, entry)
}

// RemoveChannel deletes the channel entry. Absent channels are ignored.
func (s *Store) RemoveChannel(guildID, channelID string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	g := s.lookup[guildID]
	if g == nil {
		return
	}
	if pos := g.channelIndex(channelID); pos >= 0 {
		g.Channels = append(g.Channels[:pos], g.Channels[pos+1:]...)
	}
}

// AddRole appends a mapping to the channel's roles, keeping token and role id unique.
func (s *Store) AddRole(guildID, channelID string, role RoleData) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	ch, err := s.channelLocked(guildID, channelID)
	if err != nil {
		return err
	}
	for _, r := range ch.Roles {
		if r.Token == role.Token {
			return fmt.Errorf("%w: %v", ErrDuplicateToken, role.Token)
		}
		if r.RoleID == role.RoleID {
			return fmt.Errorf("%w: %v", ErrDuplicateRole, role.RoleID)
		}
	}
	ch.Roles = append(ch.Roles, role)
	return nil
}

// RemoveRole deletes exactly the mapping for roleID, preserving the order of the rest.
func (s *Store) RemoveRole(guildID, channelID, roleID string) (RoleData, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	ch, err := s.channelLocked(guildID, channelID)
	if err != nil {
		return RoleData{}, err
	}
	pos := ch.roleIndex(roleID)
	if pos < 0 {
		return RoleData{}, fmt.Errorf("%w: %v", ErrRoleNotRegistered, roleID)
	}
	removed := ch.Roles[pos]
	ch.Roles = append(ch.Roles[:pos], ch.Roles[pos+1:]...)
	return removed, nil
}

func (s *Store) channelLocked(guildID, channelID string) (*ChannelData, error) {
	g := s.lookup[guildID]
	if g == nil {
		return nil, fmt.Errorf("%w: %v", ErrChannelNotFound, channelID)
	}
	pos := g.channelIndex(channelID)
	if pos < 0 {
		return nil, fmt.Errorf("%w: %v", ErrChannelNotFound, channelID)
	}
	return &g.Channels[pos], nil
}

// Persist writes the whole directory to disk via a temp file and rename.
func (s *Store) Persist() error {
	startTime := time.Now()

	/* Held across encode and write so snapshots land in encode order */
	s.persistLock.Lock()
	defer s.persistLock.Unlock()

	outbuf := new(bytes.Buffer)
	enc := json.NewEncoder(outbuf)
	enc.SetIndent("", "\t")

	s.lock.RLock()
	err := enc.Encode(s.guilds)
	s.lock.RUnlock()
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	tmpName := s.path + ".tmp"
	fo, err := os.Create(tmpName)
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	if _, err := fo.Write(outbuf.Bytes()); err != nil {
		fo.Close()
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := fo.Sync(); err != nil {
		fo.Close()
		return fmt.Errorf("sync temp snapshot: %w", err)
	}
	if err := fo.Close(); err != nil {
		return fmt.Errorf("close temp snapshot: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("rename temp snapshot: %w", err)
	}

	cwlog.DoLog("Persist: complete, took: " + time.Since(startTime).String())
	return nil
}

// Reload replaces the in-memory directory with the snapshot on disk.
// A missing file loads as an empty directory.
func (s *Store) Reload() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		cwlog.DoLog("Reload: no snapshot at " + s.path + ", starting empty.")
		data = []byte("[]")
	} else if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	guilds, err := Decode(data)
	if err != nil {
		return fmt.Errorf("%v: %w", s.path, err)
	}

	lookup := make(map[string]*GuildData, len(guilds))
	list := make([]*GuildData, 0, len(guilds))
	for i := range guilds {
		g := &guilds[i]
		list = append(list, g)
		lookup[g.GuildID] = g
	}

	s.lock.Lock()
	s.guilds = list
	s.lookup = lookup
	s.lock.Unlock()

	cwlog.DoLog(fmt.Sprintf("Reload: loaded %v guilds.", len(list)))
	return nil
}
