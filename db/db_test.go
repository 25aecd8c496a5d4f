package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "data", "data.json"))
}

func testChannel(id string, mode AssignType) ChannelData {
	return ChannelData{
		ChannelID:  id,
		Notice:     Notice{Title: "Pick", Description: "Pick your roles"},
		AssignType: mode,
	}
}

func TestUpsertAndRemoveChannel(t *testing.T) {
	s := newTestStore(t)

	if s.Exists("g1") || s.ChannelExists("g1", "c1") {
		t.Fatalf("expected empty store")
	}

	s.UpsertChannel("g1", testChannel("c1", Single))
	if !s.Exists("g1") || !s.ChannelExists("g1", "c1") {
		t.Fatalf("expected guild and channel to exist")
	}

	replaced := testChannel("c1", Single)
	replaced.Notice.Title = "New"
	s.UpsertChannel("g1", replaced)
	g, _ := s.Guild("g1")
	if len(g.Channels) != 1 || g.Channels[0].Notice.Title != "New" {
		t.Fatalf("expected replace in place, got %+v", g.Channels)
	}

	s.RemoveChannel("g1", "c1")
	if s.ChannelExists("g1", "c1") {
		t.Fatalf("expected channel removed")
	}
	if !s.Exists("g1") {
		t.Fatalf("guild entry should survive channel removal")
	}

	/* absent channel is a no-op */
	s.RemoveChannel("g1", "c1")
	s.RemoveChannel("nope", "c1")
}

func TestChannelReturnsCopy(t *testing.T) {
	s := newTestStore(t)
	s.UpsertChannel("g1", testChannel("c1", Multiple))
	if err := s.AddRole("g1", "c1", RoleData{Token: "a", Label: "A", RoleID: "1"}); err != nil {
		t.Fatal(err)
	}

	ch, ok := s.Channel("g1", "c1")
	if !ok {
		t.Fatalf("expected channel")
	}
	ch.Roles[0].Label = "mutated"

	again, _ := s.Channel("g1", "c1")
	if again.Roles[0].Label != "A" {
		t.Fatalf("store was mutated through a copy")
	}
}

func TestAddRoleUniqueness(t *testing.T) {
	s := newTestStore(t)
	s.UpsertChannel("g1", testChannel("c1", Single))

	if err := s.AddRole("g1", "c1", RoleData{Token: "red", Label: "Red", RoleID: "1"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	tests := []struct {
		name string
		role RoleData
		want error
	}{
		{"duplicate token", RoleData{Token: "red", Label: "Other", RoleID: "2"}, ErrDuplicateToken},
		{"duplicate role", RoleData{Token: "blue", Label: "Red", RoleID: "1"}, ErrDuplicateRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, _ := s.Channel("g1", "c1")
			err := s.AddRole("g1", "c1", tt.role)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			after, _ := s.Channel("g1", "c1")
			if !reflect.DeepEqual(before, after) {
				t.Fatalf("state changed on failed add")
			}
		})
	}

	t.Run("same role in another channel", func(t *testing.T) {
		s.UpsertChannel("g1", testChannel("c2", Single))
		if err := s.AddRole("g1", "c2", RoleData{Token: "red", Label: "Red", RoleID: "1"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("unknown channel", func(t *testing.T) {
		err := s.AddRole("g1", "c9", RoleData{Token: "x", Label: "X", RoleID: "9"})
		if !errors.Is(err, ErrChannelNotFound) {
			t.Fatalf("expected ErrChannelNotFound, got %v", err)
		}
	})
}

func TestRemoveRoleKeepsOrder(t *testing.T) {
	s := newTestStore(t)
	s.UpsertChannel("g1", testChannel("c1", Multiple))
	for i, tok := range []string{"a", "b", "c", "d"} {
		if err := s.AddRole("g1", "c1", RoleData{Token: tok, Label: tok, RoleID: fmt.Sprint(i)}); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := s.RemoveRole("g1", "c1", "1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if removed.Token != "b" {
		t.Fatalf("removed wrong mapping: %+v", removed)
	}

	ch, _ := s.Channel("g1", "c1")
	var got []string
	for _, r := range ch.Roles {
		got = append(got, r.Token)
	}
	if !reflect.DeepEqual(got, []string{"a", "c", "d"}) {
		t.Fatalf("unexpected roles %v", got)
	}

	if _, err := s.RemoveRole("g1", "c1", "1"); !errors.Is(err, ErrRoleNotRegistered) {
		t.Fatalf("expected ErrRoleNotRegistered, got %v", err)
	}
}

func TestPersistReloadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	s.UpsertChannel("g1", testChannel("c1", Single))
	s.UpsertChannel("g1", testChannel("c2", Multiple))
	s.UpsertChannel("g2", testChannel("c3", Multiple))
	for i, tok := range []string{"zeta", "alpha", "mid"} {
		if err := s.AddRole("g1", "c2", RoleData{Token: tok, Label: "L" + tok, RoleID: fmt.Sprint(100 + i)}); err != nil {
			t.Fatal(err)
		}
	}
	ch, _ := s.Channel("g2", "c3")
	ch.DefaultRoleIDs = []string{"55"}
	s.UpsertChannel("g2", ch)

	before := s.Snapshot()
	if err := s.Persist(); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if _, err := os.Stat(s.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}

	loaded := New(s.Path())
	if err := loaded.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if after := loaded.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Fatalf("round trip mismatch\nbefore: %+v\nafter:  %+v", before, after)
	}
}

func TestReloadMissingFile(t *testing.T) {
	s := newTestStore(t)
	if err := s.Reload(); err != nil {
		t.Fatalf("expected empty directory, got %v", err)
	}
	if len(s.Snapshot()) != 0 {
		t.Fatalf("expected no guilds")
	}
}

func TestReloadRejectsInvalidSnapshot(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(s.Path()), os.ModePerm); err != nil {
		t.Fatal(err)
	}
	bad := `[{"guildId":"g1","channels":[{"channelId":"c1","roleAssignType":"BOTH","roles":[]}]}]`
	if err := os.WriteFile(s.Path(), []byte(bad), 0644); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(); !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
	}
}

func TestLockGuildSerializes(t *testing.T) {
	s := newTestStore(t)
	s.UpsertChannel("g1", testChannel("c1", Multiple))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			unlock := s.LockGuild("g1")
			defer unlock()

			/* read-modify-write of the whole entry */
			ch, _ := s.Channel("g1", "c1")
			ch.Roles = append(ch.Roles, RoleData{Token: "t", Label: "l", RoleID: fmt.Sprint(i)})
			s.UpsertChannel("g1", ch)
			if err := s.Persist(); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	ch, _ := s.Channel("g1", "c1")
	if len(ch.Roles) != 20 {
		t.Fatalf("lost updates: got %d roles", len(ch.Roles))
	}
}

func TestDropAndRenameRole(t *testing.T) {
	s := newTestStore(t)
	c1 := testChannel("c1", Single)
	c1.DefaultRoleIDs = []string{"1", "2"}
	s.UpsertChannel("g1", c1)
	s.UpsertChannel("g1", testChannel("c2", Multiple))
	for _, c := range []string{"c1", "c2"} {
		if err := s.AddRole("g1", c, RoleData{Token: "red", Label: "Red", RoleID: "1"}); err != nil {
			t.Fatal(err)
		}
	}

	if changed := s.RenameRole("g1", "1", "Crimson"); len(changed) != 2 {
		t.Fatalf("expected 2 renamed channels, got %v", changed)
	}
	if changed := s.RenameRole("g1", "1", "Crimson"); len(changed) != 0 {
		t.Fatalf("expected no change on same label, got %v", changed)
	}

	changed, dirty := s.DropRole("g1", "1")
	if !dirty || !reflect.DeepEqual(changed, []string{"c1", "c2"}) {
		t.Fatalf("unexpected changed channels %v", changed)
	}
	ch, _ := s.Channel("g1", "c1")
	if len(ch.Roles) != 0 || !reflect.DeepEqual(ch.DefaultRoleIDs, []string{"2"}) {
		t.Fatalf("role not dropped: %+v", ch)
	}

	/* default-only roles still count as a change */
	changed, dirty = s.DropRole("g1", "2")
	if !dirty || len(changed) != 0 {
		t.Fatalf("expected defaults-only change, got %v %v", changed, dirty)
	}
	if _, dirty = s.DropRole("g1", "2"); dirty {
		t.Fatalf("second drop reported a change")
	}
}
