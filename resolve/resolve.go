// Package resolve turns a button press into the role changes for one member.
package resolve

import (
	"RoleBoard/cons"
	"RoleBoard/db"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownToken    = errors.New("no role is registered for this button")
	ErrBatchNotAllowed = errors.New("batch buttons are only available in multiple-choice channels")
)

type Batch int

const (
	NoBatch Batch = iota
	SelectAll
	DeselectAll
)

type Request struct {
	Token string
	Batch Batch
}

type Outcome int

const (
	Assigned Outcome = iota
	Removed
	AllAssigned
	AllRemoved
)

// Delta is the set of roles to grant and revoke. The two lists never overlap.
type Delta struct {
	Grant  []string
	Revoke []string

	Outcome Outcome
	Role    db.RoleData
}

// ParseCustomID reads a button id. ok is false for ids this bot does not own.
func ParseCustomID(id string) (req Request, ok bool) {
	switch id {
	case cons.SelectAllID:
		return Request{Batch: SelectAll}, true
	case cons.DeselectAllID:
		return Request{Batch: DeselectAll}, true
	}
	if !strings.HasPrefix(id, cons.ButtonPrefix) {
		return Request{}, false
	}
	return Request{Token: strings.TrimPrefix(id, cons.ButtonPrefix)}, true
}

// CustomID is the button id for a role token.
func CustomID(token string) string {
	return cons.ButtonPrefix + token
}

// Resolve computes the delta for one request against the member's current roles.
func Resolve(ch db.ChannelData, held []string, req Request) (Delta, error) {
	has := make(map[string]bool, len(held))
	for _, id := range held {
		has[id] = true
	}

	var d Delta
	grant := newIDSet()
	revoke := newIDSet()

	switch req.Batch {
	case SelectAll, DeselectAll:
		if ch.AssignType != db.Multiple {
			return Delta{}, ErrBatchNotAllowed
		}
		grant.add(ch.DefaultRoleIDs...)
		for _, r := range ch.Roles {
			if req.Batch == SelectAll {
				grant.add(r.RoleID)
			} else {
				revoke.add(r.RoleID)
			}
		}
		d.Outcome = AllAssigned
		if req.Batch == DeselectAll {
			d.Outcome = AllRemoved
		}

	default:
		role, found := ch.RoleByToken(req.Token)
		if !found {
			return Delta{}, fmt.Errorf("%w: %v", ErrUnknownToken, req.Token)
		}
		d.Role = role
		grant.add(ch.DefaultRoleIDs...)

		if ch.AssignType == db.Single {
			for _, r := range ch.Roles {
				if has[r.RoleID] {
					revoke.add(r.RoleID)
				}
			}
			grant.add(role.RoleID)
			d.Outcome = Assigned
		} else if has[role.RoleID] {
			revoke.add(role.RoleID)
			d.Outcome = Removed
		} else {
			grant.add(role.RoleID)
			d.Outcome = Assigned
		}
	}

	/* Grants win over revokes */
	d.Grant = grant.list
	d.Revoke = revoke.without(grant)
	return d, nil
}

// Effective drops grants already held and revokes not held.
func (d Delta) Effective(held []string) Delta {
	has := make(map[string]bool, len(held))
	for _, id := range held {
		has[id] = true
	}

	out := Delta{Outcome: d.Outcome, Role: d.Role}
	for _, id := range d.Grant {
		if !has[id] {
			out.Grant = append(out.Grant, id)
		}
	}
	for _, id := range d.Revoke {
		if has[id] {
			out.Revoke = append(out.Revoke, id)
		}
	}
	return out
}

/* Insertion-ordered set of ids */
type idSet struct {
	list []string
	seen map[string]bool
}

func newIDSet() *idSet {
	return &idSet{list: []string{}, seen: make(map[string]bool)}
}

func (s *idSet) add(ids ...string) {
	for _, id := range ids {
		if !s.seen[id] {
			s.seen[id] = true
			s.list = append(s.list, id)
		}
	}
}

func (s *idSet) without(other *idSet) []string {
	out := []string{}
	for _, id := range s.list {
		if !other.seen[id] {
			out = append(out, id)
		}
	}
	return out
}
