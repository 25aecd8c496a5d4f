package command

import (
	"RoleBoard/cwlog"
	"RoleBoard/resolve"
	"fmt"
)

// handleButton never mutates the directory. An empty message and nil error means no reply.
func (d *Dispatcher) handleButton(ev *Event) (string, error) {
	req, ok := resolve.ParseCustomID(ev.CustomID)
	if !ok {
		return "", nil
	}

	ch, found := d.Store.Channel(ev.GuildID, ev.ChannelID)
	if !found {
		return "", fmt.Errorf("%w: %v", ErrChannelNotRegistered, ev.ChannelID)
	}

	delta, err := resolve.Resolve(ch, ev.MemberRoles, req)
	if err != nil {
		return "", err
	}
	eff := delta.Effective(ev.MemberRoles)

	/* Batch changes can take a while under rate limits */
	if req.Batch != resolve.NoBatch {
		if err := d.deferReply(ev); err != nil {
			return "", err
		}
	}

	/* Not transactional: a failure part way leaves earlier changes applied */
	for _, id := range eff.Revoke {
		if err := d.Out.RevokeRole(ev.GuildID, ev.UserID, id); err != nil {
			return "", external("remove role "+id, err)
		}
	}
	for _, id := range eff.Grant {
		if err := d.Out.GrantRole(ev.GuildID, ev.UserID, id); err != nil {
			return "", external("assign role "+id, err)
		}
	}

	cwlog.DoLog(fmt.Sprintf("Button %v by %v in %v/%v: +%v -%v", ev.CustomID, ev.UserID, ev.GuildID, ev.ChannelID, eff.Grant, eff.Revoke))

	switch delta.Outcome {
	case resolve.AllAssigned:
		return "All roles assigned. It may take a moment to show up.", nil
	case resolve.AllRemoved:
		return "All roles removed. It may take a moment to show up.", nil
	case resolve.Removed:
		return fmt.Sprintf("`%v` role removed.", delta.Role.Label), nil
	}
	return fmt.Sprintf("`%v` role assigned.", delta.Role.Label), nil
}
