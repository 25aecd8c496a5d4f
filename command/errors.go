package command

import (
	"RoleBoard/cons"
	"RoleBoard/db"
	"RoleBoard/resolve"
	"errors"
	"fmt"
)

var (
	ErrPermissionDenied         = errors.New("permission denied")
	ErrChannelAlreadyRegistered = errors.New("channel is already registered")
	ErrChannelNotRegistered     = errors.New("channel is not registered")
	ErrInvalidToken             = errors.New("invalid token")
	ErrInvalidNotice            = errors.New("invalid notice")
	ErrUnknownCommand           = errors.New("unknown command")
)

// ExternalError is a failed Discord call or a failed snapshot write.
type ExternalError struct {
	Op  string
	Err error
}

func (e *ExternalError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *ExternalError) Unwrap() error {
	return e.Err
}

func external(op string, err error) error {
	return &ExternalError{Op: op, Err: err}
}

// describe turns an error into the text of its one reply.
func describe(err error) string {
	var ext *ExternalError

	switch {
	case errors.Is(err, ErrPermissionDenied):
		return "You need the Administrator permission or to be the bot owner to use this command."
	case errors.Is(err, ErrChannelAlreadyRegistered):
		return "This channel is already registered."
	case errors.Is(err, ErrChannelNotRegistered), errors.Is(err, db.ErrChannelNotFound):
		return "This channel is not registered."
	case errors.Is(err, ErrInvalidToken):
		return "The token must be 1 to 20 English letters (a-z, A-Z), and cannot be `getAll` or `outAll`."
	case errors.Is(err, ErrInvalidNotice):
		return fmt.Sprintf("The title and description are required. Limits: title %v, description %v characters.", cons.MaxTitleLen, cons.MaxDescLen)
	case errors.Is(err, ErrUnknownCommand):
		return "This command is no longer supported. Ask an admin to re-register the bot's commands."
	case errors.Is(err, db.ErrDuplicateToken):
		return "That token is already registered in this channel."
	case errors.Is(err, db.ErrDuplicateRole):
		return "That role is already registered in this channel."
	case errors.Is(err, db.ErrRoleNotRegistered):
		return "That role is not registered in this channel."
	case errors.Is(err, resolve.ErrUnknownToken):
		return "This button is no longer registered. Ask an admin to re-send the role message."
	case errors.Is(err, resolve.ErrBatchNotAllowed):
		return "Batch buttons are only available in multiple-choice channels."
	case errors.As(err, &ext):
		return "Unable to complete the request.\n`" + ext.Error() + "`"
	}
	return "Unable to complete the request.\n`" + err.Error() + "`"
}
