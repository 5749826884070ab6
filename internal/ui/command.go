package ui

import (
	"errors"
	"fmt"
	"strings"
)

// Kind names a user action.
type Kind string

const (
	KindSaveFavourite   Kind = "favourite.save"
	KindDeleteFavourite Kind = "favourite.delete"
	KindDeleteUpload    Kind = "upload.delete"
	KindRefreshRandom   Kind = "random.refresh"
)

// ErrUnknownCommand is returned for kinds the page does not handle.
var ErrUnknownCommand = errors.New("unknown command")

// Command is a user action carrying the id of the record it targets.
type Command struct {
	Kind Kind
	ID   string
}

// ParseCommand validates raw form values. Every kind except random.refresh
// needs an id.
func ParseCommand(kind, id string) (Command, error) {
	cmd := Command{Kind: Kind(strings.TrimSpace(kind)), ID: strings.TrimSpace(id)}
	switch cmd.Kind {
	case KindRefreshRandom:
		cmd.ID = ""
		return cmd, nil
	case KindSaveFavourite, KindDeleteFavourite, KindDeleteUpload:
		if cmd.ID == "" {
			return Command{}, fmt.Errorf("%s: id is required", cmd.Kind)
		}
		return cmd, nil
	default:
		return Command{}, fmt.Errorf("%w %q", ErrUnknownCommand, kind)
	}
}
