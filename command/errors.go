package command

import (
	"github.com/pkg/errors"
)

var (
	// ErrMalformedCommand is returned by Parse for unknown names or bad arguments.
	ErrMalformedCommand = errors.New("malformed command")

	// ErrMalformedCommandToken is returned by Decode when a token does not hold a
	// valid command.
	ErrMalformedCommandToken = errors.New("malformed command token")
)
