package command

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// TokenVersion is the schema version written into every token.
const TokenVersion = 1

// wireCommand is the token schema. Coordinates are pointers so a missing field
// can be told apart from zero.
type wireCommand struct {
	Version int      `json:"v"`
	Action  Kind     `json:"action"`
	X       *float64 `json:"x,omitempty"`
	Y       *float64 `json:"y,omitempty"`
}

// Encode serializes a command into an opaque token.
func Encode(c Command) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	w := wireCommand{Version: TokenVersion, Action: c.Kind}
	if c.Kind == KindMove {
		x, y := c.X, c.Y
		w.X, w.Y = &x, &y
	}

	data, err := json.Marshal(w)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode command")
	}
	return data, nil
}

// Decode rebuilds a command from a token produced by Encode. The token must be
// a single JSON object with exactly the schema's fields; anything else is
// ErrMalformedCommandToken.
func Decode(token []byte) (Command, error) {
	dec := json.NewDecoder(bytes.NewReader(token))
	dec.DisallowUnknownFields()

	var w wireCommand
	if err := dec.Decode(&w); err != nil {
		return Command{}, errors.Wrapf(ErrMalformedCommandToken, "invalid token: %v", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Command{}, errors.Wrap(ErrMalformedCommandToken, "trailing data after command")
	}
	if w.Version != TokenVersion {
		return Command{}, errors.Wrapf(ErrMalformedCommandToken, "unsupported token version %d", w.Version)
	}

	var c Command
	switch w.Action {
	case KindMove:
		if w.X == nil || w.Y == nil {
			return Command{}, errors.Wrap(ErrMalformedCommandToken, "move requires x and y")
		}
		c = Move(*w.X, *w.Y)
	case KindPickUp, KindPlace:
		if w.X != nil || w.Y != nil {
			return Command{}, errors.Wrapf(ErrMalformedCommandToken, "%s carries no coordinates", w.Action)
		}
		c = Command{Kind: w.Action}
	default:
		return Command{}, errors.Wrapf(ErrMalformedCommandToken, "unknown action %q", string(w.Action))
	}

	if err := c.Validate(); err != nil {
		return Command{}, errors.Wrapf(ErrMalformedCommandToken, "%v", err)
	}
	return c, nil
}
