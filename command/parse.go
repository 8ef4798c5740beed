package command

import (
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// Parse reads a command from a line of text:
//
//	move <x> <y>
//	pickup | pick up
//	place  | drop off | drop
//
// Names are case-insensitive. Missing, extra or non-finite arguments are
// rejected with ErrMalformedCommand.
func Parse(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, errors.Wrap(ErrMalformedCommand, "no command entered")
	}

	name, args := fields[0], fields[1:]
	switch {
	case name == "pick" && len(args) > 0 && args[0] == "up":
		name, args = string(KindPickUp), args[1:]
	case name == "drop" && len(args) > 0 && args[0] == "off":
		name, args = string(KindPlace), args[1:]
	case name == "drop":
		name = string(KindPlace)
	}

	switch Kind(name) {
	case KindMove:
		if len(args) != 2 {
			return Command{}, errors.Wrapf(ErrMalformedCommand, "move takes x and y, got %d arguments", len(args))
		}
		p, err := ParsePoint(args[0], args[1])
		if err != nil {
			return Command{}, err
		}
		return Move(p.X, p.Y), nil
	case KindPickUp, KindPlace:
		if len(args) != 0 {
			return Command{}, errors.Wrapf(ErrMalformedCommand, "%s takes no arguments, got %d", name, len(args))
		}
		return Command{Kind: Kind(name)}, nil
	default:
		return Command{}, errors.Wrapf(ErrMalformedCommand, "unknown command %q", fields[0])
	}
}

// ParsePoint reads a target from two coordinate strings.
func ParsePoint(xs, ys string) (r2.Point, error) {
	x, err := parseCoordinate("x", xs)
	if err != nil {
		return r2.Point{}, err
	}
	y, err := parseCoordinate("y", ys)
	if err != nil {
		return r2.Point{}, err
	}
	return r2.Point{X: x, Y: y}, nil
}

func parseCoordinate(axis, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedCommand, "%s coordinate %q is not a number", axis, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Wrapf(ErrMalformedCommand, "%s coordinate %q is not finite", axis, s)
	}
	return v, nil
}
