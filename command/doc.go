// Package command is the closed set of discrete arm actions: move, pick up and
// place.
//
// Commands come from text (Parse) or from opaque tokens (Decode) and are applied
// to anything implementing Arm. Tokens are JSON documents decoded against a
// fixed schema; nothing in a token is ever evaluated.
package command
