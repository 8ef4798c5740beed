package command

import (
	"github.com/pkg/errors"
)

// Sealer protects tokens in transit. Implementations encrypt, sign and verify;
// this package only hands them opaque bytes.
type Sealer interface {
	Seal(token []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

// Passthrough is a Sealer that returns tokens unchanged.
type Passthrough struct{}

func (Passthrough) Seal(token []byte) ([]byte, error) { return token, nil }

func (Passthrough) Open(sealed []byte) ([]byte, error) { return sealed, nil }

// Transmit sends a command through the sealer and decodes what comes back.
func Transmit(c Command, s Sealer) (Command, error) {
	token, err := Encode(c)
	if err != nil {
		return Command{}, err
	}
	sealed, err := s.Seal(token)
	if err != nil {
		return Command{}, errors.Wrap(err, "failed to seal command")
	}
	return Receive(sealed, s)
}

// Receive opens a sealed token and decodes the command inside.
func Receive(sealed []byte, s Sealer) (Command, error) {
	token, err := s.Open(sealed)
	if err != nil {
		return Command{}, errors.Wrap(err, "failed to open command token")
	}
	return Decode(token)
}
