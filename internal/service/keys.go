package service

import (
	"fmt"

	"rotarykeypad/internal/keypad"
)

// KeysService drives the real emitter outside the dial path so an
// installer can verify the USB cabling end to end without spinning
// the dial.
type KeysService struct {
	emitter *keypad.Emitter
}

func NewKeysService(e *keypad.Emitter) *KeysService {
	return &KeysService{emitter: e}
}

// SendTest emits one press/release pair for the given digit.
func (s *KeysService) SendTest(digit int) error {
	if digit < 0 || digit > 9 {
		return fmt.Errorf("digit %d out of range 0-9", digit)
	}
	return s.emitter.SendDigit(digit)
}
