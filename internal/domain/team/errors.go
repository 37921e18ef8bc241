package team

import (
	"errors"
	"fmt"

	"github.com/gridironpi/gridiron/internal/domain/player"
)

var ErrIllegalSlot = errors.New("position is not legal for slot")

func playerSlotError(slot Slot, pos player.Position) error {
	return fmt.Errorf("%w: %s cannot start at %s", ErrIllegalSlot, pos, slot)
}
