package zbp

import (
	"errors"
	"fmt"
)

var (
	// ErrMagicNotFound indicates the preview marker is absent, or the
	// input is too short to contain the fixed header region.
	ErrMagicNotFound = errors.New("zbp: preview magic not found")

	// ErrCorruptBlock indicates a block's run-length stream ran out of
	// input mid-run or produced more data than the preview can hold.
	ErrCorruptBlock = errors.New("zbp: corrupt block data")
)

// UnsupportedVersionError is returned when the compression version byte
// names a layout this decoder does not know.
type UnsupportedVersionError struct {
	Version byte
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("zbp: unsupported compression version %d", e.Version)
}
