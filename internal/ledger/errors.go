package ledger

import (
	"errors"
	"fmt"
)

// ErrValidation marks malformed input. Nothing carrying this error ever
// reached the store.
var ErrValidation = errors.New("invalid request")

func validationErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
