package joints

import (
	"fmt"

	"github.com/kamusis/dexkit/internal/dexerr"
)

var (
	// ErrInvalidConvention indicates a layout that does not partition 0..N-1.
	ErrInvalidConvention = fmt.Errorf("%w: invalid joint convention", dexerr.ErrConfiguration)

	// ErrConventionMismatch indicates two conventions that cannot be mapped
	// onto each other, or a joint set tagged with an unexpected convention.
	ErrConventionMismatch = fmt.Errorf("%w: joint convention mismatch", dexerr.ErrConfiguration)

	// ErrShapeMismatch indicates an array whose joint axis does not match.
	ErrShapeMismatch = fmt.Errorf("%w: joint array shape mismatch", dexerr.ErrValidation)

	// ErrUnknownConvention indicates a convention name with no built-in.
	ErrUnknownConvention = fmt.Errorf("%w: joint convention", dexerr.ErrUnknownKey)
)
