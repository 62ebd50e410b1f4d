package splits

import (
	"fmt"

	"github.com/kamusis/dexkit/internal/dexerr"
)

var (
	// ErrManifestNotFound indicates the manifest file does not exist.
	ErrManifestNotFound = fmt.Errorf("%w: split manifest", dexerr.ErrNotFound)
	// ErrManifestIncomplete indicates a manifest without data_root or the
	// requested side.
	ErrManifestIncomplete = fmt.Errorf("%w: incomplete split manifest", dexerr.ErrValidation)
	// ErrListingNotFound indicates the side's listing file does not exist.
	ErrListingNotFound = fmt.Errorf("%w: split listing", dexerr.ErrNotFound)
)
