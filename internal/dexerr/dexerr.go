// Package dexerr defines the error categories shared by dexkit packages.
//
// Package-level sentinels elsewhere wrap exactly one of these, so callers can
// branch on the category with errors.Is without knowing the specific failure:
//
//	errors.Is(err, dexerr.ErrNotFound)
package dexerr

import "errors"

var (
	// ErrConfiguration marks bad static configuration, e.g. an invalid joint
	// convention. Fatal at startup.
	ErrConfiguration = errors.New("configuration error")

	// ErrNotFound marks a missing input file or directory.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks input that exists but violates its schema.
	ErrValidation = errors.New("validation error")

	// ErrUnknownKey marks a lookup of an unregistered key.
	ErrUnknownKey = errors.New("unknown key")
)
