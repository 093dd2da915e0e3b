package sig

import "errors"

var (
	ErrUnexpectedRecord   = errors.New("sig: unexpected record type")
	ErrUnsupportedVersion = errors.New("sig: unsupported record version")

	// ErrNotImplemented means no verifier is available. It never means valid.
	ErrNotImplemented       = errors.New("sig: verification not implemented")
	ErrUnsupportedAlgorithm = errors.New("sig: unsupported algorithm")
	ErrInvalidSignature     = errors.New("sig: invalid signature")
	ErrExpired              = errors.New("sig: signature has expired")
)
