package card

import "errors"

var (
	ErrNameTooLong        = errors.New("card: name too long")
	ErrUnexpectedRecord   = errors.New("card: unexpected record type")
	ErrUnsupportedVersion = errors.New("card: unsupported record version")
	ErrDescriptionTooLong = errors.New("card: description too long")
	ErrCorruptDescription = errors.New("card: corrupt description")
)
