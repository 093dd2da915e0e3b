package ygobin

import (
	"errors"
	"fmt"
)

var (
	ErrBadArgs      = errors.New("ygobin: bad arguments")
	ErrBadMagicWord = errors.New("ygobin: bad magic word")
	ErrBadChecksum  = errors.New("ygobin: bad checksum")
	ErrShortBuffer  = errors.New("ygobin: buffer too small")

	// ErrTruncated is reported when a read runs past the end of the buffer.
	// It matches ErrBadChecksum so callers discard the whole read attempt.
	ErrTruncated = fmt.Errorf("%w: truncated", ErrBadChecksum)
)
