// Package tagfile reads and writes raw tag dumps on disk.
package tagfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"

	"github.com/samcharles93/cybertag/pkg/tag"
)

var (
	ErrEmpty   = errors.New("tagfile: empty dump")
	ErrTooBig  = errors.New("tagfile: dump exceeds profile capacity")
	ErrTooWide = errors.New("tagfile: dump too large to map")
)

// MaxDumpSize bounds what Open will load. The largest tag profile is well
// under this; anything bigger is not a tag dump.
const MaxDumpSize = 1 << 20

// Dump is a tag image loaded from disk. Data stays valid until Close.
type Dump struct {
	Data    []byte
	mmapped bool
}

// Open maps a dump file read-only. If mmap is unavailable it falls back to
// ReadAt-based loading. The returned dump must be closed to release any
// mapping.
func Open(path string) (*Dump, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size64 := stat.Size()
	switch {
	case size64 == 0:
		return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
	case size64 < 0 || size64 > MaxDumpSize:
		return nil, fmt.Errorf("%w: %s (%d bytes)", ErrTooWide, path, size64)
	}
	size := int(size64)

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		return &Dump{Data: data, mmapped: true}, nil
	}

	data, err = readAllAt(f, size)
	if err != nil {
		return nil, err
	}
	return &Dump{Data: data}, nil
}

// Load reads and decodes a dump in one step. The image does not retain the
// file contents.
func Load(path string) (*tag.Image, error) {
	d, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = d.Close() }()

	img, err := tag.Decode(d.Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Close releases the mapping, if any.
func (d *Dump) Close() error {
	if d == nil {
		return nil
	}
	data := d.Data
	d.Data = nil
	if d.mmapped && data != nil {
		d.mmapped = false
		return unix.Munmap(data)
	}
	return nil
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}

// Write stores an encoded image as a dump sized for profile p. The tail is
// zero-filled, matching a freshly formatted tag. A zero profile writes the
// image as-is.
func Write(path string, data []byte, p tag.Profile) error {
	out := data
	if p.Capacity > 0 {
		if !p.Fits(len(data)) {
			return fmt.Errorf("%w: %d bytes, %s holds %d", ErrTooBig, len(data), p.Name, p.Capacity)
		}
		out = make([]byte, p.Capacity)
		copy(out, data)
	}
	return os.WriteFile(path, out, 0o644)
}
