// Package ygobin implements the binary container used on card tags.
//
// A container is a 4-byte magic word followed by any number of records.
// Each record is framed as
//
//	[type 1][version 1][length 2][payload, zero-padded to 4 bytes][crc16 2][reserved 2]
//
// with every integer stored big-endian. Length is the distance from the start
// of the header to the start of the checksum, so a reader that does not know a
// record type can step over it. The checksum covers the header and the padded
// payload.
//
// Writers and readers are plain cursors over a caller-owned byte slice. They
// are not safe for concurrent use; independent buffers may be processed in
// parallel.
package ygobin
