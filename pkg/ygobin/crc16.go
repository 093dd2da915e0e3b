package ygobin

// CRC-16 parameters. The polynomial is the reflected form of 0x8005.
const (
	crcPoly uint16 = 0xA001
	crcSeed uint16 = 0x0001
)

var crcTable = makeCRCTable(crcPoly)

func makeCRCTable(poly uint16) *[256]uint16 {
	t := new([256]uint16)
	for i := range t {
		c := uint16(i)
		for range 8 {
			if c&1 != 0 {
				c = c>>1 ^ poly
			} else {
				c >>= 1
			}
		}
		t[i] = c
	}
	return t
}

// Checksum returns the record checksum of data.
// Empty input yields 0 rather than the seed.
func Checksum(data []byte) uint16 {
	if len(data) == 0 {
		return 0
	}
	crc := crcSeed
	for _, b := range data {
		crc = crcTable[byte(crc)^b] ^ crc>>8
	}
	return crc
}

// ChecksumBitwise computes the same value as Checksum without the lookup table.
func ChecksumBitwise(data []byte) uint16 {
	if len(data) == 0 {
		return 0
	}
	crc := crcSeed
	for _, b := range data {
		crc ^= uint16(b)
		for range 8 {
			if crc&1 != 0 {
				crc = crc>>1 ^ crcPoly
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}
