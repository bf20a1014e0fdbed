package brcode

import "fmt"

const (
	crcPolynomial = 0x1021
	crcInitial    = 0xFFFF
)

// CRC16 computes the CRC16-CCITT checksum required by the BR Code trailer:
// polynomial 0x1021, initial register 0xFFFF, MSB first, no final XOR and no
// reflection. It is total over any input, including the empty string.
func CRC16(data []byte) uint16 {
	crc := uint16(crcInitial)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ crcPolynomial
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// CRC16Hex renders the checksum as 4 zero-padded uppercase hex digits.
func CRC16Hex(data []byte) string {
	return fmt.Sprintf("%04X", CRC16(data))
}
