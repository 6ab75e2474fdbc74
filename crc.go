package gbt

import "github.com/sigurn/crc16"

var crcTable = crc16.MakeTable(crc16.CRC16_MODBUS)

// appendChecksum appends the CRC of b, low byte first.
func appendChecksum(b []byte) []byte {
	cs := crc16.Checksum(b, crcTable)
	return append(b, byte(cs), byte(cs>>8))
}

// checksum verifies the trailing CRC of a whole frame.
func checksum(b []byte) bool {
	cs := crc16.Checksum(b[:len(b)-2], crcTable)
	return b[len(b)-2] == byte(cs) && b[len(b)-1] == byte(cs>>8)
}
