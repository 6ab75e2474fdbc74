package gbt

import "fmt"

// Serial-link frame kinds.
const (
	FrameCmd  = 'C'
	FrameInfo = 'I'
)

const (
	maxFramePayload = 0xFFFF
	// kind + payload length + CRC
	replyOverhead = 5
)

// newFrame builds a request frame:
//
//	kind(1) nameLen(1) name payloadLen(2, big-endian) payload crc16(2)
func newFrame(kind byte, name string, payload []byte) ([]byte, error) {
	if len(name) == 0 || len(name) > 0xFF {
		return nil, fmt.Errorf("service name length %d out of range", len(name))
	}
	if len(payload) > maxFramePayload {
		return nil, fmt.Errorf("payload too long: %d", len(payload))
	}
	b := make([]byte, 0, 6+len(name)+len(payload))
	b = append(b, kind, byte(len(name)))
	b = append(b, name...)
	b = append(b, byte(len(payload)>>8), byte(len(payload)))
	b = append(b, payload...)
	return appendChecksum(b), nil
}

// isValidReply reports whether rx is one complete reply frame:
//
//	kind(1) payloadLen(2, big-endian) payload crc16(2)
func isValidReply(kind byte, rx []byte) bool {
	if len(rx) < replyOverhead || rx[0] != kind {
		return false
	}
	n := int(rx[1])<<8 | int(rx[2])
	return len(rx) == n+replyOverhead && checksum(rx)
}

// replyPayload returns the payload of a valid reply frame.
func replyPayload(rx []byte) []byte {
	return rx[3 : len(rx)-2]
}
