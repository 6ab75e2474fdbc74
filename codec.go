package gbt

import (
	"encoding/hex"
	"math/big"
	"strings"
)

// EncodeValue turns a register value numeral into exactly width bytes.
//
// A numeral prefixed with 0x or 0X is hexadecimal, anything else decimal.
// Bytes are big-endian: the most significant byte is the first payload byte,
// which lands in the lowest register address. A value that needs more than
// width bytes is rejected, never truncated.
func EncodeValue(s string, width int) ([]byte, error) {
	if width < 1 {
		return nil, &CodecError{s, width, "width must be at least 1"}
	}

	digits, base := s, 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		digits, base = s[2:], 16
	}
	if digits == "" {
		return nil, &CodecError{s, width, "no digits"}
	}
	for _, r := range digits {
		if !isDigit(r, base) {
			if base == 16 {
				return nil, &CodecError{s, width, "not a hexadecimal numeral"}
			}
			return nil, &CodecError{s, width, "not a decimal numeral"}
		}
	}

	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, &CodecError{s, width, "not a numeral"}
	}
	if n.BitLen() > width*8 {
		return nil, &CodecError{s, width, "wider than the field"}
	}
	return n.FillBytes(make([]byte, width)), nil
}

// DecodeValue is the inverse of EncodeValue: 0x followed by two lowercase
// hex digits per byte.
func DecodeValue(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// NormalizeValue returns the canonical form of a numeral for width bytes.
func NormalizeValue(s string, width int) (string, error) {
	b, err := EncodeValue(s, width)
	if err != nil {
		return "", err
	}
	return DecodeValue(b), nil
}

func isDigit(r rune, base int) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case base == 16 && r >= 'a' && r <= 'f':
		return true
	case base == 16 && r >= 'A' && r <= 'F':
		return true
	default:
		return false
	}
}
