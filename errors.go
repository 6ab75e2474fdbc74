package gbt

import (
	"errors"
	"fmt"
)

var ErrTimeout = errors.New("timeout waiting for response")

// BadRxErr is a serial-link reply that never formed a valid frame.
type BadRxErr []byte

func (e BadRxErr) Error() string {
	return fmt.Sprintf("invalid response: [% X]", []byte(e))
}

// Location is the address/size context carried by every kernel error.
type Location struct {
	GBT     int
	SCA     int
	Bus     int
	Addr    int
	SubAddr int
	Size    int
}

func (l Location) String() string {
	return fmt.Sprintf("gbt=%d sca=%d bus=%d addr=0x%02x sub=0x%02x size=%d",
		l.GBT, l.SCA, l.Bus, l.Addr, l.SubAddr, l.Size)
}

// CodecError is a register value that is not a well-formed numeral or does
// not fit its field width.
type CodecError struct {
	Value  string
	Width  int
	Reason string
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("invalid value %q for %d byte(s): %s",
		e.Value, e.Width, e.Reason)
}

// EncodingError is a Request that can't be turned into a command. Err is
// the underlying codec failure, if any.
type EncodingError struct {
	Mode   Mode
	Loc    Location
	Reason string
	Err    error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("bad %s request at %s: %s", e.Mode, e.Loc, e.Reason)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// TransportError is a failure of the middleware itself, independent of what
// the device reported.
type TransportError struct {
	Service string
	Loc     *Location
	Err     error
}

func (e *TransportError) Error() string {
	if e.Loc != nil {
		return fmt.Sprintf("%s at %s: %s", e.Service, e.Loc, e.Err)
	}
	return e.Service + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DeviceError is a non-success status reported by the device.
type DeviceError struct {
	Mode  Mode
	Loc   Location
	Entry ErrorEntry
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("%s %s at %s: %s (0x%X)",
		e.Entry.Family, e.Mode, e.Loc, e.Entry.Msg, e.Entry.Code)
}

// VerifyError is a write-verify that ran out of attempts.
type VerifyError struct {
	Loc      Location
	Attempts int
	Expected []byte
	Observed []byte
	// Last is the device error of the final attempt, if it had one.
	Last error
}

func (e *VerifyError) Error() string {
	observed := "nothing"
	if e.Observed != nil {
		observed = DecodeValue(e.Observed)
	}
	s := fmt.Sprintf("program failed at %s: expect %s but got %s after %d attempt(s)",
		e.Loc, DecodeValue(e.Expected), observed, e.Attempts)
	if e.Last != nil {
		s += ": " + e.Last.Error()
	}
	return s
}

func (e *VerifyError) Unwrap() error {
	return e.Last
}
