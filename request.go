package gbt

import (
	"fmt"
	"strings"
)

// Request is one logical I2C operation against a device behind an SCA.
type Request struct {
	Mode Mode

	GBT     int
	SCA     int
	Bus     int
	Addr    int
	SubAddr int
	Size    int

	Type DeviceType
	Freq Freq
	SCL  int

	// FilePath asks the server to load registers from a file it can read.
	FilePath string
	Data     []byte
}

// NewWriteRequest builds a write of data starting at register sub.
func NewWriteRequest(s Slave, sub int, data []byte) (Request, error) {
	return s.Request(ModeWrite, sub, len(data), data)
}

// NewReadRequest builds a read of size registers starting at sub.
func NewReadRequest(s Slave, sub, size int) (Request, error) {
	return s.Request(ModeRead, sub, size, nil)
}

func (r *Request) Location() Location {
	return Location{r.GBT, r.SCA, r.Bus, r.Addr, r.SubAddr, r.Size}
}

// Validate reports the first reason r can't be encoded, as *EncodingError.
func (r *Request) Validate() error {
	if reason := r.check(); reason != "" {
		return &EncodingError{Mode: r.Mode, Loc: r.Location(), Reason: reason}
	}
	return nil
}

func (r *Request) check() string {
	switch {
	case !r.Mode.IsValid():
		return fmt.Sprintf("invalid mode %s", r.Mode)
	case !r.Type.IsValid():
		return fmt.Sprintf("invalid device type %s", r.Type)
	case !r.Freq.IsValid():
		return fmt.Sprintf("invalid frequency %s", r.Freq)
	case r.GBT < 0 || r.SCA < 0 || r.Bus < 0 || r.Addr < 0 ||
		r.SubAddr < 0 || r.SCL < 0 || r.Size < 0:
		return "negative field"
	case strings.ContainsAny(r.FilePath, ",\x00"):
		return fmt.Sprintf("file path %q contains a delimiter", r.FilePath)
	}

	if r.Mode.isChannel() {
		if len(r.Data) > 0 {
			return fmt.Sprintf("%s carries no payload", r.Mode)
		}
		return ""
	}
	if r.Size < 1 {
		return "zero size"
	}
	if r.Mode.isWrite() {
		if len(r.Data) != r.Size {
			return fmt.Sprintf("payload has %d byte(s) for size %d",
				len(r.Data), r.Size)
		}
	} else if len(r.Data) > 0 {
		return "read carries no payload"
	}
	return ""
}

// readBack is the read of exactly the registers r writes.
func (r *Request) readBack() Request {
	return Request{
		Mode:    ModeRead,
		GBT:     r.GBT,
		SCA:     r.SCA,
		Bus:     r.Bus,
		Addr:    r.Addr,
		SubAddr: r.SubAddr,
		Size:    r.Size,
		Type:    r.Type,
		Freq:    r.Freq,
		SCL:     r.SCL,
	}
}
