package gbt

import (
	"bytes"
	"fmt"
	"strconv"
)

const (
	// CmdSize is the fixed width of the command string part (C:128).
	CmdSize = 128
	// CmdSchema is the DIM-style format of the command service payload.
	CmdSchema = "C:128;C"
)

// Command is the wire form of a Request: a comma separated field string and
// the raw payload. It is not changed after Encode.
type Command struct {
	mode Mode
	loc  Location
	str  string
	data []byte
}

// Encode builds the command for req. Equal requests always give identical
// commands.
//
// Fields, all decimal integers, in this order:
//
//	mode,gbt,sca,bus,addr,sub_addr,size,type,freq,scl[,file_path]
func Encode(req Request) (*Command, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	b := make([]byte, 0, 32+len(req.FilePath))
	b = strconv.AppendInt(b, int64(req.Mode), 10)
	for _, x := range [...]int{
		req.GBT, req.SCA, req.Bus, req.Addr, req.SubAddr, req.Size,
		int(req.Type), int(req.Freq), req.SCL,
	} {
		b = append(b, ',')
		b = strconv.AppendInt(b, int64(x), 10)
	}
	if req.FilePath != "" {
		b = append(b, ',')
		b = append(b, req.FilePath...)
	}
	// room for the NUL terminator
	if len(b) >= CmdSize {
		return nil, &EncodingError{Mode: req.Mode, Loc: req.Location(),
			Reason: fmt.Sprintf("command is %d bytes, max %d", len(b), CmdSize-1)}
	}

	// an absent payload is sent as the single byte of the numeral 0
	data := []byte{0}
	if len(req.Data) > 0 {
		data = bytes.Clone(req.Data)
	}

	return &Command{
		mode: req.Mode,
		loc:  req.Location(),
		str:  string(b),
		data: data,
	}, nil
}

func (c *Command) Mode() Mode {
	return c.mode
}

func (c *Command) Location() Location {
	return c.loc
}

// String is the comma separated command string.
func (c *Command) String() string {
	return c.str
}

// Data returns a copy of the payload.
func (c *Command) Data() []byte {
	return bytes.Clone(c.data)
}

// Frame is the command service payload: the command string NUL padded to
// CmdSize bytes, then the payload.
func (c *Command) Frame() []byte {
	b := make([]byte, CmdSize+len(c.data))
	copy(b, c.str)
	copy(b[CmdSize:], c.data)
	return b
}

// Tx is a short human form for logs, e.g. "0/0/1<-R   80:28:2".
func (c *Command) Tx() string {
	b := make([]byte, 0, 48)
	b = strconv.AppendInt(b, int64(c.loc.GBT), 10)
	b = append(b, '/')
	b = strconv.AppendInt(b, int64(c.loc.SCA), 10)
	b = append(b, '/')
	b = strconv.AppendInt(b, int64(c.loc.Bus), 10)
	switch c.mode {
	case ModeActivateCh:
		return string(append(b, "<-ACT"...))
	case ModeDeactivateCh:
		return string(append(b, "<-DEA"...))
	case ModeWrite:
		b = append(b, "<-W   "...)
	case ModeRead:
		b = append(b, "<-R   "...)
	case ModeWriteRead:
		b = append(b, "<-WR  "...)
	}
	b = strconv.AppendInt(b, int64(c.loc.Addr), 10)
	b = append(b, ':')
	b = strconv.AppendInt(b, int64(c.loc.SubAddr), 10)
	if c.mode.isWrite() {
		return string(fmt.Appendf(b, " [% X]", c.data))
	}
	b = append(b, ':')
	b = strconv.AppendInt(b, int64(c.loc.Size), 10)
	return string(b)
}
