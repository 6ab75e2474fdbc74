package gbt

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Schema is the DIM-style format of an info service payload.
type Schema string

const (
	SchemaWrite Schema = "I:1"
	SchemaRead  Schema = "I:1;C"
)

// CmdDelivered is the status a middleware returns once it took a command.
const CmdDelivered int32 = 1

// Reply is the decoded content of an info service.
type Reply struct {
	Status int32
	Data   []byte
}

// Transport is the synchronous request/reply middleware in front of the
// GBT server. Both calls block until the middleware answers. Callers keep at
// most one call in flight per channel.
type Transport interface {
	// SendCommand issues cmd to the command service name and returns the
	// delivery status.
	SendCommand(name string, cmd *Command) (int32, error)
	// QueryInfo fetches the last result recorded by the info service name.
	QueryInfo(name string, schema Schema) (Reply, error)
}

// Services names the middleware services of one GBT server.
type Services struct {
	Prefix string `yaml:"prefix"`
	Server string `yaml:"server"`
}

func (s Services) Validate() error {
	if s.Prefix == "" {
		return errors.New("empty service prefix")
	}
	if s.Server == "" {
		return errors.New("empty service server")
	}
	return nil
}

func (s Services) Command() string {
	return s.Prefix + "/" + s.Server + "/CmndI2COperation"
}

func (s Services) WriteInfo() string {
	return s.Prefix + "/" + s.Server + "/SrvcI2CWrite"
}

func (s Services) ReadInfo() string {
	return s.Prefix + "/" + s.Server + "/SrvcI2CRead"
}

// DecodeInfo splits a raw info payload: a little-endian int32 status, then
// for SchemaRead the returned bytes.
func DecodeInfo(name string, schema Schema, raw []byte) (Reply, error) {
	if len(raw) < 4 {
		return Reply{}, &TransportError{Service: name,
			Err: fmt.Errorf("short %s reply: [% X]", schema, raw)}
	}
	r := Reply{Status: int32(binary.LittleEndian.Uint32(raw))}
	switch schema {
	case SchemaWrite:
		if len(raw) != 4 {
			return Reply{}, &TransportError{Service: name,
				Err: fmt.Errorf("long %s reply: [% X]", schema, raw)}
		}
	case SchemaRead:
		r.Data = append([]byte(nil), raw[4:]...)
	default:
		return Reply{}, &TransportError{Service: name,
			Err: fmt.Errorf("unknown schema %q", schema)}
	}
	return r, nil
}

// decodeStatus reads the little-endian int32 delivery status of a command.
func decodeStatus(name string, raw []byte) (int32, error) {
	if len(raw) != 4 {
		return 0, &TransportError{Service: name,
			Err: fmt.Errorf("bad status reply: [% X]", raw)}
	}
	return int32(binary.LittleEndian.Uint32(raw)), nil
}
