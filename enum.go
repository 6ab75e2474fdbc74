package gbt

import (
	"fmt"
	"strconv"
)

// Mode is the I2C operation token sent as the first command field.
type Mode byte

const (
	ModeWrite Mode = iota
	ModeRead
	ModeWriteRead
	ModeActivateCh
	ModeDeactivateCh
)

var modeNames = [...]string{
	ModeWrite:        "write",
	ModeRead:         "read",
	ModeWriteRead:    "writeread",
	ModeActivateCh:   "activate_ch",
	ModeDeactivateCh: "deactivate_ch",
}

func (m Mode) IsValid() bool {
	return int(m) < len(modeNames)
}

func (m Mode) String() string {
	if m.IsValid() {
		return modeNames[m]
	}
	return "ERR:" + strconv.Itoa(int(m))
}

func (m Mode) MarshalText() ([]byte, error) {
	if m.IsValid() {
		return []byte(m.String()), nil
	} else {
		return nil, fmt.Errorf("Invalid Mode: %d", m)
	}
}

func (m *Mode) UnmarshalText(b []byte) error {
	for i, s := range modeNames {
		if s == string(b) {
			*m = Mode(i)
			return nil
		}
	}
	return fmt.Errorf("Invalid Mode from %q", b)
}

// isWrite reports whether the mode carries a payload of Size bytes.
func (m Mode) isWrite() bool {
	return m == ModeWrite || m == ModeWriteRead
}

// isChannel reports whether the mode only switches an SCA I2C channel.
func (m Mode) isChannel() bool {
	return m == ModeActivateCh || m == ModeDeactivateCh
}

//----------------------------------------------------------------------

// DeviceType selects the I2C slave flavour handled by the SCA.
type DeviceType byte

const (
	GBTx DeviceType = iota
	SALT
)

func (t DeviceType) IsValid() bool {
	switch t {
	case GBTx, SALT:
		return true
	default:
		return false
	}
}

func (t DeviceType) String() string {
	switch t {
	case GBTx:
		return "gbtx"
	case SALT:
		return "salt"
	default:
		return fmt.Sprintf("ERR:%d", t)
	}
}

func (t DeviceType) MarshalText() ([]byte, error) {
	if t.IsValid() {
		return []byte(t.String()), nil
	} else {
		return nil, fmt.Errorf("Invalid DeviceType: %d", t)
	}
}

func (t *DeviceType) UnmarshalText(b []byte) error {
	switch string(b) {
	case "gbtx":
		*t = GBTx
	case "salt":
		*t = SALT
	default:
		return fmt.Errorf("Invalid DeviceType from %q", b)
	}
	return nil
}

//----------------------------------------------------------------------

// Freq is the I2C bus clock frequency.
type Freq byte

const (
	Freq100KHz Freq = iota
	Freq200KHz
	Freq400KHz
	Freq1MHz
)

func (f Freq) IsValid() bool {
	switch f {
	case Freq100KHz, Freq200KHz, Freq400KHz, Freq1MHz:
		return true
	default:
		return false
	}
}

func (f Freq) String() string {
	switch f {
	case Freq100KHz:
		return "100KHz"
	case Freq200KHz:
		return "200KHz"
	case Freq400KHz:
		return "400KHz"
	case Freq1MHz:
		return "1MHz"
	default:
		return fmt.Sprintf("ERR:%d", f)
	}
}

func (f Freq) MarshalText() ([]byte, error) {
	if f.IsValid() {
		return []byte(f.String()), nil
	} else {
		return nil, fmt.Errorf("Invalid Freq: %d", f)
	}
}

func (f *Freq) UnmarshalText(b []byte) error {
	switch string(b) {
	case "100KHz":
		*f = Freq100KHz
	case "200KHz":
		*f = Freq200KHz
	case "400KHz":
		*f = Freq400KHz
	case "1MHz":
		*f = Freq1MHz
	default:
		return fmt.Errorf("Invalid Freq from %q", b)
	}
	return nil
}

//----------------------------------------------------------------------

// Family groups operations that share one status code table.
type Family byte

const (
	FamilyI2C Family = iota + 1
)

func (f Family) String() string {
	switch f {
	case FamilyI2C:
		return "I2C"
	default:
		return fmt.Sprintf("ERR:%d", f)
	}
}
