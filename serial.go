package gbt

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/albenik/go-serial/v2"
)

const (
	SERIAL_TIMEOUT = 100 * time.Millisecond
	SERIAL_WAIT    = 10 * time.Millisecond
	BAUDRATE       = 115200
)

// OpenErr is a failure to open the bridge device.
type OpenErr struct {
	Dev string
	Err error
}

func (e OpenErr) Error() string {
	return fmt.Sprintf("opening %s: %s", e.Dev, e.Err)
}

func (e OpenErr) Unwrap() error {
	return e.Err
}

// SerialPort is the PortOpener of the serial bridge in front of a GBT
// server. Zero Timeout, Wait and Baudrate take the package defaults when the
// port is opened; the SerialPort itself is never changed.
type SerialPort struct {
	Dev      string        `yaml:"dev"`
	Timeout  time.Duration `yaml:"timeout"`
	Wait     time.Duration `yaml:"wait"`
	Baudrate int           `yaml:"baudrate"`
	Parity   Parity        `yaml:"parity"`
}

func (p SerialPort) Validate() error {
	switch {
	case p.Dev == "":
		return errors.New("serial dev required")
	case !p.Parity.IsValid():
		return fmt.Errorf("%s parity", p.Parity)
	case p.Baudrate < 0:
		return fmt.Errorf("negative baudrate %d", p.Baudrate)
	}
	return nil
}

// withDefaults is p with every unset setting filled in.
func (p SerialPort) withDefaults() SerialPort {
	if p.Timeout <= 0 {
		p.Timeout = SERIAL_TIMEOUT
	}
	if p.Wait <= 0 {
		p.Wait = SERIAL_WAIT
	}
	if p.Baudrate <= 0 {
		p.Baudrate = BAUDRATE
	}
	return p
}

func (p *SerialPort) options() []serial.Option {
	ms := int(p.Timeout.Milliseconds())
	return []serial.Option{
		serial.WithBaudrate(p.Baudrate),
		serial.WithParity(serial.Parity(p.Parity)),
		serial.WithReadTimeout(ms),
		serial.WithWriteTimeout(ms),
	}
}

// Open opens the device. A repeated open, after a failure, only logs at
// debug level so a dead bridge doesn't flood the info log.
func (p *SerialPort) Open(
	repeat bool,
) (io.ReadWriteCloser, time.Duration, error) {
	if p.Dev == "" {
		panic("empty SerialPort.Dev")
	}
	c := p.withDefaults()

	if repeat {
		debugLog("Opening %s", c.Dev)
	} else {
		log("Opening %s at %d %s", c.Dev, c.Baudrate, c.Parity)
	}
	port, err := serial.Open(c.Dev, c.options()...)
	if err != nil {
		return nil, c.Wait, OpenErr{c.Dev, err}
	}
	log("%s opened", c.Dev)
	return port, c.Wait, nil
}

//----------------------------------------------------------------------

// Parity is the serial parity, spelled NONE, ODD or EVEN in config files.
// An empty setting means NONE.
type Parity serial.Parity

const (
	NoParity   = Parity(serial.NoParity)
	OddParity  = Parity(serial.OddParity)
	EvenParity = Parity(serial.EvenParity)
)

var parityNames = [...]string{
	NoParity:   "NONE",
	OddParity:  "ODD",
	EvenParity: "EVEN",
}

func (p Parity) IsValid() bool {
	return p >= 0 && int(p) < len(parityNames)
}

func (p Parity) String() string {
	if p.IsValid() {
		return parityNames[p]
	}
	return fmt.Sprintf("ERR:%d", p)
}

func (p Parity) MarshalText() ([]byte, error) {
	if p.IsValid() {
		return []byte(p.String()), nil
	} else {
		return nil, fmt.Errorf("Invalid Parity: %d", p)
	}
}

func (p *Parity) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*p = NoParity
		return nil
	}
	for i, s := range parityNames {
		if s == string(b) {
			*p = Parity(i)
			return nil
		}
	}
	return fmt.Errorf("Invalid Parity from %q", b)
}
