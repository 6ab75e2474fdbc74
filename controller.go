package gbt

import (
	"io"
	"time"

	"github.com/bangzek/clock"
)

const (
	TIMEOUT = time.Second
)

var (
	ctime nower = clock.New()
)

type nower interface {
	Now() time.Time
}

type PortOpener interface {
	Open(bool) (io.ReadWriteCloser, time.Duration, error)
}

// Controller is a Transport over a serial bridge to the GBT server. It keeps
// the port open between calls and reopens it after any I/O error. It is not
// safe for concurrent use.
type Controller struct {
	Port    PortOpener
	Timeout time.Duration

	port   io.ReadWriteCloser
	wait   time.Duration
	repeat bool
	rx     []byte
}

func (c *Controller) Close() {
	if c.port != nil {
		c.port.Close()
		c.port = nil
	}
}

func (c *Controller) SendCommand(name string, cmd *Command) (int32, error) {
	debugLog("TX: %s %s", name, cmd.Tx())
	p, err := c.roundTrip(FrameCmd, name, cmd.Frame())
	if err != nil {
		return 0, err
	}
	return decodeStatus(name, p)
}

func (c *Controller) QueryInfo(name string, schema Schema) (Reply, error) {
	p, err := c.roundTrip(FrameInfo, name, nil)
	if err != nil {
		return Reply{}, err
	}
	return DecodeInfo(name, schema, p)
}

func (c *Controller) roundTrip(
	kind byte, name string, payload []byte,
) ([]byte, error) {
	tx, err := newFrame(kind, name, payload)
	if err != nil {
		return nil, &TransportError{Service: name, Err: err}
	}
	rx, err := c.send(kind, tx)
	if err != nil {
		return nil, &TransportError{Service: name, Err: err}
	}
	return replyPayload(rx), nil
}

func (c *Controller) send(kind byte, tx []byte) ([]byte, error) {
	if c.Timeout <= 0 {
		c.Timeout = TIMEOUT
	}
	if c.port == nil {
		var err error
		c.port, c.wait, err = c.Port.Open(c.repeat)
		if err != nil {
			c.repeat = true
			return nil, err
		}
		c.repeat = false
	}
	if c.rx == nil {
		c.rx = make([]byte, 0, maxFramePayload+replyOverhead)
	}

	debugLog("tx: % X", tx)
	if n, err := c.port.Write(tx); err != nil {
		c.Close()
		return nil, err
	} else if n != len(tx) {
		c.Close()
		return nil, io.ErrShortWrite
	}

	time.Sleep(c.wait)

	isValid := func() bool { return isValidReply(kind, c.rx) }
	for deadline := ctime.Now().Add(c.Timeout); ; {
		if n, ok, err := c.read(&c.rx, isValid); err != nil {
			c.Close()
			return nil, err
		} else if n > 0 {
			debugLog("rx: % X", c.rx)
			if !ok {
				c.Close()
				return nil, BadRxErr(append([]byte(nil), c.rx...))
			}
			return c.rx, nil
		}

		if ctime.Now().After(deadline) {
			c.Close()
			return nil, ErrTimeout
		}
	}
}

func (c *Controller) read(b *[]byte, isValid func() bool) (int, bool, error) {
	*b = (*b)[:cap(*b)]
	for n := 0; n < len(*b); {
		nn, err := c.port.Read((*b)[n:])
		n += nn
		*b = (*b)[:n]
		if err != nil {
			return n, false, err
		} else if nn == 0 {
			return n, false, nil
		} else if isValid() {
			return n, true, nil
		}
		*b = (*b)[:cap(*b)]
	}
	return len(*b), false, nil
}
