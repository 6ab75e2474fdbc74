package gbt

import (
	"time"

	"github.com/nats-io/nats.go"
)

const (
	NATS_TIMEOUT        = 2 * time.Second
	NATS_RECONNECT_WAIT = time.Second
)

// Requester is the request/reply part of *nats.Conn.
type Requester interface {
	Request(subj string, data []byte, timeout time.Duration) (*nats.Msg, error)
}

// NATSTransport reaches the GBT server through a NATS bridge. Service names
// are used verbatim as subjects. It is safe for concurrent use when Conn is.
type NATSTransport struct {
	Conn    Requester
	Timeout time.Duration
}

func (t *NATSTransport) SendCommand(name string, cmd *Command) (int32, error) {
	msg, err := t.Conn.Request(name, cmd.Frame(), t.timeout())
	if err != nil {
		return 0, &TransportError{Service: name, Err: err}
	}
	return decodeStatus(name, msg.Data)
}

func (t *NATSTransport) QueryInfo(name string, schema Schema) (Reply, error) {
	msg, err := t.Conn.Request(name, nil, t.timeout())
	if err != nil {
		return Reply{}, &TransportError{Service: name, Err: err}
	}
	return DecodeInfo(name, schema, msg.Data)
}

func (t *NATSTransport) timeout() time.Duration {
	if t.Timeout <= 0 {
		return NATS_TIMEOUT
	}
	return t.Timeout
}

// DialNATS connects to the bridge described by c.
func DialNATS(c NATSConfig) (*nats.Conn, error) {
	if c.Timeout <= 0 {
		c.Timeout = NATS_TIMEOUT
	}
	opts := []nats.Option{
		nats.Timeout(c.Timeout),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(NATS_RECONNECT_WAIT),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log("NATS disconnected: %s", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log("NATS reconnected to %s", nc.ConnectedUrl())
		}),
	}
	if c.Name != "" {
		opts = append(opts, nats.Name(c.Name))
	}

	log("Connecting to %s", c.URL)
	conn, err := nats.Connect(c.URL, opts...)
	if err != nil {
		return nil, &TransportError{Service: c.URL, Err: err}
	}
	log("%s connected", c.URL)
	return conn, nil
}
