package gbt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	TransportNATS   = "nats"
	TransportSerial = "serial"
)

// Config is the YAML configuration of one GBT server client.
type Config struct {
	Services  Services        `yaml:"services"`
	Transport TransportConfig `yaml:"transport"`
	MaxRetry  int             `yaml:"max_retry"`
	Slaves    SlaveMap        `yaml:"slaves"`
}

type TransportConfig struct {
	Kind   string     `yaml:"kind"`
	NATS   NATSConfig `yaml:"nats"`
	Serial SerialPort `yaml:"serial"`
	// Timeout bounds the wait for one serial-link reply.
	Timeout time.Duration `yaml:"timeout"`
}

type NATSConfig struct {
	URL     string        `yaml:"url"`
	Name    string        `yaml:"name"`
	Timeout time.Duration `yaml:"timeout"`
}

// LoadConfig reads, validates and completes the configuration at path.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := ParseConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseConfig decodes a configuration, rejecting unknown keys.
func ParseConfig(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Config
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.MaxRetry <= 0 {
		c.MaxRetry = DefaultMaxRetry
	}
	if c.Transport.Timeout <= 0 {
		c.Transport.Timeout = TIMEOUT
	}
	return &c, nil
}

// Validate checks the configuration without changing it.
func (c *Config) Validate() error {
	if err := c.Services.Validate(); err != nil {
		return fmt.Errorf("services: %w", err)
	}

	switch c.Transport.Kind {
	case TransportNATS:
		if c.Transport.NATS.URL == "" {
			return errors.New("transport: nats url required")
		}
	case TransportSerial:
		if err := c.Transport.Serial.Validate(); err != nil {
			return fmt.Errorf("transport: %w", err)
		}
	default:
		return fmt.Errorf("transport: unknown kind %q", c.Transport.Kind)
	}

	if c.MaxRetry < 0 {
		return fmt.Errorf("max_retry must be >= 0, got %d", c.MaxRetry)
	}
	for i, s := range c.Slaves {
		if _, err := s.Request(ModeRead, 0, 1, nil); err != nil {
			return fmt.Errorf("slave %d: %w", i, err)
		}
	}
	return nil
}

// Dial builds the configured transport. The returned func releases it.
func (c *Config) Dial() (Transport, func(), error) {
	switch c.Transport.Kind {
	case TransportNATS:
		conn, err := DialNATS(c.Transport.NATS)
		if err != nil {
			return nil, nil, err
		}
		t := &NATSTransport{Conn: conn, Timeout: c.Transport.NATS.Timeout}
		return t, conn.Close, nil
	case TransportSerial:
		port := c.Transport.Serial
		con := &Controller{Port: &port, Timeout: c.Transport.Timeout}
		return con, con.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown transport %q", c.Transport.Kind)
	}
}

// Dispatcher wires t to the configured services.
func (c *Config) Dispatcher(t Transport, m *Metrics) *Dispatcher {
	return &Dispatcher{
		Transport: t,
		Services:  c.Services,
		Metrics:   m,
	}
}
