package gbt

import "fmt"

// Slave addresses one I2C device behind an SCA of a GBT server.
type Slave struct {
	GBT  int        `yaml:"gbt"`
	SCA  int        `yaml:"sca"`
	Bus  int        `yaml:"bus"`
	Addr int        `yaml:"addr"`
	Type DeviceType `yaml:"type"`
	Freq Freq       `yaml:"freq"`
	SCL  int        `yaml:"scl"`
}

// Request fills the addressing part of a Request and validates it.
func (s Slave) Request(mode Mode, sub, size int, data []byte) (Request, error) {
	r := Request{
		Mode:    mode,
		GBT:     s.GBT,
		SCA:     s.SCA,
		Bus:     s.Bus,
		Addr:    s.Addr,
		SubAddr: sub,
		Size:    size,
		Type:    s.Type,
		Freq:    s.Freq,
		SCL:     s.SCL,
		Data:    data,
	}
	return r, r.Validate()
}

// Channel is the SCA I2C channel s sits on.
func (s Slave) Channel() Channel {
	return Channel{s.GBT, s.SCA, s.Bus}
}

// Channel is one I2C master of an SCA. At most one operation may be in
// flight per Channel.
type Channel struct {
	GBT int
	SCA int
	Bus int
}

func (c Channel) String() string {
	return fmt.Sprintf("%d/%d/%d", c.GBT, c.SCA, c.Bus)
}

// SlaveMap resolves logical slave numbers, in configuration order.
type SlaveMap []Slave

func (m SlaveMap) Resolve(n int) (Slave, error) {
	if n < 0 || n >= len(m) {
		return Slave{}, fmt.Errorf("no slave %d, have %d", n, len(m))
	}
	return m[n], nil
}

// Channels lists the distinct channels of the slaves, in order.
func (m SlaveMap) Channels() []Channel {
	seen := make(map[Channel]bool, len(m))
	var cs []Channel
	for _, s := range m {
		if c := s.Channel(); !seen[c] {
			seen[c] = true
			cs = append(cs, c)
		}
	}
	return cs
}
