package gbt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Reg is one register value of a register map.
type Reg struct {
	Addr int
	Val  byte
}

// RegMap is a register map sorted by address, one entry per address.
type RegMap []Reg

// Run is a block of consecutive registers written by one request.
type Run struct {
	Start int
	Data  []byte
}

// LoadRegMap parses a GBTx register map. Numbers are hexadecimal, with or
// without 0x. A line holds either a value, for the register after the
// previous one (starting at 0), or an address and a value. Text after # is
// ignored.
func LoadRegMap(r io.Reader) (RegMap, error) {
	set := make(map[int]int)
	var m RegMap
	next := 0
	s := bufio.NewScanner(r)
	for ln := 1; s.Scan(); ln++ {
		line, _, _ := strings.Cut(s.Text(), "#")
		f := strings.Fields(line)

		var addr int
		var val string
		switch len(f) {
		case 0:
			continue
		case 1:
			addr, val = next, f[0]
		case 2:
			b, err := EncodeValue(hexNumeral(f[0]), 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: address: %w", ln, err)
			}
			addr, val = int(b[0])<<8|int(b[1]), f[1]
		default:
			return nil, fmt.Errorf("line %d: %d fields", ln, len(f))
		}

		b, err := EncodeValue(hexNumeral(val), 1)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", ln, err)
		}
		if prev, ok := set[addr]; ok {
			return nil, fmt.Errorf("line %d: register 0x%X already set at line %d",
				ln, addr, prev)
		}
		set[addr] = ln
		m = append(m, Reg{addr, b[0]})
		next = addr + 1
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	sort.Slice(m, func(i, j int) bool { return m[i].Addr < m[j].Addr })
	return m, nil
}

// ReadRegMapFile loads the register map at path.
func ReadRegMapFile(path string) (RegMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := LoadRegMap(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Runs groups consecutive addresses into runs of at most max registers, or
// unlimited when max <= 0.
func (m RegMap) Runs(max int) []Run {
	var runs []Run
	for _, r := range m {
		if n := len(runs); n > 0 {
			last := &runs[n-1]
			if r.Addr == last.Start+len(last.Data) &&
				(max <= 0 || len(last.Data) < max) {
				last.Data = append(last.Data, r.Val)
				continue
			}
		}
		runs = append(runs, Run{r.Addr, []byte{r.Val}})
	}
	return runs
}

func hexNumeral(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s
	}
	return "0x" + s
}
