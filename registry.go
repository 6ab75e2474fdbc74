package gbt

import "fmt"

// ErrorEntry is the classification of one status code.
type ErrorEntry struct {
	Family Family
	Code   uint32
	Msg    string
}

// Registry maps status codes to messages per operation family. It is never
// modified after NewRegistry, so it can be shared without locking.
type Registry struct {
	tables map[Family]map[uint32]string
}

// i2cErrors is the status table of the I2C operation family.
var i2cErrors = map[uint32]string{
	0x3:    "master controller not locked",
	0x200:  "channel not activated",
	0x8000: "last operation not acknowledged by the device",
}

var DefaultRegistry = NewRegistry(map[Family]map[uint32]string{
	FamilyI2C: i2cErrors,
})

// NewRegistry copies tables, so later changes to them are not seen.
func NewRegistry(tables map[Family]map[uint32]string) *Registry {
	r := &Registry{tables: make(map[Family]map[uint32]string, len(tables))}
	for f, t := range tables {
		c := make(map[uint32]string, len(t))
		for code, msg := range t {
			c[code] = msg
		}
		r.tables[f] = c
	}
	return r
}

// Classify never returns an empty message: unknown codes, and codes of a
// family without a table, are "unclassified".
func (r *Registry) Classify(f Family, code uint32) ErrorEntry {
	if msg, ok := r.tables[f][code]; ok && msg != "" {
		return ErrorEntry{f, code, msg}
	}
	return ErrorEntry{f, code,
		fmt.Sprintf("unclassified device error: code=0x%X", code)}
}
