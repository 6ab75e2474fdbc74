package gbt_test

import (
	"encoding"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/bangzek/dcb-gbt"
)

type enum interface {
	IsValid() bool
	String() string
	encoding.TextMarshaler
}

var _ = Describe("Enums", func() {
	DescribeTable("valid",
		func(e enum, s string, n encoding.TextUnmarshaler) {
			Expect(e.IsValid()).To(BeTrue())
			Expect(e.String()).To(Equal(s))

			j := `"` + s + `"`
			Expect(json.Marshal(e)).To(Equal([]byte(j)))

			Expect(json.Unmarshal([]byte(j), n)).To(Succeed())
			Expect(n).To(HaveValue(Equal(e)))
		},
		Entry(nil, ModeWrite, "write", new(Mode)),
		Entry(nil, ModeRead, "read", new(Mode)),
		Entry(nil, ModeWriteRead, "writeread", new(Mode)),
		Entry(nil, ModeActivateCh, "activate_ch", new(Mode)),
		Entry(nil, ModeDeactivateCh, "deactivate_ch", new(Mode)),
		Entry(nil, GBTx, "gbtx", new(DeviceType)),
		Entry(nil, SALT, "salt", new(DeviceType)),
		Entry(nil, Freq100KHz, "100KHz", new(Freq)),
		Entry(nil, Freq200KHz, "200KHz", new(Freq)),
		Entry(nil, Freq400KHz, "400KHz", new(Freq)),
		Entry(nil, Freq1MHz, "1MHz", new(Freq)),
		Entry(nil, NoParity, "NONE", new(Parity)),
		Entry(nil, OddParity, "ODD", new(Parity)),
		Entry(nil, EvenParity, "EVEN", new(Parity)),
	)

	It("has the wire tokens", func() {
		Expect([]byte{
			byte(ModeWrite), byte(ModeRead), byte(ModeWriteRead),
			byte(ModeActivateCh), byte(ModeDeactivateCh),
		}).To(Equal([]byte{0, 1, 2, 3, 4}))
		Expect([]byte{byte(GBTx), byte(SALT)}).To(Equal([]byte{0, 1}))
		Expect([]byte{
			byte(Freq100KHz), byte(Freq200KHz), byte(Freq400KHz), byte(Freq1MHz),
		}).To(Equal([]byte{0, 1, 2, 3}))
	})

	DescribeTable("invalid",
		func(e enum, s, merr string, n encoding.TextUnmarshaler, uerr string) {
			Expect(e.IsValid()).To(BeFalse())
			Expect(e.String()).To(Equal(s))
			_, err := e.MarshalText()
			Expect(err).To(MatchError(merr))
			Expect(n.UnmarshalText([]byte(s))).To(MatchError(uerr))
		},
		Entry(nil, ModeDeactivateCh+1, "ERR:5", "Invalid Mode: 5",
			new(Mode), `Invalid Mode from "ERR:5"`),
		Entry(nil, SALT+1, "ERR:2", "Invalid DeviceType: 2",
			new(DeviceType), `Invalid DeviceType from "ERR:2"`),
		Entry(nil, Freq1MHz+1, "ERR:4", "Invalid Freq: 4",
			new(Freq), `Invalid Freq from "ERR:4"`),
		Entry(nil, EvenParity+1, "ERR:3", "Invalid Parity: 3",
			new(Parity), `Invalid Parity from "ERR:3"`),
	)

	It("is strict about case", func() {
		var f Freq
		Expect(f.UnmarshalText([]byte("400khz"))).
			To(MatchError(`Invalid Freq from "400khz"`))
		var t DeviceType
		Expect(t.UnmarshalText([]byte("GBTX"))).
			To(MatchError(`Invalid DeviceType from "GBTX"`))
	})

	It("names the I2C family", func() {
		Expect(FamilyI2C.String()).To(Equal("I2C"))
		Expect(Family(0).String()).To(Equal("ERR:0"))
	})
})
