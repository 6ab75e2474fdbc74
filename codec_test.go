package gbt_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/bangzek/dcb-gbt"
)

var _ = Describe("Value codec", func() {
	DescribeTable("valid",
		func(s string, width int, b []byte, norm string) {
			Expect(EncodeValue(s, width)).To(Equal(b))
			Expect(DecodeValue(b)).To(Equal(norm))
			Expect(NormalizeValue(s, width)).To(Equal(norm))
		},
		Entry("zero", "0", 1, []byte{0}, "0x00"),
		Entry("decimal", "10", 1, []byte{0x0a}, "0x0a"),
		Entry("decimal max", "255", 1, []byte{0xff}, "0xff"),
		Entry("hex", "0x1c", 1, []byte{0x1c}, "0x1c"),
		Entry("upper hex", "0X1C", 1, []byte{0x1c}, "0x1c"),
		Entry("mixed case", "0xAbC", 2, []byte{0x0a, 0xbc}, "0x0abc"),
		Entry("big-endian", "0x0102", 2, []byte{1, 2}, "0x0102"),
		Entry("zero extended", "0x7", 3, []byte{0, 0, 7}, "0x000007"),
		Entry("leading zeros", "0x0000ff", 1, []byte{0xff}, "0xff"),
		Entry("wide decimal", "65536", 3, []byte{1, 0, 0}, "0x010000"),
	)

	DescribeTable("invalid",
		func(s string, width int, msg string) {
			b, err := EncodeValue(s, width)
			Expect(b).To(BeNil())
			Expect(err).To(MatchError(msg))
			var ce *CodecError
			Expect(err).To(BeAssignableToTypeOf(ce))
		},
		Entry("empty", "", 1, `invalid value "" for 1 byte(s): no digits`),
		Entry("bare prefix", "0x", 1, `invalid value "0x" for 1 byte(s): no digits`),
		Entry("hex without prefix", "1c", 1,
			`invalid value "1c" for 1 byte(s): not a decimal numeral`),
		Entry("bad hex", "0x1g", 1,
			`invalid value "0x1g" for 1 byte(s): not a hexadecimal numeral`),
		Entry("negative", "-1", 1,
			`invalid value "-1" for 1 byte(s): not a decimal numeral`),
		Entry("plus", "+1", 1,
			`invalid value "+1" for 1 byte(s): not a decimal numeral`),
		Entry("underscore", "1_000", 2,
			`invalid value "1_000" for 2 byte(s): not a decimal numeral`),
		Entry("space", " 1", 1,
			`invalid value " 1" for 1 byte(s): not a decimal numeral`),
		Entry("too wide decimal", "256", 1,
			`invalid value "256" for 1 byte(s): wider than the field`),
		Entry("too wide hex", "0x100", 1,
			`invalid value "0x100" for 1 byte(s): wider than the field`),
		Entry("zero width", "1", 0,
			`invalid value "1" for 0 byte(s): width must be at least 1`),
	)

	It("round trips every byte value", func() {
		for i := 0; i < 256; i++ {
			b := []byte{byte(i)}
			s := DecodeValue(b)
			Expect(EncodeValue(s, 1)).To(Equal(b), s)
		}
	})
})
