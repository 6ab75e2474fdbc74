package gbt_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/bangzek/dcb-gbt"
)

func frame(s string, data ...byte) []byte {
	b := make([]byte, CmdSize)
	copy(b, s)
	return append(b, data...)
}

var _ = Describe("Command", func() {
	slave := Slave{GBT: 0, SCA: 0, Bus: 1, Addr: 1, Freq: Freq400KHz}

	Context("write", func() {
		var cmd *Command
		BeforeEach(func() {
			req, err := NewWriteRequest(slave, 28, []byte{0x0a, 0x0b})
			Expect(err).To(Succeed())
			cmd, err = Encode(req)
			Expect(err).To(Succeed())
		})

		It("has String", func() {
			Expect(cmd.String()).To(Equal("0,0,0,1,1,28,2,0,2,0"))
		})
		It("has Data", func() {
			Expect(cmd.Data()).To(Equal([]byte{0x0a, 0x0b}))
		})
		It("has Frame", func() {
			Expect(cmd.Frame()).To(Equal(
				frame("0,0,0,1,1,28,2,0,2,0", 0x0a, 0x0b)))
			Expect(cmd.Frame()).To(HaveLen(CmdSize + 2))
		})
		It("has Tx", func() {
			Expect(cmd.Tx()).To(Equal("0/0/1<-W   1:28 [0A 0B]"))
		})
		It("has Mode and Location", func() {
			Expect(cmd.Mode()).To(Equal(ModeWrite))
			Expect(cmd.Location()).To(Equal(Location{
				GBT: 0, SCA: 0, Bus: 1, Addr: 1, SubAddr: 28, Size: 2,
			}))
		})
		It("keeps Data to itself", func() {
			cmd.Data()[0] = 0xff
			Expect(cmd.Data()).To(Equal([]byte{0x0a, 0x0b}))
		})
	})

	Context("read", func() {
		It("sends the placeholder payload", func() {
			req, err := NewReadRequest(Slave{GBT: 3, SCA: 1, Bus: 2, Addr: 80,
				Type: SALT, Freq: Freq1MHz, SCL: 1}, 0x1c, 4)
			Expect(err).To(Succeed())
			cmd, err := Encode(req)
			Expect(err).To(Succeed())
			Expect(cmd.String()).To(Equal("1,3,1,2,80,28,4,1,3,1"))
			Expect(cmd.Data()).To(Equal([]byte{0}))
			Expect(cmd.Frame()).To(Equal(frame("1,3,1,2,80,28,4,1,3,1", 0)))
			Expect(cmd.Tx()).To(Equal("3/1/2<-R   80:28:4"))
		})
	})

	Context("activate channel", func() {
		It("has zero fields", func() {
			cmd, err := Encode(Request{Mode: ModeActivateCh, GBT: 1, SCA: 2, Bus: 3})
			Expect(err).To(Succeed())
			Expect(cmd.String()).To(Equal("3,1,2,3,0,0,0,0,0,0"))
			Expect(cmd.Tx()).To(Equal("1/2/3<-ACT"))
		})
		It("deactivates too", func() {
			cmd, err := Encode(Request{Mode: ModeDeactivateCh, Bus: 3})
			Expect(err).To(Succeed())
			Expect(cmd.String()).To(Equal("4,0,0,3,0,0,0,0,0,0"))
			Expect(cmd.Tx()).To(Equal("0/0/3<-DEA"))
		})
	})

	Context("file path", func() {
		It("is appended last", func() {
			cmd, err := Encode(Request{Mode: ModeWrite, Bus: 1, Addr: 1,
				Size: 1, Data: []byte{0}, FilePath: "/opt/gbtx/slave.txt"})
			Expect(err).To(Succeed())
			Expect(cmd.String()).To(Equal("0,0,0,1,1,0,1,0,0,0,/opt/gbtx/slave.txt"))
		})
		It("can't overflow the command field", func() {
			req := Request{Mode: ModeRead, Size: 1,
				FilePath: string(bytes.Repeat([]byte{'a'}, 110))}
			_, err := Encode(req)
			Expect(err).To(MatchError(
				"bad read request at gbt=0 sca=0 bus=0 addr=0x00 sub=0x00 size=1: " +
					"command is 130 bytes, max 127"))
		})
		It("fits exactly 127 bytes", func() {
			req := Request{Mode: ModeRead, Size: 1,
				FilePath: string(bytes.Repeat([]byte{'a'}, 107))}
			cmd, err := Encode(req)
			Expect(err).To(Succeed())
			Expect(cmd.String()).To(HaveLen(CmdSize - 1))
			Expect(cmd.Frame()[CmdSize-1]).To(BeZero())
		})
	})

	It("is deterministic", func() {
		req := Request{Mode: ModeWriteRead, GBT: 2, SCA: 1, Bus: 4, Addr: 9,
			SubAddr: 300, Size: 3, Type: SALT, Freq: Freq200KHz,
			Data: []byte{1, 2, 3}}
		a, err := Encode(req)
		Expect(err).To(Succeed())
		b, err := Encode(req)
		Expect(err).To(Succeed())
		Expect(a.String()).To(Equal(b.String()))
		Expect(a.Frame()).To(Equal(b.Frame()))
		Expect(a.Tx()).To(Equal("2/1/4<-WR  9:300 [01 02 03]"))
	})

	It("doesn't follow later changes of the request data", func() {
		data := []byte{7}
		cmd, err := Encode(Request{Mode: ModeWrite, Size: 1, Data: data})
		Expect(err).To(Succeed())
		data[0] = 8
		Expect(cmd.Data()).To(Equal([]byte{7}))
	})

	DescribeTable("invalid",
		func(req Request, msg string) {
			cmd, err := Encode(req)
			Expect(cmd).To(BeNil())
			Expect(err).To(MatchError(ContainSubstring(msg)))
			var ee *EncodingError
			Expect(err).To(BeAssignableToTypeOf(ee))
		},
		Entry("mode", Request{Mode: Mode(7), Size: 1}, "invalid mode ERR:7"),
		Entry("type", Request{Mode: ModeRead, Size: 1, Type: DeviceType(2)},
			"invalid device type ERR:2"),
		Entry("freq", Request{Mode: ModeRead, Size: 1, Freq: Freq(9)},
			"invalid frequency ERR:9"),
		Entry("negative", Request{Mode: ModeRead, Size: 1, Bus: -1},
			"negative field"),
		Entry("zero read", Request{Mode: ModeRead}, "zero size"),
		Entry("zero write", Request{Mode: ModeWrite}, "zero size"),
		Entry("short payload", Request{Mode: ModeWrite, Size: 2, Data: []byte{1}},
			"payload has 1 byte(s) for size 2"),
		Entry("long payload", Request{Mode: ModeWriteRead, Size: 1, Data: []byte{1, 2}},
			"payload has 2 byte(s) for size 1"),
		Entry("read payload", Request{Mode: ModeRead, Size: 1, Data: []byte{1}},
			"read carries no payload"),
		Entry("channel payload", Request{Mode: ModeActivateCh, Data: []byte{1}},
			"activate_ch carries no payload"),
		Entry("delimiter", Request{Mode: ModeRead, Size: 1, FilePath: "a,b"},
			`file path "a,b" contains a delimiter`),
	)
})
