package gbt_test

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/bangzek/dcb-gbt"
)

var _ = Describe("SerialPort", func() {
	DescribeTable("Validate",
		func(p SerialPort, msg string) {
			if msg == "" {
				Expect(p.Validate()).To(Succeed())
			} else {
				Expect(p.Validate()).To(MatchError(msg))
			}
		},
		Entry("ok", SerialPort{Dev: "/dev/ttyUSB0"}, ""),
		Entry("full", SerialPort{Dev: "/dev/ttyUSB0", Baudrate: 9600,
			Parity: OddParity}, ""),
		Entry("no dev", SerialPort{}, "serial dev required"),
		Entry("parity", SerialPort{Dev: "x", Parity: EvenParity + 1},
			"ERR:3 parity"),
		Entry("baudrate", SerialPort{Dev: "x", Baudrate: -1},
			"negative baudrate -1"),
	)

	It("fills in defaults", func() {
		Expect(SerialPort{Dev: "x"}.WithDefaults()).To(Equal(SerialPort{
			Dev:      "x",
			Timeout:  SERIAL_TIMEOUT,
			Wait:     SERIAL_WAIT,
			Baudrate: BAUDRATE,
		}))
		p := SerialPort{Dev: "x", Timeout: time.Second, Wait: time.Millisecond,
			Baudrate: 9600, Parity: EvenParity}
		Expect(p.WithDefaults()).To(Equal(p))
	})

	It("reports open errors without changing itself", func() {
		dev := filepath.Join(GinkgoT().TempDir(), "no-tty")
		p := &SerialPort{Dev: dev}
		log := NewLog()

		rwc, wait, err := p.Open(false)
		Expect(rwc).To(BeNil())
		Expect(wait).To(Equal(SERIAL_WAIT))
		var oe OpenErr
		Expect(errors.As(err, &oe)).To(BeTrue())
		Expect(oe.Dev).To(Equal(dev))
		Expect(err).To(MatchError(os.ErrNotExist))
		Expect(err).To(MatchError(HavePrefix("opening " + dev + ": ")))

		_, _, err = p.Open(true)
		Expect(err).To(HaveOccurred())
		Expect(*p).To(Equal(SerialPort{Dev: dev}))
		Expect(log.Msgs).To(Equal([]string{
			"I:Opening " + dev + " at 115200 NONE",
			"D:Opening " + dev,
		}))
	})

	It("panics without a device", func() {
		Expect(func() { new(SerialPort).Open(false) }).To(PanicWith("empty SerialPort.Dev"))
	})
})
