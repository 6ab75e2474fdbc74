package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	gbt "github.com/bangzek/dcb-gbt"
)

const (
	// INIT_RUN caps the registers written by one request during init.
	INIT_RUN = 32
	// STATUS_REG is the GBTx power-up state machine register.
	STATUS_REG = 0x1AF
)

var errUsage = errors.New("usage")

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [-c CONFIG] [-v] [-stats] CMD [-s SLAVES] ...\n"+
		"  write REG VAL [SIZE]\n"+
		"  read REG SIZE\n"+
		"  status\n"+
		"  init FILE\n"+
		"  activate\n"+
		"  deactivate\n"+
		"SLAVES is a comma separated list, all configured slaves by default.\n",
		os.Args[0])
	flag.PrintDefaults()
}

func main() {
	cfgPath := flag.String("c", "dcb.yaml", "configuration file")
	verbose := flag.Bool("v", false, "log every command and reply")
	stats := flag.Bool("stats", false, "print dispatch counters at exit")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	gbt.InfoLogFunc = log.Printf
	if *verbose {
		gbt.DebugLogFunc = log.Printf
	}

	cfg, err := gbt.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("ERR: %s\n", err)
	}
	t, closeTransport, err := cfg.Dial()
	if err != nil {
		log.Fatalf("ERR: %s\n", err)
	}
	defer closeTransport()

	reg := prometheus.NewRegistry()
	m, err := gbt.NewMetrics(reg)
	if err != nil {
		log.Fatalf("ERR: %s\n", err)
	}

	a := &app{cfg: cfg, d: cfg.Dispatcher(t, m), out: os.Stdout}
	err = a.run(flag.Args())
	if *stats {
		printStats(reg)
	}
	if errors.Is(err, errUsage) {
		closeTransport()
		usage()
		os.Exit(1)
	} else if err != nil {
		closeTransport()
		log.Fatalf("ERR: %s\n", err)
	}
}

type app struct {
	cfg *gbt.Config
	d   *gbt.Dispatcher
	out io.Writer
}

func (a *app) run(args []string) error {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	list := fs.String("s", "", "comma separated slaves")
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	slaves, err := a.slaves(*list)
	if err != nil {
		return err
	}

	switch args[0] {
	case "write":
		return a.write(slaves, fs.Args())
	case "read":
		return a.read(slaves, fs.Args())
	case "status":
		return a.status(slaves, fs.Args())
	case "init":
		return a.program(slaves, fs.Args())
	case "activate":
		return a.channels(slaves, "activated", a.d.ActivateChannel)
	case "deactivate":
		return a.channels(slaves, "deactivated", a.d.DeactivateChannel)
	default:
		return errUsage
	}
}

// slaves resolves a comma separated list, or every slave when it is empty.
func (a *app) slaves(list string) ([]int, error) {
	if list == "" {
		ns := make([]int, len(a.cfg.Slaves))
		for i := range ns {
			ns[i] = i
		}
		return ns, nil
	}

	var ns []int
	for _, f := range strings.Split(list, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("slave %q: %w", f, err)
		}
		if _, err := a.cfg.Slaves.Resolve(n); err != nil {
			return nil, err
		}
		ns = append(ns, n)
	}
	return ns, nil
}

func (a *app) write(slaves []int, args []string) error {
	if len(args) != 2 && len(args) != 3 {
		return fmt.Errorf("write needs REG VAL [SIZE]")
	}
	sub, err := regAddr(args[0])
	if err != nil {
		return err
	}
	size := 1
	if len(args) == 3 {
		if size, err = strconv.Atoi(args[2]); err != nil {
			return fmt.Errorf("size: %w", err)
		}
	}
	data, err := gbt.EncodeValue(args[1], size)
	if err != nil {
		return err
	}

	for _, n := range slaves {
		s, _ := a.cfg.Slaves.Resolve(n)
		req, err := gbt.NewWriteRequest(s, sub, data)
		if err != nil {
			return fmt.Errorf("slave %d: %w", n, err)
		}
		if err := a.d.Write(req); err != nil {
			return fmt.Errorf("slave %d: %w", n, err)
		}
		fmt.Fprintf(a.out, "slave %d reg 0x%X <- %s\n", n, sub, gbt.DecodeValue(data))
	}
	return nil
}

func (a *app) read(slaves []int, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("read needs REG SIZE")
	}
	sub, err := regAddr(args[0])
	if err != nil {
		return err
	}
	size, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("size: %w", err)
	}
	return a.readAll(slaves, sub, size, "reg 0x%X -> %s")
}

func (a *app) status(slaves []int, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("status takes no arguments")
	}
	return a.readAll(slaves, STATUS_REG, 1, "status 0x%X = %s")
}

func (a *app) readAll(slaves []int, sub, size int, format string) error {
	for _, n := range slaves {
		s, _ := a.cfg.Slaves.Resolve(n)
		req, err := gbt.NewReadRequest(s, sub, size)
		if err != nil {
			return fmt.Errorf("slave %d: %w", n, err)
		}
		data, err := a.d.Read(req)
		if err != nil {
			return fmt.Errorf("slave %d: %w", n, err)
		}
		fmt.Fprintf(a.out, "slave %d "+format+"\n", n, sub, gbt.DecodeValue(data))
	}
	return nil
}

func (a *app) program(slaves []int, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("init needs FILE")
	}
	m, err := gbt.ReadRegMapFile(args[0])
	if err != nil {
		return err
	}

	runs := m.Runs(INIT_RUN)
	for _, n := range slaves {
		s, _ := a.cfg.Slaves.Resolve(n)
		for _, r := range runs {
			req, err := s.Request(gbt.ModeWrite, r.Start, len(r.Data), r.Data)
			if err != nil {
				return fmt.Errorf("slave %d: %w", n, err)
			}
			if err := a.d.WriteVerify(req, r.Data, a.cfg.MaxRetry); err != nil {
				return fmt.Errorf("slave %d: %w", n, err)
			}
		}
		fmt.Fprintf(a.out, "slave %d programmed with %d registers\n", n, len(m))
	}
	return nil
}

func (a *app) channels(
	slaves []int, done string, fn func(g, sca, bus int) error,
) error {
	sel := make(gbt.SlaveMap, 0, len(slaves))
	for _, n := range slaves {
		s, _ := a.cfg.Slaves.Resolve(n)
		sel = append(sel, s)
	}
	for _, c := range sel.Channels() {
		if err := fn(c.GBT, c.SCA, c.Bus); err != nil {
			return fmt.Errorf("channel %s: %w", c, err)
		}
		fmt.Fprintf(a.out, "channel %s %s\n", c, done)
	}
	return nil
}

// regAddr parses a hex register address, like in register map files.
func regAddr(reg string) (int, error) {
	h := strings.TrimPrefix(strings.TrimPrefix(reg, "0x"), "0X")
	sub, err := strconv.ParseUint(h, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("reg %q: %w", reg, err)
	}
	return int(sub), nil
}

func printStats(reg *prometheus.Registry) {
	mfs, err := reg.Gather()
	if err != nil {
		log.Printf("stats: %s", err)
		return
	}
	for _, mf := range mfs {
		if mf.GetName() != "gbt_dispatch_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			var mode, outcome string
			for _, l := range m.GetLabel() {
				switch l.GetName() {
				case "mode":
					mode = l.GetValue()
				case "outcome":
					outcome = l.GetValue()
				}
			}
			fmt.Printf("%-13s %-9s %g\n", mode, outcome, m.GetCounter().GetValue())
		}
	}
}
