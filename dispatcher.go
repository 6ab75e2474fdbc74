package gbt

import "fmt"

// DeviceReply is the successful outcome of one operation. Data is only set
// for reads and holds exactly Size bytes.
type DeviceReply struct {
	Mode Mode
	Loc  Location
	Data []byte
}

// Dispatcher runs Requests against one GBT server. A Dispatcher holds no
// state between calls; callers serialise operations per (gbt, sca, bus).
type Dispatcher struct {
	Transport Transport
	Services  Services
	// Registry defaults to DefaultRegistry.
	Registry *Registry
	// Metrics is optional.
	Metrics *Metrics
}

// Dispatch encodes req, sends it and decodes the reply. Nothing is sent when
// req can't be encoded.
func (d *Dispatcher) Dispatch(req Request) (*DeviceReply, error) {
	start := ctime.Now()
	rep, err := d.dispatch(&req)
	d.Metrics.observe(req.Mode, ctime.Now().Sub(start), err)
	return rep, err
}

func (d *Dispatcher) dispatch(req *Request) (*DeviceReply, error) {
	if d.Transport == nil {
		panic("nil Dispatcher.Transport")
	}
	if err := d.Services.Validate(); err != nil {
		panic("invalid Dispatcher.Services: " + err.Error())
	}

	cmd, err := Encode(*req)
	if err != nil {
		return nil, err
	}
	loc := cmd.Location()

	name := d.Services.Command()
	status, err := d.Transport.SendCommand(name, cmd)
	if err != nil {
		return nil, located(err, name, loc)
	}
	if status != CmdDelivered {
		return nil, &TransportError{name, &loc,
			fmt.Errorf("command not delivered: status %d", status)}
	}
	if req.Mode.isChannel() {
		debugLog("RX: %s done", cmd.Tx())
		return &DeviceReply{Mode: req.Mode, Loc: loc}, nil
	}

	info, schema := d.Services.ReadInfo(), SchemaRead
	if req.Mode == ModeWrite {
		info, schema = d.Services.WriteInfo(), SchemaWrite
	}
	r, err := d.Transport.QueryInfo(info, schema)
	if err != nil {
		return nil, located(err, info, loc)
	}
	debugLog("RX: %s status=%d [% X]", cmd.Tx(), r.Status, r.Data)

	reg := d.Registry
	if reg == nil {
		reg = DefaultRegistry
	}
	rep, err := decodeI2C(req, r, reg)
	if err != nil {
		return nil, located(err, info, loc)
	}
	return rep, nil
}

// Write sends req as a write and waits for the write status.
func (d *Dispatcher) Write(req Request) error {
	req.Mode = ModeWrite
	_, err := d.Dispatch(req)
	return err
}

// Read sends req as a read and returns the Size bytes read.
func (d *Dispatcher) Read(req Request) ([]byte, error) {
	req.Mode = ModeRead
	rep, err := d.Dispatch(req)
	if err != nil {
		return nil, err
	}
	return rep.Data, nil
}

// ActivateChannel enables the I2C channel bus of an SCA.
func (d *Dispatcher) ActivateChannel(gbt, sca, bus int) error {
	_, err := d.Dispatch(Request{
		Mode: ModeActivateCh, GBT: gbt, SCA: sca, Bus: bus,
	})
	return err
}

// DeactivateChannel disables the I2C channel bus of an SCA.
func (d *Dispatcher) DeactivateChannel(gbt, sca, bus int) error {
	_, err := d.Dispatch(Request{
		Mode: ModeDeactivateCh, GBT: gbt, SCA: sca, Bus: bus,
	})
	return err
}

// decodeI2C is the reply step of the I2C family: status 0 is success, any
// other status is classified; reads keep exactly Size bytes.
func decodeI2C(req *Request, r Reply, reg *Registry) (*DeviceReply, error) {
	loc := req.Location()
	if r.Status != 0 {
		return nil, &DeviceError{req.Mode, loc,
			reg.Classify(FamilyI2C, uint32(r.Status))}
	}

	rep := &DeviceReply{Mode: req.Mode, Loc: loc}
	if req.Mode == ModeWrite {
		return rep, nil
	}
	if len(r.Data) < req.Size {
		return nil, &TransportError{Err: fmt.Errorf(
			"read returned %d byte(s), want %d", len(r.Data), req.Size)}
	}
	rep.Data = r.Data[:req.Size:req.Size]
	return rep, nil
}

// located adds the operation context to transport errors. Other errors are
// already located.
func located(err error, service string, loc Location) error {
	switch e := err.(type) {
	case *TransportError:
		c := *e
		if c.Service == "" {
			c.Service = service
		}
		if c.Loc == nil {
			c.Loc = &loc
		}
		return &c
	case *DeviceError:
		return err
	default:
		return &TransportError{service, &loc, err}
	}
}
