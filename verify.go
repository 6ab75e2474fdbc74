package gbt

import (
	"bytes"
	"errors"
	"fmt"
)

const DefaultMaxRetry = 5

// RetrySession is the state of one WriteVerify call.
type RetrySession struct {
	Attempt     int
	MaxAttempts int
	Expected    []byte
	// Observed is the most recent read-back, nil until one succeeded.
	Observed []byte
	// Last is the device error of the current attempt, if any.
	Last error
}

// WriteVerify writes req and reads the same registers back until they hold
// expected, at most maxRetry times (DefaultMaxRetry when maxRetry <= 0).
// There is no delay between attempts.
//
// req must be a write. A device error in the write or the read-back uses up
// an attempt. Any other failure stops at once and is returned as is.
func (d *Dispatcher) WriteVerify(req Request, expected []byte, maxRetry int) error {
	if maxRetry <= 0 {
		maxRetry = DefaultMaxRetry
	}
	if req.Mode != ModeWrite {
		return &EncodingError{Mode: req.Mode, Loc: req.Location(),
			Reason: "write-verify needs a write request"}
	}
	if err := req.Validate(); err != nil {
		return err
	}
	if len(expected) != req.Size {
		return &EncodingError{Mode: req.Mode, Loc: req.Location(),
			Reason: fmt.Sprintf("expected value has %d byte(s) for size %d",
				len(expected), req.Size)}
	}

	s := &RetrySession{
		MaxAttempts: maxRetry,
		Expected:    bytes.Clone(expected),
	}
	back := req.readBack()
	for s.Attempt < s.MaxAttempts {
		ok, err := d.attempt(s, req, back)
		if err != nil {
			d.Metrics.attempts(s.Attempt + 1)
			return err
		}
		if ok {
			d.Metrics.attempts(s.Attempt + 1)
			return nil
		}
		s.Attempt++
		debugLog("verify %s: attempt %d/%d mismatch", req.Location(),
			s.Attempt, s.MaxAttempts)
	}

	d.Metrics.attempts(s.Attempt)
	return &VerifyError{
		Loc:      req.Location(),
		Attempts: s.Attempt,
		Expected: s.Expected,
		Observed: s.Observed,
		Last:     s.Last,
	}
}

// WriteVerifyValue encodes value over req.Size registers and write-verifies
// it.
func (d *Dispatcher) WriteVerifyValue(req Request, value string, maxRetry int) error {
	data, err := EncodeValue(value, req.Size)
	if err != nil {
		return &EncodingError{Mode: req.Mode, Loc: req.Location(),
			Reason: err.Error(), Err: err}
	}
	req.Data = data
	return d.WriteVerify(req, data, maxRetry)
}

func (d *Dispatcher) attempt(s *RetrySession, write, read Request) (bool, error) {
	s.Last = nil
	if _, err := d.Dispatch(write); err != nil {
		return false, s.keep(err)
	}
	rep, err := d.Dispatch(read)
	if err != nil {
		return false, s.keep(err)
	}
	s.Observed = rep.Data
	return bytes.Equal(rep.Data, s.Expected), nil
}

// keep records a device error as the attempt's failure and hands back
// anything else.
func (s *RetrySession) keep(err error) error {
	var dev *DeviceError
	if errors.As(err, &dev) {
		s.Last = err
		return nil
	}
	return err
}
