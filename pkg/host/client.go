// Package host drives an experiment from the host side of the link.
package host

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/sysid.go/pkg/excitation"
	"github.com/robotalks/sysid.go/pkg/frame"
	"github.com/robotalks/sysid.go/pkg/link"
	"github.com/robotalks/sysid.go/pkg/session"
)

// Client runs the handshake against a device.
type Client struct {
	Config     *Config
	Experiment *excitation.Config

	stream  *link.Stream
	started time.Time
}

// NewClient creates a Client over rw.
func NewClient(rw io.ReadWriter, cfg *Config, exp *excitation.Config) *Client {
	return &Client{
		Config:     cfg,
		Experiment: exp,
		stream:     link.NewStream(rw),
	}
}

// Close closes the link.
func (c *Client) Close() error {
	return c.stream.Close()
}

// CheckConnection sends HostCheckConnection until the device answers.
// Unrelated bytes are ignored.
func (c *Client) CheckConnection(ctx context.Context) error {
	c.stream.Discard()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.stream.Send(byte(session.HostCheckConnection)); err != nil {
			return err
		}
		for {
			b, err := c.stream.NextTimeout(ctx, c.Config.Timeout)
			if err == ErrTimeout {
				glog.V(1).Info("no response, retry connection check")
				break
			}
			if err != nil {
				return err
			}
			if session.Code(b) == session.DeviceCheckConnection {
				glog.V(1).Info("connection confirmed")
				return nil
			}
			glog.V(2).Infof("ignored 0x%02x", b)
		}
	}
}

// Start starts the test and waits for the acknowledgment.
func (c *Client) Start(ctx context.Context) error {
	if err := c.stream.Send(byte(session.HostStartTest)); err != nil {
		return err
	}
	if err := c.expect(ctx, c.Config.Timeout, session.DeviceAckStart); err != nil {
		return err
	}
	c.started = time.Now()
	glog.V(1).Info("start acknowledged")
	return nil
}

// WaitComplete waits for the device to finish the test.
func (c *Client) WaitComplete(ctx context.Context) error {
	if err := c.expect(ctx, c.Config.CompleteTimeoutFor(c.Experiment), session.DeviceTestSuccess); err != nil {
		return err
	}
	glog.V(1).Info("test completed")
	return nil
}

// RequestData requests and receives the record.
// A bad end marker is logged and the record is still returned.
func (c *Client) RequestData(ctx context.Context) (*excitation.Record, error) {
	if err := c.stream.Send(byte(session.HostRequestData)); err != nil {
		return nil, err
	}
	if err := c.expect(ctx, c.Config.Timeout, session.DeviceDataRequestAck); err != nil {
		return nil, err
	}
	rec, err := frame.ReadFrom(c.stream.Reader(ctx, c.Config.Timeout), c.Experiment.Samples)
	if errors.Is(err, frame.ErrBadEndMarker) {
		glog.Warningf("%v, data kept", err)
		err = nil
	}
	if err != nil {
		return nil, err
	}
	glog.V(1).Infof("received %d samples", rec.Len())
	return rec, nil
}

// Run runs the whole handshake.
func (c *Client) Run(ctx context.Context) (*Experiment, error) {
	if err := c.CheckConnection(ctx); err != nil {
		return nil, err
	}
	if err := c.Start(ctx); err != nil {
		return nil, err
	}
	if err := c.WaitComplete(ctx); err != nil {
		return nil, err
	}
	rec, err := c.RequestData(ctx)
	if err != nil {
		return nil, err
	}
	return c.NewExperiment(rec), nil
}

// NewExperiment labels rec with the current run.
func (c *Client) NewExperiment(rec *excitation.Record) *Experiment {
	return &Experiment{
		DeviceID:     c.Config.DeviceID,
		SamplePeriod: c.Experiment.SamplePeriod,
		Started:      c.started,
		Record:       rec,
	}
}

func (c *Client) expect(ctx context.Context, timeout time.Duration, code session.Code) error {
	b, err := c.stream.NextTimeout(ctx, timeout)
	if err != nil {
		return err
	}
	if actual := session.Code(b); actual != code {
		return &UnexpectedCodeError{Expected: code, Actual: actual}
	}
	return nil
}
