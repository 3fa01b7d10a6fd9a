package host

import (
	"bytes"
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/sysid.go/pkg/excitation"
	"github.com/robotalks/sysid.go/pkg/frame"
	"github.com/robotalks/sysid.go/pkg/hal"
	"github.com/robotalks/sysid.go/pkg/link"
	"github.com/robotalks/sysid.go/pkg/session"
	"github.com/robotalks/sysid.go/pkg/sim/motor"
)

type replyFunc func(b byte, count int) []byte

func newTestClient(t *testing.T, samples int) (*Client, net.Conn) {
	a, b := net.Pipe()
	cfg := &Config{DeviceID: "test", Timeout: 50 * time.Millisecond}
	exp := excitation.NewConfig()
	exp.Samples = samples
	c := NewClient(a, cfg, exp)
	t.Cleanup(func() {
		c.Close()
		b.Close()
	})
	return c, b
}

// serve replays fn for every byte received by the device.
func serve(dev net.Conn, fn replyFunc) {
	go func() {
		counts := make(map[byte]int)
		buf := make([]byte, 1)
		for {
			if _, err := dev.Read(buf); err != nil {
				return
			}
			counts[buf[0]]++
			if reply := fn(buf[0], counts[buf[0]]); len(reply) > 0 {
				if _, err := dev.Write(reply); err != nil {
					return
				}
			}
		}
	}()
}

func testRecord(n int) *excitation.Record {
	rec := excitation.NewRecord(n)
	for i := 0; i < n; i++ {
		rec.Input[i] = float32(i%5)/10 - 0.2
		rec.Angle[i] = float32(i) * 0.25
	}
	return rec
}

func TestClientCheckConnectionRetries(t *testing.T) {
	c, dev := newTestClient(t, 8)
	checks := make(chan int, 4)
	serve(dev, func(b byte, count int) []byte {
		if session.Code(b) != session.HostCheckConnection {
			return nil
		}
		checks <- count
		if count < 3 {
			return nil
		}
		return []byte{0x55, byte(session.DeviceAckStart), byte(session.DeviceCheckConnection)}
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, c.CheckConnection(ctx))
	require.Len(t, checks, 3)
}

func TestClientCheckConnectionCanceled(t *testing.T) {
	c, dev := newTestClient(t, 8)
	serve(dev, func(byte, int) []byte { return nil })
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()
	require.Equal(t, context.DeadlineExceeded, c.CheckConnection(ctx))
}

func TestClientUnexpectedReplies(t *testing.T) {
	testCases := []struct {
		name   string
		reply  map[session.Code]session.Code
		action func(*Client, context.Context) error
		expect error
	}{
		{
			name:   "start acked",
			reply:  map[session.Code]session.Code{session.HostStartTest: session.DeviceAckStart},
			action: (*Client).Start,
		},
		{
			name:   "start wrong code",
			reply:  map[session.Code]session.Code{session.HostStartTest: session.DeviceTestSuccess},
			action: (*Client).Start,
			expect: &UnexpectedCodeError{Expected: session.DeviceAckStart, Actual: session.DeviceTestSuccess},
		},
		{
			name:   "start silent",
			action: (*Client).Start,
			expect: ErrTimeout,
		},
		{
			name: "data request wrong code",
			reply: map[session.Code]session.Code{
				session.HostRequestData: session.DeviceCheckConnection,
			},
			action: func(c *Client, ctx context.Context) error {
				_, err := c.RequestData(ctx)
				return err
			},
			expect: &UnexpectedCodeError{Expected: session.DeviceDataRequestAck, Actual: session.DeviceCheckConnection},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, dev := newTestClient(t, 8)
			serve(dev, func(b byte, _ int) []byte {
				if code, ok := tc.reply[session.Code(b)]; ok {
					return []byte{byte(code)}
				}
				return nil
			})
			err := tc.action(c, context.Background())
			if tc.expect == nil {
				require.NoError(t, err)
			} else {
				require.Equal(t, tc.expect, err)
			}
		})
	}
}

func TestClientWaitCompleteTimeout(t *testing.T) {
	c, _ := newTestClient(t, 8)
	c.Config.CompleteTimeout = 20 * time.Millisecond
	require.Equal(t, ErrTimeout, c.WaitComplete(context.Background()))
}

func TestClientRequestData(t *testing.T) {
	rec := testRecord(16)
	testCases := []struct {
		name    string
		corrupt func([]byte)
		expect  error
	}{
		{name: "valid"},
		{
			name:    "bad end marker kept",
			corrupt: func(data []byte) { data[len(data)-1] = 'X' },
		},
		{
			name:    "bad start marker",
			corrupt: func(data []byte) { data[0] = 'X' },
			expect:  frame.ErrBadStartMarker,
		},
		{
			name:    "truncated",
			corrupt: func(data []byte) {},
			expect:  ErrTimeout,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, dev := newTestClient(t, 16)
			data := frame.Encode(rec)
			if tc.corrupt != nil {
				tc.corrupt(data)
			}
			if tc.expect == ErrTimeout {
				data = data[:len(data)-4]
			}
			serve(dev, func(b byte, _ int) []byte {
				if session.Code(b) == session.HostRequestData {
					return append([]byte{byte(session.DeviceDataRequestAck)}, data...)
				}
				return nil
			})
			got, err := c.RequestData(context.Background())
			if tc.expect != nil {
				require.True(t, errors.Is(err, tc.expect), "unexpected error %v", err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, rec, got)
		})
	}
}

func TestCompleteTimeoutFor(t *testing.T) {
	exp := excitation.NewConfig()
	exp.SamplePeriod = 10 * time.Millisecond
	testCases := []struct {
		name     string
		samples  int
		override time.Duration
		expect   time.Duration
	}{
		{"floor", 1000, 0, MinCompleteTime},
		{"default samples", 4096, 0, 40960*time.Millisecond + CompleteMargin},
		{"long run", 10000, 0, 100*time.Second + CompleteMargin},
		{"configured", 4096, time.Second, time.Second},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			exp.Samples = tc.samples
			cfg := &Config{CompleteTimeout: tc.override}
			require.Equal(t, tc.expect, cfg.CompleteTimeoutFor(exp))
		})
	}
}

func TestClientRunWithDevice(t *testing.T) {
	hostConn, devConn := net.Pipe()
	exp := &excitation.Config{
		Samples:      50,
		SamplePeriod: 2 * time.Millisecond,
		InputMin:     -0.25,
		InputMax:     0.25,
		HoldMin:      4 * time.Millisecond,
		HoldMax:      20 * time.Millisecond,
	}
	clock := hal.NewSystemClock(100 * time.Microsecond)
	dev := link.NewStream(devConn)
	defer dev.Close()
	sess := session.New(dev, motor.NewConfig().NewMotor(clock), clock, exp)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	devErrCh := make(chan error, 1)
	go func() {
		devErrCh <- sess.Run(ctx)
	}()

	c := NewClient(hostConn, &Config{DeviceID: "sim", Timeout: time.Second, CompleteTimeout: 5 * time.Second}, exp)
	defer c.Close()
	result, err := c.Run(ctx)
	require.NoError(t, err)
	require.NoError(t, <-devErrCh)
	require.True(t, sess.Succeeded())

	require.Equal(t, "sim", result.DeviceID)
	require.Equal(t, exp.SamplePeriod, result.SamplePeriod)
	require.False(t, result.Started.IsZero())
	require.Equal(t, sess.Record(), result.Record)
	require.NoError(t, result.Record.Validate(-0.25, 0.25))

	var out bytes.Buffer
	require.NoError(t, WriteCSV(&out, result))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 51)
	require.Equal(t, "Time(s),Input,Angle", lines[0])
	require.True(t, strings.HasPrefix(lines[2], "0.002,"))
}
