package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/sysid.go/pkg/hal"
	"github.com/robotalks/sysid.go/pkg/hal/fake"
)

type edge struct {
	at time.Duration
	on bool
}

func blink(t *testing.T, succeeded bool) []edge {
	clock := &fake.Clock{Step: time.Millisecond}
	s := &Session{Clock: clock}
	if succeeded {
		s.state = StateSent
	} else {
		s.state = StateFailed
	}
	var edges []edge
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ind := hal.IndicatorFunc(func(on bool) {
		edges = append(edges, edge{at: clock.Now(), on: on})
		if len(edges) == 4 {
			cancel()
		}
	})
	err := NewBlinker(s, ind).Run(ctx)
	require.Equal(t, context.Canceled, err)
	return edges
}

func TestBlinkerRates(t *testing.T) {
	testCases := []struct {
		name      string
		succeeded bool
		half      time.Duration
	}{
		{"success blinks fast", true, SuccessHalfPeriod},
		{"failure blinks slow", false, FailureHalfPeriod},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			edges := blink(t, tc.succeeded)
			// 4 toggles and the final off on exit.
			require.Len(t, edges, 5)
			for i := 0; i < 4; i++ {
				require.Equal(t, i%2 == 0, edges[i].on)
				require.Equal(t, time.Duration(i)*tc.half, edges[i].at)
			}
			require.False(t, edges[4].on)
		})
	}
}

func TestCodes(t *testing.T) {
	testCases := []struct {
		code   Code
		sender Sender
		name   string
	}{
		{HostCheckConnection, SenderHost, "HostCheckConnection"},
		{DeviceCheckConnection, SenderDevice, "DeviceCheckConnection"},
		{HostStartTest, SenderHost, "HostStartTest"},
		{DeviceAckStart, SenderDevice, "DeviceAckStart"},
		{DeviceTestSuccess, SenderDevice, "DeviceTestSuccess"},
		{HostRequestData, SenderHost, "HostRequestData"},
		{DeviceDataRequestAck, SenderDevice, "DeviceDataRequestAck"},
		{Code(0), SenderNone, "Code(0x00)"},
		{Code(0x08), SenderNone, "Code(0x08)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.sender, tc.code.Sender())
			require.Equal(t, tc.sender != SenderNone, tc.code.Valid())
			require.Equal(t, tc.name, tc.code.String())
		})
	}
}

func TestStates(t *testing.T) {
	require.Equal(t, "ConnectionChecked", StateConnectionChecked.String())
	require.Equal(t, "State(42)", State(42).String())
	require.True(t, StateSent.Terminal())
	require.True(t, StateFailed.Terminal())
	require.False(t, StateDataRequested.Terminal())
	require.Equal(t, "Success", Success.String())
	require.Equal(t, "Failure", Failure.String())
}
