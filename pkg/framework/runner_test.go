package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestRunnerWait(t *testing.T) {
	failed := errors.New("failed")
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRunnerWith(ctx)
	r.Go(
		NamedRun("blocked", RunFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})),
		RunFunc(func(context.Context) error {
			cancel()
			return failed
		}),
		RunFunc(func(context.Context) error { return nil }),
	)
	require.Equal(t, failed, r.Wait())
	require.NoError(t, r.Wait())
}

func TestAggregatedError(t *testing.T) {
	e1, e2 := errors.New("e1"), errors.New("e2")
	var errs AggregatedError
	require.NoError(t, errs.Add(nil).Aggregate())
	require.Equal(t, e1, errs.Add(e1, nil).Aggregate())
	err := errs.Add(e2).Aggregate()
	require.Equal(t, "multiple errors:\ne1\ne2", err.Error())
}

func TestRunWithContextCloser(t *testing.T) {
	unblock := make(chan struct{})
	closes := 0
	closer := closerFunc(func() error {
		closes++
		close(unblock)
		return nil
	})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := RunWithContextCloser(ctx, closer, func() error {
		<-unblock
		return errors.New("closed")
	})
	require.Equal(t, context.DeadlineExceeded, err)
	require.Equal(t, 1, closes)

	closes = 0
	unblock = make(chan struct{})
	require.NoError(t, RunWithContextCloser(context.Background(), closer, func() error { return nil }))
	require.Equal(t, 1, closes)
}

func TestRunWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Equal(t, context.Canceled, RunWithContext(ctx, func() error {
		select {}
	}))
	failed := errors.New("failed")
	require.Equal(t, failed, RunWithContext(context.Background(), func() error { return failed }))
}
