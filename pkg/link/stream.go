// Package link connects byte-oriented transports to the device and host.
package link

import (
	"bufio"
	"context"
	"errors"
	"io"
	"sync"
	"time"
)

var (
	// ErrClosed indicates the stream is closed or the peer went away.
	ErrClosed = errors.New("link closed")
	// ErrTimeout indicates no byte arrived in time.
	ErrTimeout = errors.New("link timeout")
)

// Drainer is implemented by ports which can block until the
// output buffer is physically transmitted.
type Drainer interface {
	Drain() error
}

// Stream wraps an io.ReadWriter with a background read loop so
// pending input can be polled without blocking.
type Stream struct {
	rw io.ReadWriter
	w  *bufio.Writer

	byteCh chan byte
	doneCh chan struct{}
	endCh  chan struct{}
	peek   byte
	peeked bool

	err       error
	errLock   sync.Mutex
	writeLock sync.Mutex
	closeOnce sync.Once
}

// NewStream creates a Stream and starts reading from rw.
func NewStream(rw io.ReadWriter) *Stream {
	s := &Stream{
		rw:     rw,
		w:      bufio.NewWriter(rw),
		byteCh: make(chan byte, 4096),
		doneCh: make(chan struct{}),
		endCh:  make(chan struct{}),
	}
	go s.readLoop()
	return s
}

func (s *Stream) readLoop() {
	defer close(s.endCh)
	defer close(s.byteCh)
	buf := make([]byte, 256)
	for {
		n, err := s.rw.Read(buf)
		for _, b := range buf[:n] {
			select {
			case s.byteCh <- b:
			case <-s.doneCh:
				return
			}
		}
		if err != nil {
			s.setErr(err)
			return
		}
	}
}

func (s *Stream) setErr(err error) {
	s.errLock.Lock()
	if s.err == nil {
		s.err = err
	}
	s.errLock.Unlock()
}

// Done is closed when nothing more can be read, after Close or when
// the peer went away.
func (s *Stream) Done() <-chan struct{} {
	return s.endCh
}

// Err returns the error terminating the read loop, if any.
func (s *Stream) Err() error {
	s.errLock.Lock()
	defer s.errLock.Unlock()
	return s.err
}

// Available implements hal.Transport.
func (s *Stream) Available() bool {
	if s.peeked {
		return true
	}
	select {
	case b, ok := <-s.byteCh:
		if !ok {
			return false
		}
		s.peek, s.peeked = b, true
		return true
	default:
		return false
	}
}

// Read implements hal.Transport. It blocks when nothing is available
// and returns 0 once the stream is closed.
func (s *Stream) Read() byte {
	b, _ := s.Next(context.Background())
	return b
}

// Next waits for the next byte.
func (s *Stream) Next(ctx context.Context) (byte, error) {
	if s.peeked {
		s.peeked = false
		return s.peek, nil
	}
	select {
	case b, ok := <-s.byteCh:
		if !ok {
			return 0, s.closedErr()
		}
		return b, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return 0, ErrTimeout
		}
		return 0, ctx.Err()
	}
}

// NextTimeout waits for the next byte at most timeout.
// A zero timeout waits until ctx is done.
func (s *Stream) NextTimeout(ctx context.Context, timeout time.Duration) (byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.Next(ctx)
}

// Reader returns an io.Reader of the stream bound to ctx. A read fails
// with ErrTimeout when no byte arrives within idle (0 means no limit).
func (s *Stream) Reader(ctx context.Context, idle time.Duration) io.Reader {
	return &streamReader{s: s, ctx: ctx, idle: idle}
}

// Discard drops all bytes already received.
func (s *Stream) Discard() int {
	n := 0
	for s.Available() {
		s.peeked = false
		n++
	}
	return n
}

func (s *Stream) closedErr() error {
	if err := s.Err(); err != nil && err != io.EOF {
		return err
	}
	return ErrClosed
}

// Write implements hal.Transport.
func (s *Stream) Write(p []byte) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()
	_, err := s.w.Write(p)
	return err
}

// Flush implements hal.Transport.
func (s *Stream) Flush() error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()
	if err := s.w.Flush(); err != nil {
		return err
	}
	if d, ok := s.rw.(Drainer); ok {
		return d.Drain()
	}
	return nil
}

// Send writes p and flushes.
func (s *Stream) Send(p ...byte) error {
	if err := s.Write(p); err != nil {
		return err
	}
	return s.Flush()
}

// Close stops the read loop and closes the underlying ReadWriter
// if it is an io.Closer.
func (s *Stream) Close() (err error) {
	s.closeOnce.Do(func() {
		close(s.doneCh)
		if c, ok := s.rw.(io.Closer); ok {
			err = c.Close()
		}
	})
	return
}

type streamReader struct {
	s    *Stream
	ctx  context.Context
	idle time.Duration
}

func (r *streamReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	b, err := r.s.NextTimeout(r.ctx, r.idle)
	if err != nil {
		if err == ErrClosed {
			return 0, io.EOF
		}
		return 0, err
	}
	p[0] = b
	n := 1
	for n < len(p) && r.s.Available() {
		p[n], r.s.peeked = r.s.peek, false
		n++
	}
	return n, nil
}
