package frame

import (
	"io"

	"github.com/robotalks/sysid.go/pkg/excitation"
)

// Parser decodes a frame of a fixed number of samples, one byte at a time.
type Parser struct {
	samples int
	state   parseState
	pos     int
	data    []byte
	endOK   bool
}

type parseState int

const (
	stateStart parseState = iota // matching StartMarker
	stateData                    // collecting both arrays
	stateEnd                     // matching EndMarker
)

// NewParser creates a Parser for frames of n samples.
func NewParser(n int) *Parser {
	return &Parser{samples: n, data: make([]byte, 2*ArraySize(n))}
}

// Reset discards any partially parsed frame.
func (p *Parser) Reset() {
	p.state, p.pos, p.endOK = stateStart, 0, true
}

// Samples returns the number of samples per frame.
func (p *Parser) Samples() int {
	return p.samples
}

// Parse consumes one byte. It returns a Record once the frame is
// complete. A mismatching start marker resets the parser and returns
// ErrBadStartMarker; a mismatching byte that starts a new marker is kept. A mismatching end marker still returns the Record,
// together with ErrBadEndMarker.
func (p *Parser) Parse(b byte) (*excitation.Record, error) {
	switch p.state {
	case stateStart:
		if p.pos == 0 {
			p.endOK = true
		}
		if b != StartMarker[p.pos] {
			p.Reset()
			// b may itself begin the marker.
			if b == StartMarker[0] {
				p.pos = 1
			}
			return nil, ErrBadStartMarker
		}
		if p.pos++; p.pos == len(StartMarker) {
			p.state, p.pos = stateData, 0
			if len(p.data) == 0 {
				p.state = stateEnd
			}
		}
	case stateData:
		p.data[p.pos] = b
		if p.pos++; p.pos == len(p.data) {
			p.state, p.pos = stateEnd, 0
		}
	case stateEnd:
		if b != EndMarker[p.pos] {
			p.endOK = false
		}
		if p.pos++; p.pos == len(EndMarker) {
			return p.frameReady()
		}
	}
	return nil, nil
}

func (p *Parser) frameReady() (*excitation.Record, error) {
	rec := excitation.NewRecord(p.samples)
	DecodeFloats(rec.Input, p.data[:ArraySize(p.samples)])
	DecodeFloats(rec.Angle, p.data[ArraySize(p.samples):])
	endOK := p.endOK
	p.Reset()
	if !endOK {
		return rec, ErrBadEndMarker
	}
	return rec, nil
}

// Decode decodes a complete frame of n samples.
func Decode(data []byte, n int) (*excitation.Record, error) {
	if len(data) != Size(n) {
		return nil, &SizeError{Expected: Size(n), Actual: len(data)}
	}
	p := NewParser(n)
	for _, b := range data {
		rec, err := p.Parse(b)
		if rec != nil || err != nil {
			return rec, err
		}
	}
	return nil, io.ErrUnexpectedEOF
}

// ReadFrom reads and decodes a frame of n samples from r.
func ReadFrom(r io.Reader, n int) (*excitation.Record, error) {
	data := make([]byte, Size(n))
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return Decode(data, n)
}
