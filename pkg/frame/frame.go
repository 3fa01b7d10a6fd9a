package frame

import (
	"encoding/binary"
	"math"

	"github.com/robotalks/sysid.go/pkg/excitation"
	"github.com/robotalks/sysid.go/pkg/hal"
)

// Markers
const (
	StartMarker = "DATA_START"
	EndMarker   = "DATA_END"
)

// FloatSize is the wire size of a sample value.
const FloatSize = 4

// ArraySize is the wire size of one array of n samples.
func ArraySize(n int) int {
	return n * FloatSize
}

// Size is the wire size of a frame of n samples.
func Size(n int) int {
	return len(StartMarker) + 2*ArraySize(n) + len(EndMarker)
}

// AppendFloats appends vals as raw little-endian float32.
func AppendFloats(dst []byte, vals []float32) []byte {
	var b [FloatSize]byte
	for _, v := range vals {
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
		dst = append(dst, b[:]...)
	}
	return dst
}

// DecodeFloats unpacks raw little-endian float32 from src into dst.
func DecodeFloats(dst []float32, src []byte) {
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*FloatSize:]))
	}
}

// Encode returns the complete frame of rec.
func Encode(rec *excitation.Record) []byte {
	b := make([]byte, 0, Size(rec.Len()))
	b = append(b, StartMarker...)
	b = AppendFloats(b, rec.Input)
	b = AppendFloats(b, rec.Angle)
	return append(b, EndMarker...)
}

// Write sends rec over t. Each block is flushed before the next one is
// written so the receiver never sees blocks interleaved in a buffer.
func Write(t hal.Transport, rec *excitation.Record) error {
	if err := writeBlock(t, []byte(StartMarker)); err != nil {
		return err
	}
	buf := make([]byte, 0, ArraySize(rec.Len()))
	if err := writeBlock(t, AppendFloats(buf, rec.Input)); err != nil {
		return err
	}
	if err := writeBlock(t, AppendFloats(buf[:0], rec.Angle)); err != nil {
		return err
	}
	return writeBlock(t, []byte(EndMarker))
}

func writeBlock(t hal.Transport, b []byte) error {
	if err := t.Write(b); err != nil {
		return err
	}
	return t.Flush()
}
