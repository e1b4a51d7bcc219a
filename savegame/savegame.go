// Package savegame is a versioned little-endian binary format for persisting simulation state.
//
// Writer and Reader carry a sticky error: after the first failure every call is
// a no-op and Err reports the cause, so callers check once at the end.
package savegame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/forcefield/vmath"
)

const (
	Magic = "FFSV"
	// Version 2 adds rigid body rest ticks
	Version = uint16(2)

	// maxStringLen guards corrupt length prefixes
	maxStringLen = 1 << 16
)

var (
	ErrBadMagic = errors.New("savegame: bad magic")
	ErrVersion  = errors.New("savegame: unsupported version")
	ErrTooLong  = errors.New("savegame: length out of range")
)

// Writer encodes values in save order
type Writer struct {
	w   io.Writer
	buf [8]byte
	err error
}

// NewWriter writes the header and returns a writer positioned after it
func NewWriter(w io.Writer) *Writer {
	sw := &Writer{w: w}
	sw.write([]byte(Magic))
	sw.WriteUint16(Version)
	return sw
}

func (w *Writer) Err() error { return w.err }

func (w *Writer) write(p []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(p)
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf[0] = 1
	} else {
		w.buf[0] = 0
	}
	w.write(w.buf[:1])
}

func (w *Writer) WriteUint8(v uint8) {
	w.buf[0] = v
	w.write(w.buf[:1])
}

func (w *Writer) WriteUint16(v uint16) {
	binary.LittleEndian.PutUint16(w.buf[:2], v)
	w.write(w.buf[:2])
}

func (w *Writer) WriteUint32(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[:4], v)
	w.write(w.buf[:4])
}

func (w *Writer) WriteInt64(v int64) {
	binary.LittleEndian.PutUint64(w.buf[:8], uint64(v))
	w.write(w.buf[:8])
}

func (w *Writer) WriteFloat64(v float64) {
	binary.LittleEndian.PutUint64(w.buf[:8], math.Float64bits(v))
	w.write(w.buf[:8])
}

func (w *Writer) WriteDuration(d time.Duration) { w.WriteInt64(int64(d)) }

func (w *Writer) WriteVec3(v vmath.Vec3F) {
	w.WriteFloat64(v.X)
	w.WriteFloat64(v.Y)
	w.WriteFloat64(v.Z)
}

func (w *Writer) WriteMat3(m vmath.Mat3) {
	for _, row := range m {
		w.WriteVec3(row)
	}
}

func (w *Writer) WriteUUID(id uuid.UUID) { w.write(id[:]) }

func (w *Writer) WriteString(s string) {
	if len(s) > maxStringLen {
		if w.err == nil {
			w.err = fmt.Errorf("%w: string of %d bytes", ErrTooLong, len(s))
		}
		return
	}
	w.WriteUint32(uint32(len(s)))
	w.write([]byte(s))
}

// Reader decodes values in the order a Writer produced them
type Reader struct {
	r       io.Reader
	buf     [8]byte
	err     error
	version uint16
}

// NewReader validates the header
func NewReader(r io.Reader) (*Reader, error) {
	sr := &Reader{r: r}
	var magic [len(Magic)]byte
	sr.read(magic[:])
	if sr.err != nil {
		return nil, sr.err
	}
	if string(magic[:]) != Magic {
		return nil, fmt.Errorf("%w: %q", ErrBadMagic, magic[:])
	}
	sr.version = sr.ReadUint16()
	if sr.err != nil {
		return nil, sr.err
	}
	if sr.version == 0 || sr.version > Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, sr.version)
	}
	return sr, nil
}

func (r *Reader) Err() error      { return r.err }
func (r *Reader) Version() uint16 { return r.version }

func (r *Reader) read(p []byte) {
	if r.err != nil {
		return
	}
	if _, err := io.ReadFull(r.r, p); err != nil {
		r.err = err
		clear(p)
	}
}

func (r *Reader) ReadBool() bool {
	r.read(r.buf[:1])
	return r.err == nil && r.buf[0] != 0
}

func (r *Reader) ReadUint8() uint8 {
	r.read(r.buf[:1])
	if r.err != nil {
		return 0
	}
	return r.buf[0]
}

func (r *Reader) ReadUint16() uint16 {
	r.read(r.buf[:2])
	if r.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint16(r.buf[:2])
}

func (r *Reader) ReadUint32() uint32 {
	r.read(r.buf[:4])
	if r.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(r.buf[:4])
}

func (r *Reader) ReadInt64() int64 {
	r.read(r.buf[:8])
	if r.err != nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(r.buf[:8]))
}

func (r *Reader) ReadFloat64() float64 {
	r.read(r.buf[:8])
	if r.err != nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(r.buf[:8]))
}

func (r *Reader) ReadDuration() time.Duration { return time.Duration(r.ReadInt64()) }

func (r *Reader) ReadVec3() vmath.Vec3F {
	return vmath.Vec3F{X: r.ReadFloat64(), Y: r.ReadFloat64(), Z: r.ReadFloat64()}
}

func (r *Reader) ReadMat3() vmath.Mat3 {
	var m vmath.Mat3
	for i := range m {
		m[i] = r.ReadVec3()
	}
	return m
}

func (r *Reader) ReadUUID() uuid.UUID {
	var id uuid.UUID
	r.read(id[:])
	return id
}

func (r *Reader) ReadString() string {
	n := r.ReadUint32()
	if r.err != nil {
		return ""
	}
	if n > maxStringLen {
		r.err = fmt.Errorf("%w: string of %d bytes", ErrTooLong, n)
		return ""
	}
	p := make([]byte, n)
	r.read(p)
	if r.err != nil {
		return ""
	}
	return string(p)
}

// ReadCount reads a collection length, rejecting values above limit
func (r *Reader) ReadCount(limit int) int {
	n := r.ReadUint32()
	if r.err != nil {
		return 0
	}
	if int64(n) > int64(limit) {
		r.err = fmt.Errorf("%w: count %d above %d", ErrTooLong, n, limit)
		return 0
	}
	return int(n)
}
