// Package codec provides the sticky-error binary reader/writer every
// component's save-state methods are built on, the same "accumulate the
// first error, skip remaining ops" shape as bufio.Writer's own internal
// checked-write helpers.
package codec

import "encoding/binary"

// Writer wraps an io.Writer-like sink with a left-to-right field writer
// that stops doing real work after the first error, so a component's
// SaveState method can chain writes without checking err after each one.
type Writer struct {
	w   interface{ Write([]byte) (int, error) }
	err error
}

func NewWriter(w interface{ Write([]byte) (int, error) }) *Writer { return &Writer{w: w} }

func (s *Writer) Err() error { return s.err }

func (s *Writer) U8(v uint8) {
	if s.err != nil {
		return
	}
	_, s.err = s.w.Write([]byte{v})
}

func (s *Writer) Bool(v bool) {
	var b uint8
	if v {
		b = 1
	}
	s.U8(b)
}

func (s *Writer) U16(v uint16) {
	if s.err != nil {
		return
	}
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	_, s.err = s.w.Write(buf[:])
}

func (s *Writer) U32(v uint32) {
	if s.err != nil {
		return
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, s.err = s.w.Write(buf[:])
}

func (s *Writer) I32(v int32) { s.U32(uint32(v)) }

func (s *Writer) U64(v uint64) {
	if s.err != nil {
		return
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, s.err = s.w.Write(buf[:])
}

func (s *Writer) Bytes(b []byte) {
	if s.err != nil {
		return
	}
	_, s.err = s.w.Write(b)
}

// Reader is Writer's mirror image for deserialize.
type Reader struct {
	r   interface{ Read([]byte) (int, error) }
	err error
}

func NewReader(r interface{ Read([]byte) (int, error) }) *Reader { return &Reader{r: r} }

func (s *Reader) Err() error { return s.err }

func (s *Reader) readExact(buf []byte) {
	if s.err != nil {
		return
	}
	_, s.err = readFull(s.r, buf)
}

func readFull(r interface{ Read([]byte) (int, error) }, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func (s *Reader) U8() uint8 {
	var buf [1]byte
	s.readExact(buf[:])
	return buf[0]
}

func (s *Reader) Bool() bool { return s.U8() != 0 }

func (s *Reader) U16() uint16 {
	var buf [2]byte
	s.readExact(buf[:])
	return binary.LittleEndian.Uint16(buf[:])
}

func (s *Reader) U32() uint32 {
	var buf [4]byte
	s.readExact(buf[:])
	return binary.LittleEndian.Uint32(buf[:])
}

func (s *Reader) I32() int32 { return int32(s.U32()) }

func (s *Reader) U64() uint64 {
	var buf [8]byte
	s.readExact(buf[:])
	return binary.LittleEndian.Uint64(buf[:])
}

func (s *Reader) Bytes(buf []byte) { s.readExact(buf) }
