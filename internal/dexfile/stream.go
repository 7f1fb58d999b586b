// Dex data stream reader.
// Implements the little-endian scalars, LEB128 variants and MUTF-8 strings
// used throughout the dex file format.
package dexfile

import (
	"encoding/binary"
	"errors"
	"unicode/utf16"
)

var (
	ErrStreamEOF     = errors.New("dexfile: unexpected end of data")
	ErrStreamOverrun = errors.New("dexfile: value too large")
	ErrBadMUTF8      = errors.New("dexfile: malformed MUTF-8 sequence")
)

// Stream reads dex data using the format's encoding conventions.
type Stream struct {
	data []byte
	pos  int
	end  int
}

// NewStream creates a stream over the given data.
func NewStream(data []byte) *Stream {
	return &Stream{data: data, pos: 0, end: len(data)}
}

// NewStreamAt creates a stream starting at offset within data.
func NewStreamAt(data []byte, offset int) *Stream {
	if offset > len(data) {
		offset = len(data)
	}
	return &Stream{data: data, pos: offset, end: len(data)}
}

// Position returns the current read position.
func (s *Stream) Position() int { return s.pos }

// SetPosition sets the read position.
func (s *Stream) SetPosition(pos int) {
	if pos > s.end {
		pos = s.end
	}
	s.pos = pos
}

// Remaining returns bytes left to read.
func (s *Stream) Remaining() int { return s.end - s.pos }

// ReadByte reads a single byte.
func (s *Stream) ReadByte() (byte, error) {
	if s.pos >= s.end {
		return 0, ErrStreamEOF
	}
	b := s.data[s.pos]
	s.pos++
	return b, nil
}

// ReadUint16 reads a little-endian uint16.
func (s *Stream) ReadUint16() (uint16, error) {
	if s.pos+2 > s.end {
		return 0, ErrStreamEOF
	}
	v := binary.LittleEndian.Uint16(s.data[s.pos:])
	s.pos += 2
	return v, nil
}

// ReadUint32 reads a little-endian uint32.
func (s *Stream) ReadUint32() (uint32, error) {
	if s.pos+4 > s.end {
		return 0, ErrStreamEOF
	}
	v := binary.LittleEndian.Uint32(s.data[s.pos:])
	s.pos += 4
	return v, nil
}

// ReadULEB128 reads an unsigned little-endian base-128 integer.
// Dex caps these at five bytes (32 bits of payload).
func (s *Stream) ReadULEB128() (uint32, error) {
	var r uint32
	var shift uint
	for {
		b, err := s.ReadByte()
		if err != nil {
			return 0, err
		}
		if shift >= 32 {
			return 0, ErrStreamOverrun
		}
		r |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return r, nil
		}
		shift += 7
	}
}

// ReadSLEB128 reads a signed little-endian base-128 integer.
func (s *Stream) ReadSLEB128() (int32, error) {
	var r int32
	var shift uint
	for {
		b, err := s.ReadByte()
		if err != nil {
			return 0, err
		}
		if shift >= 32 {
			return 0, ErrStreamOverrun
		}
		r |= int32(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			if shift < 32 && b&0x40 != 0 {
				r |= -1 << shift
			}
			return r, nil
		}
	}
}

// ReadSizedInt reads size bytes little-endian and sign-extends.
// Used by encoded_value scalars (byte, short, int, long).
func (s *Stream) ReadSizedInt(size int) (int64, error) {
	if size < 1 || size > 8 {
		return 0, ErrStreamOverrun
	}
	var r uint64
	for i := 0; i < size; i++ {
		b, err := s.ReadByte()
		if err != nil {
			return 0, err
		}
		r |= uint64(b) << (8 * uint(i))
	}
	shift := uint(64 - 8*size)
	return int64(r<<shift) >> shift, nil
}

// ReadSizedUint reads size bytes little-endian, zero-extended.
// Used by encoded_value index payloads (string, type, handle indices).
func (s *Stream) ReadSizedUint(size int) (uint64, error) {
	if size < 1 || size > 8 {
		return 0, ErrStreamOverrun
	}
	var r uint64
	for i := 0; i < size; i++ {
		b, err := s.ReadByte()
		if err != nil {
			return 0, err
		}
		r |= uint64(b) << (8 * uint(i))
	}
	return r, nil
}

// ReadSizedFloatBits reads size bytes little-endian, zero-extended to the
// right of a width-bit pattern. Encoded floats and doubles drop trailing
// zero bytes, so the bytes read here occupy the most significant positions.
func (s *Stream) ReadSizedFloatBits(size, width int) (uint64, error) {
	if size < 1 || size*8 > width {
		return 0, ErrStreamOverrun
	}
	v, err := s.ReadSizedUint(size)
	if err != nil {
		return 0, err
	}
	return v << (uint(width) - 8*uint(size)), nil
}

// ReadMUTF8 reads a NUL-terminated modified-UTF-8 string.
// Encoded NUL (0xC0 0x80) and surrogate pairs are handled; the terminating
// byte is consumed.
func (s *Stream) ReadMUTF8() (string, error) {
	var units []uint16
	for {
		b, err := s.ReadByte()
		if err != nil {
			return "", err
		}
		switch {
		case b == 0:
			return string(utf16.Decode(units)), nil
		case b < 0x80:
			units = append(units, uint16(b))
		case b&0xe0 == 0xc0:
			b2, err := s.ReadByte()
			if err != nil {
				return "", err
			}
			if b2&0xc0 != 0x80 {
				return "", ErrBadMUTF8
			}
			units = append(units, uint16(b&0x1f)<<6|uint16(b2&0x3f))
		case b&0xf0 == 0xe0:
			b2, err := s.ReadByte()
			if err != nil {
				return "", err
			}
			b3, err := s.ReadByte()
			if err != nil {
				return "", err
			}
			if b2&0xc0 != 0x80 || b3&0xc0 != 0x80 {
				return "", ErrBadMUTF8
			}
			units = append(units, uint16(b&0x0f)<<12|uint16(b2&0x3f)<<6|uint16(b3&0x3f))
		default:
			return "", ErrBadMUTF8
		}
	}
}
