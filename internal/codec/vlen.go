// Package codec implements the on-disk binary dictionary format: a magic
// header, a feature-flag word, and the vlen-encoded alphabet/transducer
// sections spec.md §6 describes.
//
// Grounded on the legacy lttoolbox scheme referenced by spec.md §6 (7 bits
// per byte, MSB continuation), expressed here as plain explicit-loop
// bufio.Reader/Writer helpers in the teacher's straight-line style -- no
// third-party varint library appears anywhere in the retrieved pack, so
// this one corner of the codec is stdlib-only by necessity (see DESIGN.md).
package codec

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"math"
)

// Magic is the 4-byte file signature written ahead of the feature-flag word.
// Legacy files omit both and start directly with the letter count.
var Magic = [4]byte{'L', 'T', 'T', 'B'}

// Feature flags (spec.md §6: "bit 0 = weights-present").
const (
	FlagWeightsPresent uint64 = 1 << 0
)

// knownFlags is every bit this codec understands; ReadHeader rejects a file
// that sets a bit outside this mask so a newer-format file fails loudly
// instead of silently misreading.
const knownFlags = FlagWeightsPresent

// ErrUnknownFeatureFlag is returned by ReadHeader when the file declares a
// feature bit this codec doesn't understand.
var ErrUnknownFeatureFlag = errors.New("codec: unknown feature flag bit set")

// ErrMalformedBinary reports a varint longer than 64 bits on read, and on
// write an alphabet symbol or pair that cannot be looked up. Truncated
// input surfaces as the underlying read error instead.
var ErrMalformedBinary = errors.New("codec: malformed binary dictionary")

// WriteVlen writes v as a self-delimited base-128 varint: 7 payload bits per
// byte, MSB set on every byte but the last.
func WriteVlen(w io.ByteWriter, v uint64) error {
	for v >= 0x80 {
		if err := w.WriteByte(byte(v) | 0x80); err != nil {
			return err
		}
		v >>= 7
	}
	return w.WriteByte(byte(v))
}

// ReadVlen reads a base-128 varint written by WriteVlen.
func ReadVlen(r io.ByteReader) (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, ErrMalformedBinary
		}
	}
}

func zigzagEncode(v int64) uint64 { return uint64((v << 1) ^ (v >> 63)) }
func zigzagDecode(v uint64) int64 { return int64(v>>1) ^ -int64(v&1) }

// WriteSVlen encodes a possibly-negative symbol code (spec.md §6: "with sign
// encoded") via zigzag before vlen-encoding.
func WriteSVlen(w io.ByteWriter, v int64) error {
	return WriteVlen(w, zigzagEncode(v))
}

// ReadSVlen decodes a zigzag-vlen-encoded signed value.
func ReadSVlen(r io.ByteReader) (int64, error) {
	u, err := ReadVlen(r)
	if err != nil {
		return 0, err
	}
	return zigzagDecode(u), nil
}

// WriteDouble writes a little-endian IEEE-754 double, the <double> fields
// spec.md §6 uses for arc/final weights.
func WriteDouble(w io.Writer, f float64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
	_, err := w.Write(buf[:])
	return err
}

// ReadDouble reads a little-endian IEEE-754 double.
func ReadDouble(r io.Reader) (float64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[:])), nil
}

// WriteCodeUnits writes s as a vlen length followed by that many vlen-coded
// UTF-16 code units (spec.md §6's representation for both the flat
// alphabetic-chars list and every multichar/transducer name).
func WriteCodeUnits(w io.ByteWriter, units []uint16) error {
	if err := WriteVlen(w, uint64(len(units))); err != nil {
		return err
	}
	for _, u := range units {
		if err := WriteVlen(w, uint64(u)); err != nil {
			return err
		}
	}
	return nil
}

// ReadCodeUnits reads back what WriteCodeUnits wrote.
func ReadCodeUnits(r io.ByteReader) ([]uint16, error) {
	n, err := ReadVlen(r)
	if err != nil {
		return nil, err
	}
	units := make([]uint16, n)
	for i := range units {
		v, err := ReadVlen(r)
		if err != nil {
			return nil, err
		}
		units[i] = uint16(v)
	}
	return units, nil
}

// Header is the optional magic+flags prefix. ReadHeader reports present =
// false (and leaves r unconsumed beyond a 4-byte peek) for a legacy file
// with no magic.
type Header struct {
	Flags uint64
}

// ReadHeader peeks the first 4 bytes of r for the LTTB magic. If present, it
// consumes the magic and the following 8-byte flag word and returns
// (header, true, nil). If absent, it returns (Header{}, false, nil) and the
// bytes it peeked are still available for the caller to reinterpret as the
// start of the letter-count vlen (legacy format).
func ReadHeader(r *bufio.Reader) (Header, bool, error) {
	peek, err := r.Peek(4)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Header{}, false, nil
		}
		return Header{}, false, err
	}
	if [4]byte(peek) != Magic {
		return Header{}, false, nil
	}
	if _, err := r.Discard(4); err != nil {
		return Header{}, false, err
	}
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, false, err
	}
	flags := binary.LittleEndian.Uint64(buf[:])
	if flags&^knownFlags != 0 {
		return Header{}, false, ErrUnknownFeatureFlag
	}
	return Header{Flags: flags}, true, nil
}

// WriteHeader writes the magic and flag word.
func WriteHeader(w io.Writer, h Header) error {
	if _, err := w.Write(Magic[:]); err != nil {
		return err
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], h.Flags)
	_, err := w.Write(buf[:])
	return err
}
