package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Kind identifies the type of an OMF record
type Kind uint8

// Record kinds produced by the encoder and understood by the decoder
const (
	KindTHEADR Kind = 0x80 // translator header, carries the module name
	KindCOMENT Kind = 0x88 // comment
	KindMODEND Kind = 0x8A // module end
	KindPUBDEF Kind = 0x90 // public names definition
	KindLNAMES Kind = 0x96 // list of names
	KindSEGDEF Kind = 0x98 // segment definition
	KindGRPDEF Kind = 0x9A // group definition
	KindLEDATA Kind = 0xA0 // logical enumerated data
)

// String returns the conventional record name, or the hex kind if unknown
func (k Kind) String() string {
	switch k {
	case KindTHEADR:
		return "THEADR"
	case KindCOMENT:
		return "COMENT"
	case KindMODEND:
		return "MODEND"
	case KindPUBDEF:
		return "PUBDEF"
	case KindLNAMES:
		return "LNAMES"
	case KindSEGDEF:
		return "SEGDEF"
	case KindGRPDEF:
		return "GRPDEF"
	case KindLEDATA:
		return "LEDATA"
	default:
		return fmt.Sprintf("0x%02X", uint8(k))
	}
}

const (
	// HeaderSize is the kind byte plus the 16-bit length
	HeaderSize = 3
	// MaxBodySize is the largest body that fits the 16-bit length with the checksum byte
	MaxBodySize = 0xFFFE
)

var (
	// ErrTruncatedStream is returned when a record runs past the end of its input
	ErrTruncatedStream = errors.New("truncated record stream")
	// ErrRecordTooLarge is returned when a body does not fit in a 16-bit record length
	ErrRecordTooLarge = errors.New("record body too large")
	// ErrChecksumMismatch is returned by Validate when the record bytes do not sum to zero
	ErrChecksumMismatch = errors.New("record checksum mismatch")
)

// Record is a single OMF record: [Kind(1)][Length(2)][Body][Checksum(1)]
type Record struct {
	Kind     Kind   // record type
	Body     []byte // record contents between the length and the checksum
	Checksum byte   // trailing checksum byte

	// ZeroChecksum writes a zero checksum instead of computing one.
	ZeroChecksum bool
}

// RecordCodec handles serialization and deserialization of records
type RecordCodec struct{}

// NewRecordCodec creates a new record codec instance
func NewRecordCodec() *RecordCodec {
	return &RecordCodec{}
}

// NewRecord creates a record of the given kind around body
func NewRecord(kind Kind, body []byte) *Record {
	return &Record{
		Kind: kind,
		Body: body,
	}
}

// Encode serializes a record, filling in its length and checksum
func (c *RecordCodec) Encode(r *Record) ([]byte, error) {
	if len(r.Body) > MaxBodySize {
		return nil, fmt.Errorf("%w: %s body is %d bytes", ErrRecordTooLarge, r.Kind, len(r.Body))
	}

	buf := make([]byte, r.Size())
	buf[0] = byte(r.Kind)
	binary.LittleEndian.PutUint16(buf[1:], r.Length())
	copy(buf[HeaderSize:], r.Body)

	if r.ZeroChecksum {
		r.Checksum = 0
	} else {
		r.Checksum = Checksum(buf[:len(buf)-1])
	}
	buf[len(buf)-1] = r.Checksum

	return buf, nil
}

// Decode reads one record from the start of data and returns it with the
// number of bytes consumed. The checksum is not validated.
func (c *RecordCodec) Decode(data []byte) (*Record, int, error) {
	if len(data) < HeaderSize {
		return nil, 0, fmt.Errorf("%w: %d bytes left, record header needs %d", ErrTruncatedStream, len(data), HeaderSize)
	}

	kind := Kind(data[0])
	length := int(binary.LittleEndian.Uint16(data[1:3]))
	if length == 0 {
		return nil, 0, fmt.Errorf("%w: %s record has zero length", ErrTruncatedStream, kind)
	}
	size := HeaderSize + length
	if len(data) < size {
		return nil, 0, fmt.Errorf("%w: %s record needs %d bytes, %d left", ErrTruncatedStream, kind, size, len(data))
	}

	r := &Record{
		Kind:     kind,
		Body:     data[HeaderSize : size-1],
		Checksum: data[size-1],
	}
	r.ZeroChecksum = r.Checksum == 0

	return r, size, nil
}

// Validate checks that all bytes of the record sum to zero. A zero checksum
// byte means the checksum was never computed and always passes.
func (r *Record) Validate() error {
	if r.Checksum == 0 {
		return nil
	}

	var hdr [HeaderSize]byte
	hdr[0] = byte(r.Kind)
	binary.LittleEndian.PutUint16(hdr[1:], r.Length())
	want := Checksum(append(hdr[:], r.Body...))
	if r.Checksum != want {
		return fmt.Errorf("%w: %s has 0x%02X, expected 0x%02X", ErrChecksumMismatch, r.Kind, r.Checksum, want)
	}

	return nil
}

// Length returns the value of the record's length field
func (r *Record) Length() uint16 {
	return uint16(len(r.Body) + 1)
}

// Size returns the total size of the record when encoded
func (r *Record) Size() int {
	return HeaderSize + len(r.Body) + 1
}

// Checksum returns the byte that makes the sum of b and itself zero mod 256
func Checksum(b []byte) byte {
	var sum byte
	for _, c := range b {
		sum += c
	}
	return -sum
}
