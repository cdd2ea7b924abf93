// Package codec provides record serialization and deserialization for OMF
// object modules.
//
// The Object Module Format is a stream of self-delimiting records. This
// package handles the framing of a single record; the meaning of record
// bodies lives in package omf.
//
// # Record Format
//
// Records are serialized in the following structure:
//
//	[Kind(1)][Length(2)][Body][Checksum(1)]
//
// Fields:
//   - Kind: record type (THEADR 0x80, COMENT 0x88, LNAMES 0x96, ...)
//   - Length: 16-bit little-endian count of the bytes that follow it,
//     that is len(Body) + 1
//   - Body: record contents
//   - Checksum: the byte that makes every byte of the record sum to zero
//     modulo 256
//
// The total record size is: 3 + Length
//
// # Checksum
//
// The checksum is the two's complement of the low byte of the sum of the
// kind, both length bytes and the body. A checksum byte of zero means the
// writer did not compute one; Validate accepts it. The module header written
// by the encoder deliberately carries a zero checksum, selected with
// Record.ZeroChecksum.
//
// Decode never validates the checksum, so streams from tools that compute it
// incorrectly can still be read. Callers that want strict input call
// Record.Validate.
//
// # Usage
//
//	c := codec.NewRecordCodec()
//
//	encoded, err := c.Encode(codec.NewRecord(codec.KindMODEND, []byte{0}))
//	if err != nil {
//	    return err
//	}
//
//	record, n, err := c.Decode(encoded)
//	if err != nil {
//	    return err
//	}
//
// # Body Fields
//
// Cursor reads fixed and variable width fields out of a body with bounds
// checks on every read. AppendName, AppendUint16 and AppendIndex build
// bodies.
//
// # Thread Safety
//
// RecordCodec holds no state and is safe for concurrent use. Decoded records
// alias the input slice.
package codec
