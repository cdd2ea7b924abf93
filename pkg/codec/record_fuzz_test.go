//go:build fuzz
// +build fuzz

package codec

import (
	"bytes"
	"testing"
)

// FuzzRecordCodec_RoundTrip tests encode/decode round-trip with random inputs
func FuzzRecordCodec_RoundTrip(f *testing.F) {
	codec := NewRecordCodec()

	f.Add(uint8(0x8A), []byte{0x00})
	f.Add(uint8(0xA0), []byte{0x01, 0x00, 0x00, 1, 2, 3})
	f.Add(uint8(0x88), []byte("\x00\x00MakeOBJ v1.2"))
	f.Add(uint8(0x00), []byte{})

	f.Fuzz(func(t *testing.T, kind uint8, body []byte) {
		if len(body) > MaxBodySize {
			t.Skip("body too large for a record")
		}

		encoded, err := codec.Encode(NewRecord(Kind(kind), body))
		if err != nil {
			t.Fatalf("Encode failed for %d byte body: %v", len(body), err)
		}

		var sum byte
		for _, b := range encoded {
			sum += b
		}
		if sum != 0 {
			t.Fatalf("record does not sum to zero: 0x%02X", sum)
		}

		record, n, err := codec.Decode(encoded)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if n != len(encoded) {
			t.Errorf("consumed %d, want %d", n, len(encoded))
		}
		if record.Kind != Kind(kind) {
			t.Errorf("Kind mismatch: got %s, want %s", record.Kind, Kind(kind))
		}
		if !bytes.Equal(record.Body, body) {
			t.Errorf("Body mismatch")
		}
		if err := record.Validate(); err != nil {
			t.Errorf("Validate failed: %v", err)
		}
	})
}

// FuzzRecordCodec_CorruptionDetection tests that single byte corruption of
// the body is always detected when a checksum is present
func FuzzRecordCodec_CorruptionDetection(f *testing.F) {
	codec := NewRecordCodec()

	f.Add([]byte("payload"), uint(0), uint8(1))
	f.Add([]byte{0x01, 0x00, 0x00, 0xFF}, uint(3), uint8(0x80))

	f.Fuzz(func(t *testing.T, body []byte, pos uint, delta uint8) {
		if len(body) == 0 || len(body) > 4096 || delta == 0 {
			t.Skip("nothing to corrupt")
		}
		encoded, err := codec.Encode(NewRecord(KindLEDATA, body))
		if err != nil {
			t.Skip("Encode failed, skipping")
		}
		if encoded[len(encoded)-1] == 0 {
			t.Skip("zero checksum is never validated")
		}

		i := HeaderSize + int(pos%uint(len(body)))
		encoded[i] += delta

		record, _, err := codec.Decode(encoded)
		if err != nil {
			return
		}
		if err := record.Validate(); err == nil {
			t.Errorf("corruption at %d not detected", i)
		}
	})
}

// FuzzRecordCodec_MalformedData tests handling of malformed input
func FuzzRecordCodec_MalformedData(f *testing.F) {
	codec := NewRecordCodec()

	f.Add([]byte{})
	f.Add([]byte{0x80})
	f.Add([]byte{0x80, 0x00, 0x00})
	f.Add([]byte{0xA0, 0xFF, 0xFF, 0x01})

	f.Fuzz(func(t *testing.T, data []byte) {
		record, n, err := codec.Decode(data)
		if err != nil {
			return
		}
		if n > len(data) {
			t.Fatalf("consumed %d of %d bytes", n, len(data))
		}
		if record.Size() != n {
			t.Errorf("Size %d does not match consumed %d", record.Size(), n)
		}
	})
}
