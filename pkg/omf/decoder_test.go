package omf

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/makeobj/pkg/codec"
)

func newTestDecoder(maxInput int) *Decoder {
	return NewDecoder(DecoderConfig{MaxInputSize: maxInput, Logger: quietLogger()})
}

func buildStream(t *testing.T, records ...*codec.Record) []byte {
	t.Helper()
	c := codec.NewRecordCodec()
	var stream []byte
	for _, r := range records {
		encoded, err := c.Encode(r)
		require.NoError(t, err)
		stream = append(stream, encoded...)
	}
	return stream
}

func header(name string) *codec.Record {
	r := codec.NewRecord(codec.KindTHEADR, HeaderBody(name))
	r.ZeroChecksum = true
	return r
}

func segdef(length uint16) *codec.Record {
	seg := &SegmentDefinition{Attributes: AttrCode, Length: length, NameIndex: 2, ClassIndex: 3, OverlayIndex: 4}
	return codec.NewRecord(codec.KindSEGDEF, seg.Body())
}

func ledata(seg, offset uint16, payload ...byte) *codec.Record {
	chunk := &DataChunk{SegmentIndex: seg, Offset: offset, Payload: payload}
	return codec.NewRecord(codec.KindLEDATA, chunk.Body())
}

func modend() *codec.Record {
	return codec.NewRecord(codec.KindMODEND, []byte{0x00})
}

func TestRoundTrip(t *testing.T) {
	sizes := []int{
		1, 5, 100, ChunkSize - 1, ChunkSize, ChunkSize + 1,
		WindowSize - 1, WindowSize, WindowSize + 1,
		2 * WindowSize, 0xFFFF, 0x10000, 0x10001, 0x18000,
		MaxPackInput - 1, MaxPackInput,
	}
	rng := rand.New(rand.NewSource(42))
	enc := newTestEncoder()
	dec := newTestDecoder(1 << 20)

	for _, kind := range []SegmentKind{KindCode, KindFarData} {
		for _, size := range sizes {
			t.Run(fmt.Sprintf("%s/%d", kind, size), func(t *testing.T) {
				data := make([]byte, size)
				rng.Read(data)

				obj, err := enc.Pack(data, PackOptions{Name: "DATA.BIN", Kind: kind})
				require.NoError(t, err)

				m, err := dec.Unpack(obj.Stream)
				require.NoError(t, err)
				assert.Equal(t, "DATA.BIN", m.Name)
				require.Len(t, m.Data, size)
				assert.True(t, bytes.Equal(data, m.Data), "data differs")
				assert.Empty(t, m.Warnings)
			})
		}
	}
}

func TestRoundTrip_Empty(t *testing.T) {
	obj, err := newTestEncoder().Pack(nil, PackOptions{Name: "EMPTY.BIN"})
	require.NoError(t, err)

	m, err := newTestDecoder(0).Unpack(obj.Stream)
	require.NoError(t, err)
	assert.Empty(t, m.Data)
}

func TestUnpack_FiveBytes(t *testing.T) {
	obj, err := newTestEncoder().Pack([]byte{1, 2, 3, 4, 5}, PackOptions{Name: "TEST.DAT", Kind: KindFarData})
	require.NoError(t, err)

	m, err := newTestDecoder(0).Unpack(obj.Stream)
	require.NoError(t, err)

	assert.Equal(t, "TEST.DAT", m.Name)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, m.Data)
	assert.Equal(t, []string{"MakeOBJ v1.2"}, m.Comments)
	assert.Equal(t, "TestSeg", m.Names[NameSegment-1])
	require.Len(t, m.Publics, 1)
	assert.Equal(t, "_test", m.Publics[0].Name)
	require.NotNil(t, m.Segment)
	assert.Equal(t, AttrFarData, m.Segment.Attributes)
	assert.Equal(t, 7, m.Records)
}

func TestUnpack_InputLimit(t *testing.T) {
	stream := buildStream(t, header("A.B"), segdef(1), ledata(1, 0, 7), modend())
	dec := newTestDecoder(0)

	padded := append(append([]byte{}, stream...), make([]byte, DefaultMaxUnpackInput-len(stream))...)
	m, err := dec.Unpack(padded)
	require.NoError(t, err, "trailing bytes after MODEND are ignored")
	assert.Equal(t, []byte{7}, m.Data)

	_, err = dec.Unpack(append(padded, 0))
	assert.ErrorIs(t, err, ErrInputTooLarge)
}

func TestUnpack_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		records []*codec.Record
		wantErr error
	}{
		{
			name:    "data before segment",
			records: []*codec.Record{header("A.B"), ledata(1, 0, 1), modend()},
			wantErr: ErrMissingSegmentDefinition,
		},
		{
			name:    "data past segment end",
			records: []*codec.Record{header("A.B"), segdef(2), ledata(1, 0, 1, 2, 3), modend()},
			wantErr: ErrOutOfBoundsWrite,
		},
		{
			name:    "offset past segment end",
			records: []*codec.Record{header("A.B"), segdef(2), ledata(1, 2, 1), modend()},
			wantErr: ErrOutOfBoundsWrite,
		},
		{
			name:    "module end without segment",
			records: []*codec.Record{header("A.B"), modend()},
			wantErr: ErrMissingSegmentDefinition,
		},
		{
			name:    "short segment definition",
			records: []*codec.Record{header("A.B"), codec.NewRecord(codec.KindSEGDEF, []byte{0x48, 0x01}), modend()},
			wantErr: ErrTruncatedStream,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := newTestDecoder(0).Unpack(buildStream(t, tc.records...))
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, m)
		})
	}
}

func TestUnpack_Truncated(t *testing.T) {
	obj, err := newTestEncoder().Pack([]byte{1, 2, 3}, PackOptions{Name: "A.B"})
	require.NoError(t, err)

	_, err = newTestDecoder(0).Unpack(obj.Stream[:len(obj.Stream)-2])
	assert.ErrorIs(t, err, ErrTruncatedStream)
}

func TestUnpack_Incomplete(t *testing.T) {
	stream := buildStream(t, header("A.B"), segdef(1), ledata(1, 0, 1))

	m, err := newTestDecoder(0).Unpack(stream)
	assert.ErrorIs(t, err, ErrIncompleteModule)
	require.NotNil(t, m)
	assert.Equal(t, "A.B", m.Name)
	assert.Equal(t, 3, m.Records)
}

func TestUnpack_Warnings(t *testing.T) {
	stream := buildStream(t,
		header("A.B"),
		codec.NewRecord(codec.KindCOMENT, []byte{0x80, 0xA0, 'x'}),
		segdef(2),
		segdef(100),
		codec.NewRecord(codec.Kind(0x8C), []byte{1, 2, 3}),
		ledata(2, 0, 9, 9),
		ledata(1, 0, 1, 2),
		modend(),
	)

	m, err := newTestDecoder(0).Unpack(stream)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, m.Data, "second segment definition is ignored")
	assert.Empty(t, m.Comments)
	assert.Len(t, m.Warnings, 4)
	assert.Contains(t, m.Warnings[0], "comment type")
	assert.Contains(t, m.Warnings[1], "segment definition")
	assert.Contains(t, m.Warnings[2], "0x8C")
	assert.Contains(t, m.Warnings[3], "segment 2")
}

func TestUnpack_Checksums(t *testing.T) {
	obj, err := newTestEncoder().Pack([]byte{1, 2, 3}, PackOptions{Name: "A.B"})
	require.NoError(t, err)

	// first character of the COMENT text
	corrupt := append([]byte{}, obj.Stream...)
	corrupt[17+3+2] ^= 0x20

	_, err = newTestDecoder(0).Unpack(corrupt)
	assert.NoError(t, err)

	strict := NewDecoder(DecoderConfig{ValidateChecksums: true, Logger: quietLogger()})
	_, err = strict.Unpack(obj.Stream)
	assert.NoError(t, err, "zero header checksum is accepted")

	_, err = strict.Unpack(corrupt)
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestUnpack_HeaderName(t *testing.T) {
	stream := buildStream(t, header("A B.C"), segdef(0), modend())

	m, err := newTestDecoder(0).Unpack(stream)
	require.NoError(t, err)
	assert.Equal(t, "A", m.Name)
}

func TestUnpack_WindowsOnlyForLargeSegments(t *testing.T) {
	// A small segment written out of order keeps absolute offsets.
	stream := buildStream(t, header("A.B"), segdef(4), ledata(1, 2, 3, 4), ledata(1, 0, 1, 2), modend())

	m, err := newTestDecoder(0).Unpack(stream)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, m.Data)
}

func TestUnpack_BigSegmentBound(t *testing.T) {
	seg := &SegmentDefinition{Attributes: AttrFarData | AttrBig, Length: 0xFFFF, NameIndex: 2, ClassIndex: 3, OverlayIndex: 4}
	records := []*codec.Record{header("A.B"), codec.NewRecord(codec.KindSEGDEF, seg.Body())}
	// every backwards offset moves to the next window
	for i := 0; i < 4; i++ {
		records = append(records, ledata(1, 0x10, 1), ledata(1, 0, 1))
	}
	records = append(records, ledata(1, 0x7000, 1), modend())

	_, err := newTestDecoder(1 << 20).Unpack(buildStream(t, records...))
	assert.ErrorIs(t, err, ErrInputTooLarge)
}

func TestUnpack_BigSegmentSizing(t *testing.T) {
	seg := &SegmentDefinition{Attributes: AttrFarData | AttrBig, Length: 0x0010, NameIndex: 2, ClassIndex: 3, OverlayIndex: 4}
	stream := buildStream(t, header("A.B"), codec.NewRecord(codec.KindSEGDEF, seg.Body()), ledata(1, 0, 1), modend())

	m, err := newTestDecoder(0).Unpack(stream)
	require.NoError(t, err)
	assert.Len(t, m.Data, 0x10010)
}
