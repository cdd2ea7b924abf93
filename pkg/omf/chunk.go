package omf

const (
	// WindowSize is the span covered by one run of LEDATA offsets
	WindowSize = 0x7FFF
	// ChunkSize is the largest LEDATA payload
	ChunkSize = 1024
	// MaxPackInput is the largest input the encoder accepts
	MaxPackInput = 0x20000
	// DefaultMaxUnpackInput is the default limit on an object file given to the decoder
	DefaultMaxUnpackInput = 0x753B
)

// Chunks splits data into LEDATA records for segment 1. Data is cut into
// windows of WindowSize bytes and each window into ChunkSize pieces whose
// offsets count from the start of the window. Payloads alias data.
func Chunks(data []byte) []DataChunk {
	var chunks []DataChunk
	for base := 0; base < len(data); base += WindowSize {
		window := data[base:min(base+WindowSize, len(data))]
		for off := 0; off < len(window); off += ChunkSize {
			chunks = append(chunks, DataChunk{
				SegmentIndex: 1,
				Offset:       uint16(off),
				Payload:      window[off:min(off+ChunkSize, len(window))],
			})
		}
	}
	return chunks
}

// windowTracker maps window-relative LEDATA offsets back to segment
// offsets. Windowing only applies to segments larger than one window.
type windowTracker struct {
	windowed bool
	seen     bool
	base     int
	last     int
}

func newWindowTracker(segmentSize int) *windowTracker {
	return &windowTracker{windowed: segmentSize > WindowSize}
}

func (w *windowTracker) place(offset uint16) int {
	off := int(offset)
	if w.windowed && w.seen && off < w.last {
		w.base += WindowSize
	}
	w.seen = true
	w.last = off
	return w.base + off
}
