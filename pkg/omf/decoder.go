package omf

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ssargent/makeobj/pkg/codec"
)

// Module is a decoded object module
type Module struct {
	// Name is the output file name recorded in the module header.
	Name     string
	Data     []byte
	Segment  *SegmentDefinition
	Names    NameTable
	Publics  []PublicSymbol
	Comments []string
	Warnings []string
	Records  int
}

// DecoderConfig holds configuration for the decoder
type DecoderConfig struct {
	// MaxInputSize limits the object stream. Zero means DefaultMaxUnpackInput.
	MaxInputSize int
	// ValidateChecksums rejects records whose non-zero checksum is wrong.
	ValidateChecksums bool
	Logger            logrus.FieldLogger
}

// Decoder extracts the data of object modules
type Decoder struct {
	maxInputSize      int
	validateChecksums bool
	codec             *codec.RecordCodec
	logger            logrus.FieldLogger
}

// NewDecoder creates a decoder. Empty fields take their defaults.
func NewDecoder(config DecoderConfig) *Decoder {
	if config.MaxInputSize <= 0 {
		config.MaxInputSize = DefaultMaxUnpackInput
	}
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}
	return &Decoder{
		maxInputSize:      config.MaxInputSize,
		validateChecksums: config.ValidateChecksums,
		codec:             codec.NewRecordCodec(),
		logger:            config.Logger,
	}
}

// Unpack decodes stream up to its MODEND record. If the stream ends first
// the partially decoded module is returned with ErrIncompleteModule so the
// caller can report what was found; its Data must not be written out.
func (d *Decoder) Unpack(stream []byte) (*Module, error) {
	if len(stream) > d.maxInputSize {
		return nil, fmt.Errorf("%w: %d bytes, max %d", ErrInputTooLarge, len(stream), d.maxInputSize)
	}

	u := &unpacker{decoder: d, module: &Module{}}
	for off := 0; off < len(stream); {
		r, n, err := d.codec.Decode(stream[off:])
		if err != nil {
			return nil, fmt.Errorf("record at 0x%04X: %w", off, err)
		}
		if d.validateChecksums {
			if err := r.Validate(); err != nil {
				return nil, fmt.Errorf("record at 0x%04X: %w", off, err)
			}
		}
		off += n
		u.module.Records++

		done, err := u.apply(r, off-n, stream[off:])
		if err != nil {
			return nil, fmt.Errorf("%s record at 0x%04X: %w", r.Kind, off-n, err)
		}
		if done {
			return u.module, nil
		}
	}

	return u.module, fmt.Errorf("%w: %d records read", ErrIncompleteModule, u.module.Records)
}

type unpacker struct {
	decoder *Decoder
	module  *Module
	windows *windowTracker
}

func (u *unpacker) warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	u.module.Warnings = append(u.module.Warnings, msg)
	u.decoder.logger.Warn(msg)
}

func (u *unpacker) apply(r *codec.Record, offset int, rest []byte) (bool, error) {
	m := u.module
	log := u.decoder.logger

	switch r.Kind {
	case codec.KindTHEADR:
		name, err := ParseHeader(r.Body)
		if err != nil {
			return false, err
		}
		m.Name = name
		log.Infof("Output: %s", name)

	case codec.KindCOMENT:
		c, err := ParseComment(r.Body)
		if err != nil {
			return false, err
		}
		if c.Type != 0 {
			u.warn("Unknown comment type 0x%02X at 0x%04X", c.Type, offset)
			break
		}
		m.Comments = append(m.Comments, c.Text)
		log.Infof("Comment: %s", c.Text)

	case codec.KindLNAMES:
		names, err := ParseNameTable(r.Body)
		if err != nil {
			return false, err
		}
		m.Names = append(m.Names, names...)
		for _, name := range names {
			log.Debugf("Name: %s", name)
		}

	case codec.KindSEGDEF:
		if m.Segment != nil {
			u.warn("Additional segment definition at 0x%04X ignored", offset)
			break
		}
		seg, err := ParseSegmentDefinition(r.Body)
		if err != nil {
			return false, err
		}
		size, err := u.segmentSize(seg, rest)
		if err != nil {
			return false, err
		}
		m.Segment = seg
		m.Data = make([]byte, size)
		u.windows = newWindowTracker(size)
		log.Infof("Segment Length: %d", size)

	case codec.KindGRPDEF:
		log.Debug("Group definition")

	case codec.KindPUBDEF:
		syms, err := ParsePublics(r.Body)
		if err != nil {
			return false, err
		}
		m.Publics = append(m.Publics, syms...)
		for _, sym := range syms {
			log.Infof("Public Name: %s", sym.Name)
		}

	case codec.KindLEDATA:
		if m.Segment == nil {
			return false, ErrMissingSegmentDefinition
		}
		chunk, err := ParseDataChunk(r.Body)
		if err != nil {
			return false, err
		}
		if chunk.SegmentIndex != 1 {
			u.warn("Data for segment %d at 0x%04X skipped", chunk.SegmentIndex, offset)
			break
		}
		at := u.windows.place(chunk.Offset)
		end := at + len(chunk.Payload)
		if end > len(m.Data) {
			return false, fmt.Errorf("%w: %d bytes at %d, segment is %d bytes",
				ErrOutOfBoundsWrite, len(chunk.Payload), at, len(m.Data))
		}
		copy(m.Data[at:end], chunk.Payload)
		log.Debugf("Writing data at %d (%d)", at, len(chunk.Payload))

	case codec.KindMODEND:
		if m.Segment == nil {
			return false, ErrMissingSegmentDefinition
		}
		return true, nil

	default:
		u.warn("Unknown header type %s at 0x%04X", r.Kind, offset)
	}

	return false, nil
}

// segmentSize returns the buffer size for seg. A big segment only carries
// the low 16 bits of its length, so the LEDATA records that follow are
// scanned to find how many 64K blocks it spans.
func (u *unpacker) segmentSize(seg *SegmentDefinition, rest []byte) (int, error) {
	size := int(seg.Length)
	if !seg.Big() {
		return size, nil
	}

	extent := u.dataExtent(rest)
	size += 0x10000
	for size < extent {
		size += 0x10000
	}
	if size > MaxPackInput {
		return 0, fmt.Errorf("%w: segment of %d bytes, max %d", ErrInputTooLarge, size, MaxPackInput)
	}
	return size, nil
}

// dataExtent returns the end of the furthest segment 1 LEDATA payload in
// rest. Scanning stops quietly at MODEND or at anything undecodable; the
// main loop reports the latter.
func (u *unpacker) dataExtent(rest []byte) int {
	windows := newWindowTracker(WindowSize + 1)
	extent := 0
	for off := 0; off < len(rest); {
		r, n, err := u.decoder.codec.Decode(rest[off:])
		if err != nil || r.Kind == codec.KindMODEND {
			break
		}
		off += n
		if r.Kind != codec.KindLEDATA {
			continue
		}
		chunk, err := ParseDataChunk(r.Body)
		if err != nil || chunk.SegmentIndex != 1 {
			continue
		}
		extent = max(extent, windows.place(chunk.Offset)+len(chunk.Payload))
	}
	return extent
}
