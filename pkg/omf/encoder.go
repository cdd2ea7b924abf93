package omf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/ssargent/makeobj/pkg/codec"
	"github.com/ssargent/makeobj/pkg/naming"
)

// DefaultVendor is the text of the COMENT record
const DefaultVendor = "MakeOBJ v1.2"

// SegmentKind selects the segment layout of an encoded module
type SegmentKind int

const (
	// KindDefault behaves as KindCode
	KindDefault SegmentKind = iota
	// KindCode places the data in _DATA, class DATA, grouped in DGROUP
	KindCode
	// KindFarData places the data in its own segment of class FAR_DATA
	KindFarData
)

// ParseSegmentKind parses "default", "code" or "far", ignoring case.
// "far_data" and "fardata" are accepted for far.
func ParseSegmentKind(s string) (SegmentKind, error) {
	switch strings.ToLower(s) {
	case "", "default":
		return KindDefault, nil
	case "code":
		return KindCode, nil
	case "far", "far_data", "fardata":
		return KindFarData, nil
	default:
		return KindDefault, fmt.Errorf("unknown segment kind %q (want default, code or far)", s)
	}
}

func (k SegmentKind) String() string {
	switch k {
	case KindCode:
		return "code"
	case KindFarData:
		return "far"
	default:
		return "default"
	}
}

func (k SegmentKind) resolve() SegmentKind {
	if k == KindDefault {
		return KindCode
	}
	return k
}

// RecordWriter receives the records of an encoded module in order
type RecordWriter interface {
	WriteRecord(r *codec.Record) error
}

// PackOptions describes the module to build around the input
type PackOptions struct {
	// Name is the input path. The module, segment and symbol names derive from it.
	Name string
	// SegmentName overrides the segment name. Empty means synthesize in far
	// mode and omit in code mode.
	SegmentName string
	// SymbolName overrides the public symbol. Empty means "_" + lower-case stem.
	SymbolName string
	Kind       SegmentKind
}

// Object describes an encoded module
type Object struct {
	ModuleName  string
	SegmentName string
	SymbolName  string
	Kind        SegmentKind
	Size        int
	Records     int

	// PublicLabel and Public make up the PUBLIC column of the summary line.
	PublicLabel string
	Public      string

	// Stream is set by Pack. Encode leaves it nil.
	Stream []byte
}

// Summary returns the one-line report for packing input into output
func (o *Object) Summary(input, output string) string {
	size := fmt.Sprintf("%d", o.Size)
	if o.Size >= 100 {
		size = fmt.Sprintf("%-10d", o.Size)
	}
	return fmt.Sprintf("%-15s %s%-16sSIZE:%s Saved as %s",
		naming.Upper(input), o.PublicLabel, o.Public, size, output)
}

// EncoderConfig holds configuration for the encoder
type EncoderConfig struct {
	Vendor string
	Logger logrus.FieldLogger
}

// Encoder builds object modules
type Encoder struct {
	vendor string
	codec  *codec.RecordCodec
	logger logrus.FieldLogger
}

// NewEncoder creates an encoder. Empty fields take their defaults.
func NewEncoder(config EncoderConfig) *Encoder {
	if config.Vendor == "" {
		config.Vendor = DefaultVendor
	}
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}
	return &Encoder{
		vendor: config.Vendor,
		codec:  codec.NewRecordCodec(),
		logger: config.Logger,
	}
}

// Plan validates the options for an input of the given size and resolves
// every name without encoding anything.
func (e *Encoder) Plan(size int, opts PackOptions) (*Object, error) {
	if size > MaxPackInput {
		return nil, fmt.Errorf("%w: %d bytes, max %d", ErrInputTooLarge, size, MaxPackInput)
	}

	module, err := naming.ModuleName(opts.Name)
	if err != nil {
		return nil, err
	}

	obj := &Object{
		ModuleName:  module,
		SegmentName: opts.SegmentName,
		SymbolName:  opts.SymbolName,
		Kind:        opts.Kind.resolve(),
		Size:        size,
		PublicLabel: "PUBLIC:",
	}

	// code mode without an explicit name keeps the seven standard LNAMES
	if obj.SegmentName == "" && obj.Kind == KindFarData {
		if obj.SegmentName, err = naming.SegmentName(opts.Name); err != nil {
			return nil, err
		}
	}
	if obj.SymbolName == "" {
		if obj.SymbolName, err = naming.SymbolName(opts.Name); err != nil {
			return nil, err
		}
	}
	for _, name := range []string{obj.SegmentName, obj.SymbolName, e.vendor} {
		if err := naming.CheckName(name); err != nil {
			return nil, err
		}
	}

	switch {
	case opts.SegmentName != "":
		obj.Public = opts.SegmentName
	case opts.SymbolName != "":
		obj.Public = opts.SymbolName
	default:
		obj.PublicLabel = "PUBLIC:_"
		obj.Public = naming.Lower(naming.Stem(opts.Name))
	}

	return obj, nil
}

// Encode writes the module for data to w
func (e *Encoder) Encode(w RecordWriter, data []byte, opts PackOptions) (*Object, error) {
	obj, err := e.Plan(len(data), opts)
	if err != nil {
		return nil, err
	}

	records, err := e.records(obj, data)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if err := w.WriteRecord(r); err != nil {
			return nil, fmt.Errorf("%w: %s record: %w", ErrUnwritableOutput, r.Kind, err)
		}
	}
	obj.Records = len(records)

	e.logger.WithFields(logrus.Fields{
		"module":  obj.ModuleName,
		"segment": obj.SegmentName,
		"symbol":  obj.SymbolName,
		"kind":    obj.Kind.String(),
		"size":    humanize.Bytes(uint64(obj.Size)),
		"records": obj.Records,
	}).Debug("encoded object module")

	return obj, nil
}

// Pack encodes data and returns the object with its Stream set
func (e *Encoder) Pack(data []byte, opts PackOptions) (*Object, error) {
	buf := &bufferWriter{codec: e.codec}
	obj, err := e.Encode(buf, data, opts)
	if err != nil {
		return nil, err
	}
	obj.Stream = buf.Bytes()
	return obj, nil
}

func (e *Encoder) records(obj *Object, data []byte) ([]*codec.Record, error) {
	header := codec.NewRecord(codec.KindTHEADR, HeaderBody(obj.ModuleName))
	header.ZeroChecksum = true

	comment := &Comment{Text: e.vendor}

	names, err := NewNameTable(obj.SegmentName).Body()
	if err != nil {
		return nil, err
	}

	seg := &SegmentDefinition{
		Attributes:   AttrCode,
		Length:       uint16(len(data)),
		NameIndex:    NameDATA,
		ClassIndex:   NameDATAClass,
		OverlayIndex: NameEmpty,
	}
	if obj.Kind == KindFarData {
		seg.Attributes = AttrFarData
		seg.NameIndex = NameSegment
		seg.ClassIndex = NameFARDATA
	}
	if len(data) > 0xFFFF {
		seg.Attributes |= AttrBig
	}

	publics, err := PublicsBody([]PublicSymbol{{
		GroupIndex:   NameDGROUP,
		SegmentIndex: 1,
		Name:         obj.SymbolName,
	}})
	if err != nil {
		return nil, err
	}

	records := []*codec.Record{
		header,
		codec.NewRecord(codec.KindCOMENT, comment.Body()),
		codec.NewRecord(codec.KindLNAMES, names),
		codec.NewRecord(codec.KindSEGDEF, seg.Body()),
	}
	if obj.Kind == KindCode {
		group := &GroupDefinition{NameIndex: NameDGROUP, Segments: []uint16{1}}
		records = append(records, codec.NewRecord(codec.KindGRPDEF, group.Body()))
	}
	records = append(records, codec.NewRecord(codec.KindPUBDEF, publics))

	for _, chunk := range Chunks(data) {
		records = append(records, codec.NewRecord(codec.KindLEDATA, chunk.Body()))
	}

	return append(records, codec.NewRecord(codec.KindMODEND, []byte{0x00})), nil
}

// bufferWriter collects encoded records in memory
type bufferWriter struct {
	codec *codec.RecordCodec
	bytes.Buffer
}

func (b *bufferWriter) WriteRecord(r *codec.Record) error {
	encoded, err := b.codec.Encode(r)
	if err != nil {
		return err
	}
	_, err = b.Write(encoded)
	return err
}
