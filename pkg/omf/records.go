package omf

import (
	"fmt"
	"strings"

	"github.com/ssargent/makeobj/pkg/codec"
	"github.com/ssargent/makeobj/pkg/naming"
)

// Name table indices, 1-based as OMF counts them
const (
	NameDGROUP    = 1
	NameDATA      = 2 // _DATA
	NameDATAClass = 3 // DATA
	NameEmpty     = 4
	NameTEXT      = 5 // _TEXT
	NameCODE      = 6
	NameFARDATA   = 7
	NameSegment   = 8
)

var standardNames = []string{"DGROUP", "_DATA", "DATA", "", "_TEXT", "CODE", "FAR_DATA"}

// NameTable is the LNAMES list. Index i of the table is OMF name index i+1.
type NameTable []string

// NewNameTable returns the standard names, followed by segment if it is set
func NewNameTable(segment string) NameTable {
	t := make(NameTable, len(standardNames), len(standardNames)+1)
	copy(t, standardNames)
	if segment != "" {
		t = append(t, segment)
	}
	return t
}

// Lookup returns the name at a 1-based OMF index
func (t NameTable) Lookup(idx uint16) (string, bool) {
	if idx == 0 || int(idx) > len(t) {
		return "", false
	}
	return t[idx-1], true
}

// Body encodes the table as an LNAMES body
func (t NameTable) Body() ([]byte, error) {
	var b []byte
	for _, name := range t {
		if err := naming.CheckName(name); err != nil {
			return nil, err
		}
		b = codec.AppendName(b, name)
	}
	return b, nil
}

// ParseNameTable decodes an LNAMES body
func ParseNameTable(body []byte) (NameTable, error) {
	cur := codec.NewCursor(body)
	var t NameTable
	for cur.Remaining() > 0 {
		name, err := cur.Name()
		if err != nil {
			return nil, fmt.Errorf("name %d: %w", len(t)+1, err)
		}
		t = append(t, name)
	}
	return t, nil
}

// SEGDEF attribute bytes
const (
	AttrFarData byte = 0x60 // paragraph aligned, private
	AttrCode    byte = 0x48 // word aligned, public
	AttrBig     byte = 0x02 // segment is exactly 64K, or more with a zero length
)

// SegmentDefinition is a SEGDEF record
type SegmentDefinition struct {
	Attributes byte

	// Frame and FrameOffset are only present for absolute segments.
	Frame       uint16
	FrameOffset uint8

	Length       uint16
	NameIndex    uint16
	ClassIndex   uint16
	OverlayIndex uint16
}

// Alignment returns the 3-bit alignment field. Zero means absolute.
func (s *SegmentDefinition) Alignment() byte {
	return s.Attributes >> 5
}

// Big reports whether the B attribute bit is set
func (s *SegmentDefinition) Big() bool {
	return s.Attributes&AttrBig != 0
}

// Body encodes the definition as a SEGDEF body
func (s *SegmentDefinition) Body() []byte {
	b := []byte{s.Attributes}
	if s.Alignment() == 0 {
		b = codec.AppendUint16(b, s.Frame)
		b = append(b, s.FrameOffset)
	}
	b = codec.AppendUint16(b, s.Length)
	b = codec.AppendIndex(b, s.NameIndex)
	b = codec.AppendIndex(b, s.ClassIndex)
	return codec.AppendIndex(b, s.OverlayIndex)
}

// ParseSegmentDefinition decodes a SEGDEF body
func ParseSegmentDefinition(body []byte) (*SegmentDefinition, error) {
	cur := codec.NewCursor(body)
	var s SegmentDefinition
	var err error

	if s.Attributes, err = cur.Byte(); err != nil {
		return nil, err
	}
	if s.Alignment() == 0 {
		if s.Frame, err = cur.Uint16(); err != nil {
			return nil, err
		}
		if s.FrameOffset, err = cur.Byte(); err != nil {
			return nil, err
		}
	}
	if s.Length, err = cur.Uint16(); err != nil {
		return nil, err
	}
	if s.NameIndex, err = cur.Index(); err != nil {
		return nil, err
	}
	if s.ClassIndex, err = cur.Index(); err != nil {
		return nil, err
	}
	if s.OverlayIndex, err = cur.Index(); err != nil {
		return nil, err
	}
	return &s, nil
}

// GroupDefinition is a GRPDEF record
type GroupDefinition struct {
	NameIndex uint16
	Segments  []uint16
}

// Body encodes the definition as a GRPDEF body
func (g *GroupDefinition) Body() []byte {
	b := codec.AppendIndex(nil, g.NameIndex)
	for _, seg := range g.Segments {
		b = append(b, 0xFF)
		b = codec.AppendIndex(b, seg)
	}
	return b
}

// PublicSymbol is one entry of a PUBDEF record
type PublicSymbol struct {
	GroupIndex   uint16
	SegmentIndex uint16
	Frame        uint16 // only when SegmentIndex is 0
	Name         string
	Offset       uint16
	TypeIndex    uint16
}

// PublicsBody encodes symbols sharing the group and segment of the first
// one as a PUBDEF body.
func PublicsBody(syms []PublicSymbol) ([]byte, error) {
	if len(syms) == 0 {
		return nil, fmt.Errorf("%w: no public symbols", ErrInvalidName)
	}
	b := codec.AppendIndex(nil, syms[0].GroupIndex)
	b = codec.AppendIndex(b, syms[0].SegmentIndex)
	if syms[0].SegmentIndex == 0 {
		b = codec.AppendUint16(b, syms[0].Frame)
	}
	for _, sym := range syms {
		if err := naming.CheckName(sym.Name); err != nil {
			return nil, err
		}
		b = codec.AppendName(b, sym.Name)
		b = codec.AppendUint16(b, sym.Offset)
		b = codec.AppendIndex(b, sym.TypeIndex)
	}
	return b, nil
}

// ParsePublics decodes a PUBDEF body
func ParsePublics(body []byte) ([]PublicSymbol, error) {
	cur := codec.NewCursor(body)

	group, err := cur.Index()
	if err != nil {
		return nil, err
	}
	seg, err := cur.Index()
	if err != nil {
		return nil, err
	}
	var frame uint16
	if seg == 0 {
		if frame, err = cur.Uint16(); err != nil {
			return nil, err
		}
	}

	var syms []PublicSymbol
	for cur.Remaining() > 0 {
		sym := PublicSymbol{GroupIndex: group, SegmentIndex: seg, Frame: frame}
		if sym.Name, err = cur.Name(); err != nil {
			return nil, err
		}
		if sym.Offset, err = cur.Uint16(); err != nil {
			return nil, err
		}
		if sym.TypeIndex, err = cur.Index(); err != nil {
			return nil, err
		}
		syms = append(syms, sym)
	}
	return syms, nil
}

// DataChunk is an LEDATA record
type DataChunk struct {
	SegmentIndex uint16
	Offset       uint16
	Payload      []byte
}

// Body encodes the chunk as an LEDATA body
func (d *DataChunk) Body() []byte {
	b := make([]byte, 0, 3+len(d.Payload))
	b = codec.AppendIndex(b, d.SegmentIndex)
	b = codec.AppendUint16(b, d.Offset)
	return append(b, d.Payload...)
}

// ParseDataChunk decodes an LEDATA body. The payload aliases body.
func ParseDataChunk(body []byte) (*DataChunk, error) {
	cur := codec.NewCursor(body)
	seg, err := cur.Index()
	if err != nil {
		return nil, err
	}
	off, err := cur.Uint16()
	if err != nil {
		return nil, err
	}
	return &DataChunk{SegmentIndex: seg, Offset: off, Payload: cur.Rest()}, nil
}

// Comment is a COMENT record
type Comment struct {
	Type  byte
	Class byte
	Text  string
}

// Body encodes the comment as a COMENT body
func (c *Comment) Body() []byte {
	return append([]byte{c.Type, c.Class}, c.Text...)
}

// ParseComment decodes a COMENT body
func ParseComment(body []byte) (*Comment, error) {
	cur := codec.NewCursor(body)
	typ, err := cur.Byte()
	if err != nil {
		return nil, err
	}
	class, err := cur.Byte()
	if err != nil {
		return nil, err
	}
	return &Comment{Type: typ, Class: class, Text: string(cur.Rest())}, nil
}

// HeaderBody encodes a THEADR body: the module name padded with spaces to
// the 12 byte field.
func HeaderBody(name string) []byte {
	field := []byte(name)
	for len(field) < naming.MaxModuleName {
		field = append(field, ' ')
	}
	return codec.AppendName(nil, string(field))
}

// ParseHeader decodes a THEADR body. The name ends at the first space.
func ParseHeader(body []byte) (string, error) {
	name, err := codec.NewCursor(body).Name()
	if err != nil {
		return "", err
	}
	name, _, _ = strings.Cut(name, " ")
	return name, nil
}
