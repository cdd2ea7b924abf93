package convert

import (
	"github.com/ssargent/makeobj/pkg/omf"
)

// PackRequest describes one file to pack
type PackRequest struct {
	Input string
	// Output defaults to the input with an .obj extension.
	Output      string
	SegmentName string
	SymbolName  string
}

// DumpRequest describes one file to dump
type DumpRequest struct {
	Input string
	// Output defaults to the input with an .h extension.
	Output string
	Skip   int
}

// Result describes one converted file
type Result struct {
	Input   string `json:"input"`
	Output  string `json:"output"`
	Size    int    `json:"size"`
	Summary string `json:"summary"`
}

// RecordInfo describes one record of an inspected object file
type RecordInfo struct {
	Offset   int64  `json:"offset"`
	Kind     string `json:"kind"`
	Length   int    `json:"length"`
	Checksum string `json:"checksum"` // ok, zero or bad
}

// Inspection is the record listing and decoded contents of an object file
type Inspection struct {
	File    string       `json:"file"`
	Size    int64        `json:"size"`
	Records []RecordInfo `json:"records"`

	// ReadError is set when the record listing stopped early.
	ReadError string `json:"read_error,omitempty"`

	Module      *ModuleInfo `json:"module,omitempty"`
	DecodeError string      `json:"decode_error,omitempty"`
}

// ModuleInfo summarizes a decoded module
type ModuleInfo struct {
	Name     string `json:"name"`
	DataSize int    `json:"data_size"`
	// Segment and Class are the SEGDEF name and class resolved through LNAMES.
	Segment  string   `json:"segment,omitempty"`
	Class    string   `json:"class,omitempty"`
	Comments []string `json:"comments,omitempty"`
	Names    []string `json:"names,omitempty"`
	Publics  []string `json:"publics,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func newModuleInfo(m *omf.Module) *ModuleInfo {
	info := &ModuleInfo{
		Name:     m.Name,
		DataSize: len(m.Data),
		Comments: m.Comments,
		Names:    m.Names,
		Warnings: m.Warnings,
	}
	if m.Segment != nil {
		info.Segment, _ = m.Names.Lookup(m.Segment.NameIndex)
		info.Class, _ = m.Names.Lookup(m.Segment.ClassIndex)
	}
	for _, sym := range m.Publics {
		info.Publics = append(info.Publics, sym.Name)
	}
	return info
}
