// Package omf wraps a block of bytes as a single-segment OMF object module
// and extracts it again.
//
// An encoded module is the record sequence
//
//	THEADR COMENT LNAMES SEGDEF [GRPDEF] PUBDEF LEDATA... MODEND
//
// with one segment holding the data and one public symbol at offset 0.
// Data is cut into windows of at most 0x7FFF bytes and each window into
// LEDATA records of at most 1024 bytes. LEDATA offsets count from the start
// of their window, so the decoder moves to the next window whenever the
// offset goes backwards in a segment larger than one window.
package omf
