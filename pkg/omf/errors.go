package omf

import (
	"github.com/ssargent/makeobj/pkg/codec"
	"github.com/ssargent/makeobj/pkg/naming"
)

// Error is an object module conversion error
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Errors
var (
	ErrInputTooLarge            = &Error{"input too large"}
	ErrMissingSegmentDefinition = &Error{"data record before segment definition"}
	ErrOutOfBoundsWrite         = &Error{"data record outside segment"}
	ErrIncompleteModule         = &Error{"record stream ended before module end"}
	ErrUnreadableInput          = &Error{"unreadable input"}
	ErrUnwritableOutput         = &Error{"unwritable output"}

	ErrNameTooLong      = naming.ErrNameTooLong
	ErrInvalidName      = naming.ErrInvalidName
	ErrTruncatedStream  = codec.ErrTruncatedStream
	ErrChecksumMismatch = codec.ErrChecksumMismatch
)
