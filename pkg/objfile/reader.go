package objfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/ssargent/makeobj/pkg/codec"
)

// Reader provides sequential access to the records of an object file
type Reader struct {
	file   io.ReadCloser
	reader *bufio.Reader
	codec  *codec.RecordCodec
	offset int64
	config ReaderConfig
}

// NewReader opens the object file for reading
func NewReader(config ReaderConfig) (*Reader, error) {
	if config.FileSystem == nil {
		config.FileSystem = OSFileSystem{}
	}

	file, err := config.FileSystem.Open(config.FilePath)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", config.FilePath)
	}

	return &Reader{
		file:   file,
		reader: bufio.NewReader(file),
		codec:  codec.NewRecordCodec(),
		config: config,
	}, nil
}

// ReadNext reads the record at the current offset. It returns io.EOF at a
// clean end of file and codec.ErrTruncatedStream when the file ends inside
// a record.
func (r *Reader) ReadNext() (*codec.Record, error) {
	header := make([]byte, codec.HeaderSize)
	n, err := io.ReadFull(r.reader, header)
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: %d header bytes at offset %d", codec.ErrTruncatedStream, n, r.offset)
		}
		return nil, errors.Wrapf(err, "read %s", r.config.FilePath)
	}

	length := int(binary.LittleEndian.Uint16(header[1:]))
	full := make([]byte, codec.HeaderSize+length)
	copy(full, header)
	if _, err := io.ReadFull(r.reader, full[codec.HeaderSize:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: %s record at offset %d", codec.ErrTruncatedStream, codec.Kind(header[0]), r.offset)
		}
		return nil, errors.Wrapf(err, "read %s", r.config.FilePath)
	}

	record, size, err := r.codec.Decode(full)
	if err != nil {
		return nil, err
	}
	r.offset += int64(size)

	return record, nil
}

// Offset returns the current read offset
func (r *Reader) Offset() int64 {
	return r.offset
}

// Iterator returns a streaming iterator for records
func (r *Reader) Iterator() RecordIterator {
	return &recordIterator{reader: r}
}

// Close closes the reader
func (r *Reader) Close() error {
	return r.file.Close()
}

type recordIterator struct {
	reader *Reader
	record *codec.Record
	offset int64
	err    error
}

func (it *recordIterator) Next() bool {
	if it.err != nil {
		return false
	}
	it.offset = it.reader.Offset()
	it.record, it.err = it.reader.ReadNext()
	return it.err == nil
}

func (it *recordIterator) Record() *codec.Record {
	return it.record
}

func (it *recordIterator) Offset() int64 {
	return it.offset
}

func (it *recordIterator) Err() error {
	if it.err == io.EOF {
		return nil
	}
	return it.err
}

func (it *recordIterator) Close() error {
	// the reader is owned by the caller
	return nil
}
