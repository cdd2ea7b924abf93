package objfile

import (
	"bufio"
	"io"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/ssargent/makeobj/pkg/codec"
)

// Writer writes encoded records to an object file
type Writer struct {
	file   io.WriteCloser
	writer *bufio.Writer
	codec  *codec.RecordCodec
	fs     FileSystem
	config WriterConfig
	offset int64
}

// NewWriter creates the object file, replacing any existing one
func NewWriter(config WriterConfig) (*Writer, error) {
	if config.BufferSize <= 0 {
		config.BufferSize = defaultBufferSize
	}
	if config.FileSystem == nil {
		config.FileSystem = OSFileSystem{}
	}

	fs := config.FileSystem
	if dir := filepath.Dir(config.FilePath); dir != "." {
		if err := fs.MkdirAll(dir, 0750); err != nil {
			return nil, errors.Wrapf(err, "create directory %s", dir)
		}
	}

	file, err := fs.Create(config.FilePath)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", config.FilePath)
	}

	return &Writer{
		file:   file,
		writer: bufio.NewWriterSize(file, config.BufferSize),
		codec:  codec.NewRecordCodec(),
		fs:     fs,
		config: config,
	}, nil
}

// WriteRecord encodes r and appends it to the file
func (w *Writer) WriteRecord(r *codec.Record) error {
	data, err := w.codec.Encode(r)
	if err != nil {
		return err
	}

	n, err := w.writer.Write(data)
	w.offset += int64(n)
	if err != nil {
		return errors.Wrapf(err, "write %s record to %s", r.Kind, w.config.FilePath)
	}
	return nil
}

// Close flushes buffered records and closes the file
func (w *Writer) Close() error {
	if err := w.writer.Flush(); err != nil {
		w.file.Close()
		return errors.Wrapf(err, "flush %s", w.config.FilePath)
	}
	if s, ok := w.file.(syncer); ok {
		if err := s.Sync(); err != nil {
			w.file.Close()
			return errors.Wrapf(err, "sync %s", w.config.FilePath)
		}
	}
	return errors.Wrapf(w.file.Close(), "close %s", w.config.FilePath)
}

// Abort closes the file and removes it. Used when encoding fails part way.
func (w *Writer) Abort() error {
	w.file.Close()
	return errors.Wrapf(w.fs.Remove(w.config.FilePath), "remove %s", w.config.FilePath)
}

// Size returns the number of bytes written so far
func (w *Writer) Size() int64 {
	return w.offset
}

// Path returns the file path
func (w *Writer) Path() string {
	return w.config.FilePath
}
