// Package objfile reads and writes object files one record at a time.
package objfile

import (
	"io"
	"os"

	"github.com/ssargent/makeobj/pkg/codec"
)

// FileSystem opens the files behind writers and readers
type FileSystem interface {
	// Create creates or truncates the named file for writing
	Create(name string) (io.WriteCloser, error)
	Open(name string) (io.ReadCloser, error)
	Remove(name string) error
	MkdirAll(path string, perm os.FileMode) error
}

// OSFileSystem is the FileSystem backed by the os package
type OSFileSystem struct{}

// Create creates or truncates the named file with mode 0644
func (OSFileSystem) Create(name string) (io.WriteCloser, error) {
	return os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
}

// Open opens the named file for reading
func (OSFileSystem) Open(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

// Remove removes the named file
func (OSFileSystem) Remove(name string) error {
	return os.Remove(name)
}

// MkdirAll creates a directory and its parents
func (OSFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// WriterConfig holds configuration for the record writer
type WriterConfig struct {
	FilePath   string     // Path of the object file, truncated on open
	BufferSize int        // Write buffer size
	FileSystem FileSystem // Defaults to OSFileSystem
}

// ReaderConfig holds configuration for the record reader
type ReaderConfig struct {
	FilePath   string     // Path of the object file
	FileSystem FileSystem // Defaults to OSFileSystem
}

// RecordIterator provides streaming access to records
type RecordIterator interface {
	Next() bool
	Record() *codec.Record
	// Offset is the file offset of the current record.
	Offset() int64
	// Err returns the error that stopped the iteration, nil at a clean end of file.
	Err() error
	Close() error
}

const defaultBufferSize = 4096

// syncer is implemented by files that can be flushed to stable storage
type syncer interface {
	Sync() error
}
