// Package convert runs the object module conversions against files
package convert

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ssargent/makeobj/pkg/objfile"
)

// FileSystem is all file access of the converter. Object files are
// written and listed record by record through the embedded objfile.FileSystem.
type FileSystem interface {
	objfile.FileSystem
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// Converter performs the file-level operations
type Converter interface {
	// PackFile wraps a binary file as an object module
	PackFile(req PackRequest) (*Result, error)

	// UnpackFile extracts the data of an object module into outputDir
	UnpackFile(input, outputDir string) (*Result, error)

	// DumpFile writes a file as a C array initializer
	DumpFile(req DumpRequest) (*Result, error)

	// InspectFile lists the records of an object file and decodes it
	InspectFile(input string) (*Inspection, error)

	// WithLogger returns a converter that logs to logger
	WithLogger(logger logrus.FieldLogger) Converter
}

// ConverterFactory creates converters
type ConverterFactory interface {
	// CreateConverter creates a converter with the given config
	CreateConverter(config ServiceConfig) Converter
}

// OSFileSystem is the FileSystem backed by the os package
type OSFileSystem struct {
	objfile.OSFileSystem
}

// ReadFile reads the named file
func (OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// WriteFile writes data to the named file, creating or truncating it
func (OSFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}
