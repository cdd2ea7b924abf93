package convert

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ssargent/makeobj/pkg/codec"
	"github.com/ssargent/makeobj/pkg/naming"
	"github.com/ssargent/makeobj/pkg/objfile"
	"github.com/ssargent/makeobj/pkg/omf"
	"github.com/ssargent/makeobj/pkg/rawdump"
)

// ServiceConfig holds configuration for the conversion service
type ServiceConfig struct {
	FileSystem FileSystem
	Logger     logrus.FieldLogger

	Kind              omf.SegmentKind
	Vendor            string
	MaxUnpackInput    int
	ValidateChecksums bool
	ValuesPerLine     int
}

// Service implements Converter
type Service struct {
	config ServiceConfig
	fs     FileSystem
	logger logrus.FieldLogger
}

// NewService creates a conversion service. Nil collaborators take their defaults.
func NewService(config ServiceConfig) *Service {
	if config.FileSystem == nil {
		config.FileSystem = OSFileSystem{}
	}
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}
	return &Service{
		config: config,
		fs:     config.FileSystem,
		logger: config.Logger,
	}
}

// WithLogger returns a copy of the service that logs to logger
func (s *Service) WithLogger(logger logrus.FieldLogger) Converter {
	c := *s
	c.logger = logger
	return &c
}

func (s *Service) encoder() *omf.Encoder {
	return omf.NewEncoder(omf.EncoderConfig{Vendor: s.config.Vendor, Logger: s.logger})
}

func (s *Service) decoder() *omf.Decoder {
	return omf.NewDecoder(omf.DecoderConfig{
		MaxInputSize:      s.config.MaxUnpackInput,
		ValidateChecksums: s.config.ValidateChecksums,
		Logger:            s.logger,
	})
}

func (s *Service) read(path string) ([]byte, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(fmt.Errorf("%w: %w", omf.ErrUnreadableInput, err), "read %s", path)
	}
	return data, nil
}

func (s *Service) write(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0750); err != nil {
			return pkgerrors.Wrapf(fmt.Errorf("%w: %w", omf.ErrUnwritableOutput, err), "create directory %s", dir)
		}
	}
	if err := s.fs.WriteFile(path, data, 0644); err != nil {
		return pkgerrors.Wrapf(fmt.Errorf("%w: %w", omf.ErrUnwritableOutput, err), "write %s", path)
	}
	return nil
}

// PackFile wraps the input file as an object module
func (s *Service) PackFile(req PackRequest) (*Result, error) {
	data, err := s.read(req.Input)
	if err != nil {
		return nil, err
	}

	output := req.Output
	if output == "" {
		output = naming.OutputName(req.Input, "obj")
	}
	if filepath.Clean(output) == filepath.Clean(req.Input) {
		return nil, fmt.Errorf("%w: output %s would overwrite the input", omf.ErrInvalidName, output)
	}

	opts := omf.PackOptions{
		Name:        req.Input,
		SegmentName: req.SegmentName,
		SymbolName:  req.SymbolName,
		Kind:        s.config.Kind,
	}

	enc := s.encoder()
	if _, err := enc.Plan(len(data), opts); err != nil {
		return nil, pkgerrors.Wrapf(err, "pack %s", req.Input)
	}

	w, err := objfile.NewWriter(objfile.WriterConfig{FilePath: output, FileSystem: s.fs})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", omf.ErrUnwritableOutput, err)
	}
	obj, err := enc.Encode(w, data, opts)
	if err != nil {
		if abortErr := w.Abort(); abortErr != nil {
			s.logger.WithError(abortErr).Warn("could not remove partial object file")
		}
		return nil, pkgerrors.Wrapf(err, "pack %s", req.Input)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%w: %w", omf.ErrUnwritableOutput, err)
	}

	s.logger.WithFields(logrus.Fields{
		"output": w.Path(),
		"size":   humanize.Bytes(uint64(len(data))),
		"object": humanize.Bytes(uint64(w.Size())),
	}).Debug("packed file")

	return &Result{
		Input:   req.Input,
		Output:  output,
		Size:    len(data),
		Summary: obj.Summary(req.Input, output),
	}, nil
}

// UnpackFile extracts the data of an object module. The output file is
// named by the module header and placed in outputDir.
func (s *Service) UnpackFile(input, outputDir string) (*Result, error) {
	if _, err := naming.ModuleName(input); err != nil {
		return nil, pkgerrors.Wrapf(err, "unpack %s", input)
	}

	stream, err := s.read(input)
	if err != nil {
		return nil, err
	}

	m, err := s.decoder().Unpack(stream)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "unpack %s", input)
	}

	name := naming.StripPath(m.Name)
	if name == "" || name == "." || name == ".." {
		return nil, pkgerrors.Wrapf(fmt.Errorf("%w: module header names %q", omf.ErrInvalidName, m.Name), "unpack %s", input)
	}
	output := filepath.Join(outputDir, name)

	if err := s.write(output, m.Data); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"output": output,
		"size":   humanize.Bytes(uint64(len(m.Data))),
	}).Debug("unpacked file")

	return &Result{
		Input:   input,
		Output:  output,
		Size:    len(m.Data),
		Summary: fmt.Sprintf("%-15s SIZE:%-10d Saved as %s", naming.StripPath(input), len(m.Data), output),
	}, nil
}

// DumpFile writes the input file as a char far array
func (s *Service) DumpFile(req DumpRequest) (*Result, error) {
	if _, err := naming.ModuleName(req.Input); err != nil {
		return nil, pkgerrors.Wrapf(err, "dump %s", req.Input)
	}

	data, err := s.read(req.Input)
	if err != nil {
		return nil, err
	}

	symbol, err := naming.ArraySymbol(req.Input)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "dump %s", req.Input)
	}

	output := req.Output
	if output == "" {
		output = naming.OutputName(req.Input, "h")
	}

	var buf bytes.Buffer
	if err := rawdump.NewDumper(s.config.ValuesPerLine).Write(&buf, data, symbol, req.Skip); err != nil {
		return nil, pkgerrors.Wrapf(err, "dump %s", req.Input)
	}
	if err := s.write(output, buf.Bytes()); err != nil {
		return nil, err
	}

	return &Result{
		Input:   req.Input,
		Output:  output,
		Size:    len(data),
		Summary: rawdump.Summary(req.Input, symbol, output),
	}, nil
}

// InspectFile lists every record of an object file and decodes it. Problems
// with the file contents are reported in the Inspection; only a file that
// cannot be opened is an error.
func (s *Service) InspectFile(input string) (*Inspection, error) {
	r, err := objfile.NewReader(objfile.ReaderConfig{FilePath: input, FileSystem: s.fs})
	if err != nil {
		return nil, pkgerrors.Wrapf(fmt.Errorf("%w: %w", omf.ErrUnreadableInput, err), "inspect %s", input)
	}
	defer r.Close()

	insp := &Inspection{File: input}

	it := r.Iterator()
	defer it.Close()
	for it.Next() {
		rec := it.Record()
		insp.Records = append(insp.Records, RecordInfo{
			Offset:   it.Offset(),
			Kind:     rec.Kind.String(),
			Length:   int(rec.Length()),
			Checksum: checksumStatus(rec),
		})
	}
	if err := it.Err(); err != nil {
		insp.ReadError = err.Error()
	}

	stream, err := s.read(input)
	if err != nil {
		return nil, err
	}
	insp.Size = int64(len(stream))

	m, err := s.decoder().Unpack(stream)
	if m != nil {
		insp.Module = newModuleInfo(m)
	}
	if err != nil {
		insp.DecodeError = err.Error()
	}

	return insp, nil
}

func checksumStatus(r *codec.Record) string {
	switch {
	case r.Checksum == 0:
		return "zero"
	case r.Validate() != nil:
		return "bad"
	default:
		return "ok"
	}
}

var _ Converter = (*Service)(nil)

// DefaultConverterFactory is the default implementation of ConverterFactory
type DefaultConverterFactory struct{}

// NewConverterFactory creates a new converter factory
func NewConverterFactory() ConverterFactory {
	return &DefaultConverterFactory{}
}

// CreateConverter creates a conversion service with the given config
func (f *DefaultConverterFactory) CreateConverter(config ServiceConfig) Converter {
	return NewService(config)
}
