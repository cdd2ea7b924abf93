package di

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/ssargent/makeobj/pkg/convert"
)

type stubFactory struct {
	created int
}

func (f *stubFactory) CreateConverter(config convert.ServiceConfig) convert.Converter {
	f.created++
	return convert.NewService(config)
}

func TestContainerDefaults(t *testing.T) {
	c := NewContainer()

	assert.NotNil(t, c.GetConverterFactory())
	assert.Equal(t, convert.OSFileSystem{}, c.GetFileSystem())
	assert.Same(t, logrus.StandardLogger(), c.GetLogger())
}

func TestContainerOverrides(t *testing.T) {
	c := NewContainer()

	factory := &stubFactory{}
	c.SetConverterFactory(factory)
	c.GetConverterFactory().CreateConverter(convert.ServiceConfig{})
	assert.Equal(t, 1, factory.created)

	logger := logrus.New()
	c.SetLogger(logger)
	assert.Same(t, logger, c.GetLogger())
}

type stubFS struct {
	convert.OSFileSystem
}

func TestContainerFileSystem(t *testing.T) {
	c := NewContainer()
	c.SetFileSystem(stubFS{})
	assert.Equal(t, stubFS{}, c.GetFileSystem())
}
