// Package di provides dependency injection container
package di

import (
	"github.com/sirupsen/logrus"

	"github.com/ssargent/makeobj/pkg/convert" //nolint:depguard
)

// Container holds all the dependencies for the application
type Container struct {
	converterFactory convert.ConverterFactory
	fileSystem       convert.FileSystem
	logger           *logrus.Logger
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		converterFactory: convert.NewConverterFactory(),
		fileSystem:       convert.OSFileSystem{},
		logger:           logrus.StandardLogger(),
	}
}

// GetConverterFactory returns the converter factory
func (c *Container) GetConverterFactory() convert.ConverterFactory {
	return c.converterFactory
}

// GetFileSystem returns the file system used by converters
func (c *Container) GetFileSystem() convert.FileSystem {
	return c.fileSystem
}

// GetLogger returns the application logger
func (c *Container) GetLogger() *logrus.Logger {
	return c.logger
}

// SetConverterFactory allows overriding the converter factory (for testing)
func (c *Container) SetConverterFactory(factory convert.ConverterFactory) {
	c.converterFactory = factory
}

// SetFileSystem allows overriding the file system (for testing)
func (c *Container) SetFileSystem(fs convert.FileSystem) {
	c.fileSystem = fs
}

// SetLogger allows overriding the logger (for testing)
func (c *Container) SetLogger(logger *logrus.Logger) {
	c.logger = logger
}
