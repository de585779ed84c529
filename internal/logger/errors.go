package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrAppNameIsEmpty is returned when Log.AppName is not set.
	ErrAppNameIsEmpty = errors.New("config Log.AppName must be set")

	// ErrServiceNameIsEmpty is returned when Log.ServiceName is not set.
	ErrServiceNameIsEmpty = errors.New("config Log.ServiceName must be set")

	// ErrFilePathIsEmpty is returned when file logging is enabled without Log.File.Path.
	ErrFilePathIsEmpty = errors.New("config Log.File.Path must be set when file logging is enabled")
)

// errorOutput receives events zerolog failed to write.
var errorOutput io.Writer = os.Stderr //nolint:gochecknoglobals

// ErrorHandler reports events that could not be written, typically because
// a log file became unwritable.
func ErrorHandler(err error) {
	_, _ = fmt.Fprintf(errorOutput, "opticaapp: log event dropped: %v\n", err)
}
