package formatting

import (
	"fmt"

	"bundletest/internal/suite"
)

// JSONFormatter provides structured JSON output formatting
type JSONFormatter struct {
	options Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(options Options) Formatter {
	return &JSONFormatter{
		options: options,
	}
}

// FormatResolution prints the whole tree; "null" when nothing was found.
func (f *JSONFormatter) FormatResolution(res *suite.Resolution) error {
	fmt.Fprintln(f.options.writer(), PrettyJSON(res))
	return nil
}

// FormatCommand prints {"command": [...]}.
func (f *JSONFormatter) FormatCommand(argv []string) error {
	fmt.Fprintln(f.options.writer(), PrettyJSON(map[string]interface{}{"command": argv}))
	return nil
}

// SetOptions updates the formatter options
func (f *JSONFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *JSONFormatter) GetOptions() Options {
	return f.options
}
