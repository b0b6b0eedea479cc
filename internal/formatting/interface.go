// Package formatting renders resolved suites for the CLI and the MCP server.
//
// Four output formats are supported: a rich table (the default), a plain
// console list with one test per line, and JSON and YAML documents of the
// whole tree.
package formatting

import (
	"fmt"
	"io"
	"os"
	"strings"

	"bundletest/internal/suite"

	"github.com/jedib0t/go-pretty/v6/text"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatConsole OutputFormat = "console" // One test per line
	FormatJSON    OutputFormat = "json"    // JSON output
	FormatYAML    OutputFormat = "yaml"    // YAML output
	FormatTable   OutputFormat = "table"   // Rich table output
)

// Formats lists the accepted output formats.
var Formats = []OutputFormat{FormatTable, FormatConsole, FormatJSON, FormatYAML}

// ParseFormat validates a user supplied format name.
func ParseFormat(name string) (OutputFormat, error) {
	for _, f := range Formats {
		if strings.EqualFold(name, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want one of table, console, json, yaml)", name)
}

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Quiet  bool // Suppress decorative elements
	Color  bool // Enable colored output
	// Output receives the rendering; nil means stdout.
	Output io.Writer
}

func (o Options) writer() io.Writer {
	if o.Output == nil {
		return os.Stdout
	}
	return o.Output
}

func (o Options) paint(c text.Color, s string) string {
	if !o.Color {
		return s
	}
	return c.Sprint(s)
}

// Formatter renders resolution results
type Formatter interface {
	// FormatResolution renders a resolved suite tree. res is nil when the
	// directory held nothing testable.
	FormatResolution(res *suite.Resolution) error

	// FormatCommand renders a derived command, nil meaning "no command".
	FormatCommand(argv []string) error

	// Configuration
	SetOptions(options Options)
	GetOptions() Options
}

// Factory creates formatters for different output formats
type Factory interface {
	CreateFormatter(options Options) Formatter
}

// NewFactory creates a new formatter factory
func NewFactory() Factory {
	return &factory{}
}

// factory implements the Factory interface
type factory struct{}

// CreateFormatter creates the appropriate formatter based on options
func (f *factory) CreateFormatter(options Options) Formatter {
	switch options.Format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatConsole:
		return NewConsoleFormatter(options)
	case FormatTable:
		fallthrough
	default:
		return NewTableFormatter(options)
	}
}
