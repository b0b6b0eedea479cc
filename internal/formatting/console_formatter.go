package formatting

import (
	"fmt"

	"bundletest/internal/suite"
)

// ConsoleFormatter prints one test per line, suitable for piping.
type ConsoleFormatter struct {
	options Options
}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter(options Options) Formatter {
	return &ConsoleFormatter{
		options: options,
	}
}

// FormatResolution prints "<suite path>  <test>  <command>" per test, or
// only the test names when quiet.
func (f *ConsoleFormatter) FormatResolution(res *suite.Resolution) error {
	if res == nil {
		return nil
	}
	out := f.options.writer()
	for _, e := range flatten(res.Root) {
		if f.options.Quiet {
			fmt.Fprintln(out, e.spec.Name)
			continue
		}
		fmt.Fprintf(out, "%s\t%s\t%s\n", e.suitePath(), e.spec.Name, shellJoin(e.spec.Executable))
	}
	return nil
}

// FormatCommand prints the command, or nothing.
func (f *ConsoleFormatter) FormatCommand(argv []string) error {
	if argv != nil {
		fmt.Fprintln(f.options.writer(), shellJoin(argv))
	}
	return nil
}

// SetOptions updates the formatter options
func (f *ConsoleFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *ConsoleFormatter) GetOptions() Options {
	return f.options
}
