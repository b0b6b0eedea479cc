package formatting

import (
	"fmt"
	"path/filepath"

	"bundletest/internal/suite"
	pkgstrings "bundletest/pkg/strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(options Options) Formatter {
	return &TableFormatter{
		options: options,
	}
}

// FormatResolution renders one row per test in run order.
func (f *TableFormatter) FormatResolution(res *suite.Resolution) error {
	out := f.options.writer()
	if res == nil {
		fmt.Fprint(out, f.formatEmptyMessage("📋", "Nothing testable found"))
		return nil
	}

	entries := flatten(res.Root)
	if len(entries) == 0 {
		fmt.Fprint(out, f.formatEmptyMessage("📋", fmt.Sprintf("No tests in %s %s", res.Model.Kind, res.Model.Name)))
		return nil
	}

	t := f.createTable()
	t.AppendHeader(table.Row{
		f.options.paint(text.FgHiCyan, "#"),
		f.options.paint(text.FgHiCyan, "SUITE"),
		f.options.paint(text.FgHiCyan, "TEST"),
		f.options.paint(text.FgHiCyan, "COMMAND"),
		f.options.paint(text.FgHiCyan, "CONFIG"),
	})

	for i, e := range entries {
		configFile := ""
		if e.spec.Config != nil && e.spec.Config.Path() != "" {
			configFile = filepath.Base(e.spec.Config.Path())
		}
		t.AppendRow(table.Row{
			i + 1,
			e.suitePath(),
			f.options.paint(text.FgHiWhite, e.spec.Name),
			pkgstrings.Truncate(shellJoin(e.spec.Executable), pkgstrings.DefaultMaxLen),
			configFile,
		})
	}
	t.Render()

	if !f.options.Quiet {
		fmt.Fprintf(out, "\n%s %s %s (%s %s)\n",
			f.options.paint(text.FgHiBlue, "Total:"),
			f.options.paint(text.FgHiWhite, fmt.Sprint(len(entries))),
			f.options.paint(text.FgHiBlue, "tests"),
			res.Model.Kind,
			res.Model.Name)
	}
	return nil
}

// FormatCommand prints the command on one line.
func (f *TableFormatter) FormatCommand(argv []string) error {
	out := f.options.writer()
	if argv == nil {
		fmt.Fprint(out, f.formatEmptyMessage("ℹ️", "No deploy command"))
		return nil
	}
	fmt.Fprintln(out, shellJoin(argv))
	return nil
}

// SetOptions updates the formatter options
func (f *TableFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *TableFormatter) GetOptions() Options {
	return f.options
}

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(f.options.writer())
	t.SetStyle(table.StyleRounded)
	return t
}

// formatEmptyMessage formats empty result messages
func (f *TableFormatter) formatEmptyMessage(icon, message string) string {
	return fmt.Sprintf("%s %s\n", f.options.paint(text.FgYellow, icon), f.options.paint(text.FgYellow, message))
}
