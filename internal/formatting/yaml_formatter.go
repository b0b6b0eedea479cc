package formatting

import (
	"fmt"

	"bundletest/internal/suite"

	"sigs.k8s.io/yaml"
)

// YAMLFormatter provides YAML output formatting. Documents are produced
// from the JSON form so both formats carry the same field names.
type YAMLFormatter struct {
	options Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(options Options) Formatter {
	return &YAMLFormatter{
		options: options,
	}
}

// FormatResolution prints the whole tree.
func (f *YAMLFormatter) FormatResolution(res *suite.Resolution) error {
	return f.write(res)
}

// FormatCommand prints "command: [...]".
func (f *YAMLFormatter) FormatCommand(argv []string) error {
	return f.write(map[string]interface{}{"command": argv})
}

// SetOptions updates the formatter options
func (f *YAMLFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *YAMLFormatter) GetOptions() Options {
	return f.options
}

func (f *YAMLFormatter) write(data interface{}) error {
	out, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to format YAML: %w", err)
	}
	_, err = f.options.writer().Write(out)
	return err
}
