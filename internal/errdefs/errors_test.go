package errdefs

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "not found",
			err:      &NotFoundError{Kind: "test", Path: "/x/tests/test_a"},
			expected: "test not found: /x/tests/test_a",
		},
		{
			name:     "not found with reason",
			err:      &NotFoundError{Kind: "test", Path: "/x/t", Reason: "not executable"},
			expected: "test not found: /x/t (not executable)",
		},
		{
			name:     "ambiguous",
			err:      &AmbiguousError{What: "bundle manifest", Candidates: []string{"a.yaml", "b.yaml"}, Hint: "use --bundle"},
			expected: "ambiguous bundle manifest: a.yaml, b.yaml; use --bundle",
		},
		{
			name:     "validation",
			err:      &ValidationError{Suite: "foo", Reason: ReasonPatternMatchedNothing, Detail: "special*"},
			expected: "suite foo: pattern matched nothing: special*",
		},
		{
			name:     "parse",
			err:      &ParseError{Path: "tests.yaml", Err: errors.New("bad indent")},
			expected: "failed to parse tests.yaml: bad indent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestHelpersSeeThroughWrapping(t *testing.T) {
	notFound := fmt.Errorf("resolving mysql: %w", &NotFoundError{Kind: "component", Path: "mysql"})
	ambiguous := fmt.Errorf("classify: %w", &AmbiguousError{What: "manifest"})
	validation := fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", &ValidationError{Suite: "s"}))
	parse := fmt.Errorf("load: %w", &ParseError{Path: "p", Err: os.ErrInvalid})

	assert.True(t, IsNotFound(notFound))
	assert.True(t, IsAmbiguous(ambiguous))
	assert.True(t, IsValidation(validation))
	assert.True(t, IsParse(parse))

	assert.False(t, IsNotFound(parse))
	assert.False(t, IsParse(notFound))
	assert.True(t, errors.Is(parse, os.ErrInvalid), "ParseError must unwrap to its cause")
}
