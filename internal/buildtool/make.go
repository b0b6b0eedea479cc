package buildtool

import (
	"context"
	"errors"
	"os/exec"

	"bundletest/pkg/logging"
)

const probeSubsystem = "Probe"

// DefaultTool is the build tool used when none is configured.
const DefaultTool = "make"

// execCommandContext is a variable to allow mocking in tests
var execCommandContext = exec.CommandContext

// Make implements Prober using make(1).
type Make struct {
	// Tool is the make binary to run.
	Tool string
}

// NewMake creates a make prober. An empty tool selects DefaultTool.
func NewMake(tool string) *Make {
	if tool == "" {
		tool = DefaultTool
	}
	return &Make{Tool: tool}
}

// HasTarget runs "<tool> -ns <target>" in dir. The working directory is
// set on the subprocess only.
func (m *Make) HasTarget(ctx context.Context, dir, target string) bool {
	cmd := execCommandContext(ctx, m.Tool, "-ns", target)
	cmd.Dir = dir

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logging.Debug(probeSubsystem, "No %s target in %s (exit %d)", target, dir, exitErr.ExitCode())
		} else {
			logging.Debug(probeSubsystem, "Probe for %s in %s failed: %v", target, dir, err)
		}
		return false
	}

	logging.Debug(probeSubsystem, "Found %s target in %s", target, dir)
	return true
}

// Command returns "<tool> -s <target>".
func (m *Make) Command(target string) []string {
	return []string{m.Tool, "-s", target}
}
