package buildtool

import "context"

// Prober checks for build targets and builds the command that runs one.
type Prober interface {
	// HasTarget reports whether target can be built in dir.
	HasTarget(ctx context.Context, dir, target string) bool

	// Command returns the argument vector that runs target.
	Command(target string) []string
}
