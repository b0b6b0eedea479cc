// Package buildtool probes a component directory for build-tool targets.
//
// Implicit tests come from targets such as "lint" and "test" that the
// component's build file defines. A target exists when a dry run of it
// exits with status 0:
//
//	make -ns lint   # probe, run with the component directory as cwd
//	make -s lint    # what the resulting test executes
//
// Probe failures of any kind mean "no such target"; they are logged at
// debug level and never returned as errors.
package buildtool
