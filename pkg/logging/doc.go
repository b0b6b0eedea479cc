// Package logging provides the subsystem-tagged logger used across bundletest.
//
// It is a thin layer over Go's log/slog: every record carries a "subsystem"
// attribute so resolution traces can be filtered by component.
//
// # Log Levels
//   - **Debug**: per-file decisions (probes, skipped candidates, memoized config)
//   - **Info**: one line per resolved suite or loaded document
//   - **Warn**: recoverable oddities, for example an unreadable manifest candidate
//   - **Error**: failures reported right before a command exits
//
// # Usage
//
//	logging.InitForCLI(logging.LevelFromFlags(verbose, debug), os.Stderr)
//
//	logging.Info("Suite", "Resolved %s with %d specs", name, n)
//	logging.Debug("Probe", "make -ns %s exited %d", target, code)
//	logging.Error("Manifest", err, "Failed to read %s", path)
//
// # Subsystems
//
//   - **Config**: layered config loading
//   - **Model**: directory classification
//   - **Manifest**: composition manifest resolution
//   - **Probe**: build-tool target probing
//   - **Suite**: suite expansion and discovery
//   - **Watch**: filesystem watching
//   - **MCP**: MCP server tool calls
//
// Calls made before InitForCLI drop Debug and Info records and print Warn and
// Error records to stderr, so library code never needs to check for setup.
package logging
