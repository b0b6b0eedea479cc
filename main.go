package main

import "bundletest/cmd"

// Set during build with -ldflags "-X main.version=... -X main.repository=owner/repo"
var (
	version    = "dev"
	repository = ""
)

func main() {
	cmd.SetVersion(version)
	cmd.SetReleaseRepository(repository)
	cmd.Execute()
}
