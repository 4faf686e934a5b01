// Package main provides the entry point for the launchmap CLI tool.
package main

import (
	"github.com/agentstation/launchmap/cmd/launchmap/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
