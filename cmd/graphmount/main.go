// Package main provides the entry point for the graphmount CLI.
package main

import (
	"github.com/graphmount/graphmount/cmd/graphmount/cmd"
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
