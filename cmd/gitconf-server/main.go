// Package main is the entry point for gitconf-server, a read-only
// Git-backed configuration server.
package main

import "github.com/arkedev/gitconf-server/cmd/gitconf-server/cmd"

// version is set during build time via ldflags.
var version = "dev"

func main() {
	cmd.Execute(version)
}
