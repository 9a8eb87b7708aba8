package main

import (
	"os"
)

// Set via ldflags.
var (
	commit  = "HEAD"
	version = "latest"
)

func main() {
	if err := Execute(newRootCommand(version, commit)); err != nil {
		os.Exit(1)
	}
}
