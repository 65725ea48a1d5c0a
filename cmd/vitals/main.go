// ABOUTME: Entry point for vitals CLI.
// ABOUTME: Invokes the root Cobra command and prints surfaced errors with a retry hint.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}
