package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"dubforge/internal/services"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode distinguishes caller mistakes (bad format, missing line, illegal
// transition) from pipeline failures so scripts can tell them apart.
func exitCode(err error) int {
	if services.IsUserError(err) {
		return 2
	}
	return 1
}
