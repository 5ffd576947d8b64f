package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"slowmovie/internal/failure"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(failure.ExitCode(err))
	}
}
