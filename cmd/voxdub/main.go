package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		// Ctrl-C mid-command is not worth an error line.
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "voxdub: %v\n", err)
		}
		os.Exit(1)
	}
}
