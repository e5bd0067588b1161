package main

import (
	"fmt"
	"os"

	"github.com/sivaosorg/dualog/cmd/dualog/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
