package main

import (
	"fmt"
	"os"

	"dcasim/cmd/dcasim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
