package main

import (
	"os"

	"github.com/amirasaad/goldvault/cmd/goldctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
