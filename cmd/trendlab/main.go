package main

import (
	"os"

	"github.com/wonny/trendlab/backend/cmd/trendlab/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
