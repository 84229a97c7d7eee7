package main

import (
	"os"

	"github.com/a2ldb/a2ldb/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
