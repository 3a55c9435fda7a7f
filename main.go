package main

import (
	"os"

	"github.com/Attamusc/activity-report-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
