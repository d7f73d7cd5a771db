package main

import (
	"os"

	"github.com/heetd/job-assistant/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
