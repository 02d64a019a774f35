package main

import (
	"os"

	"github.com/i474232898/weather-timelapse/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
