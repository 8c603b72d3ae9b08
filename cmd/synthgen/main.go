package main

import (
	"os"

	"github.com/rewardsense/synthgen/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
