package main

import (
	"os"

	"github.com/firefly-engineering/firefly-launch/cmd"
	"github.com/firefly-engineering/firefly-launch/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
