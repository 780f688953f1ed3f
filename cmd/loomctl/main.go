package main

import (
	"os"

	"github.com/rpggio/loom/internal/cli"
)

func main() {
	app := cli.NewApp()
	if err := app.Run(os.Args); err != nil {
		cli.PrintError(os.Stderr, "command failed", err)
		os.Exit(1)
	}
}
