package main

import (
	"os"

	"github.com/ankit-chaubey/audio-rtl-surgery/core"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		core.PrintError(err.Error())
		os.Exit(1)
	}
}
