package main

import (
	"os"

	"github.com/afumu/wxbackup/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
