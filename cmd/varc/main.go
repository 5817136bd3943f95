package main

import (
	"os"

	"github.com/lotusos/varc/pkg/commands"
)

func main() {
	os.Exit(commands.Execute())
}
