package main

import (
	"os"

	"newsboard/internal/cli"
)

func main() {
	os.Exit(cli.New().Execute())
}
