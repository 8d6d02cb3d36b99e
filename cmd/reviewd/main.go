package main

import (
	"os"

	"github.com/naveenkr153/spectra-sales-review/internal/cli"
)

func main() { os.Exit(cli.Main()) }
