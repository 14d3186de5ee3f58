// palettesample - A colour palette sample for the terminal
//
// palettesample decodes images down-sampled to a viewport, extracts a palette
// of representative swatches and renders them as colour cards.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"os"

	"github.com/jmylchreest/palettesample/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
