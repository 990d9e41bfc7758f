package main

import (
	"os"

	"github.com/cooper-rm/NeighbourhoodDriftInImageEmbeddings/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
