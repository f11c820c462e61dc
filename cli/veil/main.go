package main

import (
	"os"

	veilcmder "github.com/papercomputeco/veil/cmd/veil"
)

func main() {
	cmd := veilcmder.NewVeilCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
