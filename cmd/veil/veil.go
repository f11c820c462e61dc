// Package veilcmder
package veilcmder

import (
	"github.com/spf13/cobra"

	servecmder "github.com/papercomputeco/veil/cmd/veil/serve"
	"github.com/papercomputeco/veil/pkg/utils"
)

const veilLongDesc string = `Veil is a research-augmented chat service with an
anonymity-aware web research path.

Run the service using:
  veil serve           Run the chat HTTP server`

const veilShortDesc string = "Veil - anonymity-aware research chat"

func NewVeilCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "veil",
		Short:   veilShortDesc,
		Long:    veilLongDesc,
		Version: utils.Version,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().Bool("json-logs", false, "Emit logs as JSON")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to config.json")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())

	return cmd
}
