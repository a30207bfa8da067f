package cmd

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "kindred",
	Short: "Kindred - a peer-support companion for researchers",
	Long: `Kindred routes conversations across a roster of specialized agents:
emotional validation, semantic peer matching, social content drafting,
IP-safety scanning, and research mentorship.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
}

func Execute() error {
	return rootCmd.Execute()
}
