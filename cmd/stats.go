package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vector store statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.LoadPersisted(ctx); err != nil {
		a.logger.Warn("could not load persisted profiles", "error", err)
	}

	data, err := json.MarshalIndent(a.store.Stats(), "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(data))
	return nil
}
