package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed <file>",
	Short: "Load peer profiles from a JSON file",
	Long: `Load peer profiles from a JSON file into the vector store.

Each record needs a profile_id, struggle_text, and optionally an
academic_stage, research_area, and emotional_tags. Every struggle is
embedded on load, so this needs a valid embedding API key.

Example:
  kindred seed data/seed_struggles.json`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.LoadPersisted(ctx); err != nil {
		a.logger.Warn("could not load persisted profiles", "error", err)
	}

	added, err := a.store.LoadFromJSON(ctx, args[0])
	if err != nil {
		return fmt.Errorf("cmd: seed from %s: %w", args[0], err)
	}

	if err := a.store.Save(); err != nil {
		return fmt.Errorf("cmd: save vector store: %w", err)
	}

	fmt.Printf("Added %d profiles (%d total)\n", added, a.store.Stats().TotalProfiles)
	return nil
}
