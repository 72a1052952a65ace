package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rteja/assessly/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "assessly",
	Short: "Adaptive assessment service",
	Long:  "Assessly is an adaptive assessment service that generates questions and evaluates answers by racing two LLM providers.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ASSESSLY_DB env var)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then ASSESSLY_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
