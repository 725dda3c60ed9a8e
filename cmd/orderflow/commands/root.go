package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	dbURL      string
	outputDir  string
	configPath string
	verbose    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "orderflow",
	Short: "Orderflow - batch order processing over PostgreSQL",
	Long: `Orderflow executes line-oriented command files against a PostgreSQL
warehouse database: client and product upserts, stock-checked order
placement, soft deletes with cascades, and text reports and bills.

Features:
  - Natural-key upserts for clients and products
  - One aggregated order per client with stock enforcement
  - Cascading soft and hard deletes
  - Numbered report and bill documents per run`,
	Version: "1.2.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&outputDir, "out", "", "Directory for report and bill files (overrides config)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}
