package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ftthdesk/internal/logging"
)

var (
	// Global flags
	verbose   bool
	workspace string
	timeout   time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ftth",
	Short: "ftth - FTTH installation desk",
	Long: `ftth consolidates installation spreadsheets into a dossier store and
renders the artifacts field teams work from: per-client cards, QR codes,
client pages, a printable PDF per installation day, team and admin
dashboards and a calendar.

Typical day:
  ftth import reponses.xlsx --city ABIDJAN
  ftth status`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

// initCmd writes the default configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .ftth/config.yaml in the workspace",
	RunE:  runInit,
}

// importCmd ingests one spreadsheet as a dossier
var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a CSV or XLSX sheet as the dossier of one installation day",
	Long: `Reads the sheet, keeps the rows of the selected city, assigns each row
to a team and installs the result as the dossier of its date. Importing the
same date again replaces that dossier.

Examples:
  ftth import reponses.csv
  ftth import reponses.xlsx --city COCODY --team EQ2
  ftth import reponses.xlsx --date 14-10-2026 --no-render`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// statusCmd prints the store summary
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show global stats, team ledgers and recent dossiers",
	RunE:  runStatus,
}

// renderCmd re-renders artifacts from the store
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Re-render artifacts for one dossier or all of them",
	RunE:  runRender,
}

// calendarCmd prints the calendar index
var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Print the calendar index as JSON",
	RunE:  runCalendar,
}

// mirrorCmd syncs the SQLite mirror
var mirrorCmd = &cobra.Command{
	Use:   "mirror [path]",
	Short: "Copy the store into a SQLite database",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMirror,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Operation timeout")

	importCmd.Flags().StringVar(&importCity, "city", "", "Keep rows of this city only (TOUTES keeps all)")
	importCmd.Flags().StringVar(&importTeam, "team", "", "Team for rows before the first named team")
	importCmd.Flags().StringVar(&importDate, "date", "", "Date key to use instead of the sheet timestamp")
	importCmd.Flags().BoolVar(&importNoRender, "no-render", false, "Skip artifact rendering")

	renderCmd.Flags().StringVar(&renderDate, "date", "", "Render only this date key")

	mirrorCmd.Flags().StringVar(&mirrorSearch, "search", "", "After syncing, list clients matching this text")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(mirrorCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
