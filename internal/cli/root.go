package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version, Commit and BuildDate are set via LDFLAGS at build time.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var (
	verbose    bool
	configFile string

	rootDir          string
	outputPath       string
	format           string
	respectGitignore bool
)

func NewRootCmd() *cobra.Command {
	var useTUI bool

	root := &cobra.Command{
		Use:   "prodaudit",
		Short: "Production readiness audit for a project tree",
		Long: "prodaudit walks the project tree and writes a markdown report flagging hardcoded secrets, " +
			"localhost in production configs, console.log in frontend sources, and risky Spring Security settings.",
		Args: cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd, useTUI)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&configFile, "config", ".prodaudit.yml", "path to config file")
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "project directory to audit")
	root.PersistentFlags().StringVarP(&outputPath, "output", "o", "production_readiness_report.md", "report file to write")
	root.PersistentFlags().StringVar(&format, "format", "markdown", "report format: markdown, json, sarif")
	root.PersistentFlags().BoolVar(&respectGitignore, "respect-gitignore", false, "skip paths listed in the root .gitignore")

	root.Flags().BoolVar(&useTUI, "tui", false, "show live check progress (terminal only)")

	root.AddCommand(newWatchCmd())
	root.AddCommand(newVersionCmd())

	return root
}
