package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/prodaudit/internal/audit"
	"github.com/ppiankov/prodaudit/internal/watch"
)

func newWatchCmd() *cobra.Command {
	var pollMode bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rerun the audit whenever project files change",
		Long:  "Watch runs the full audit once, then again after every batch of file changes under the project root, overwriting the report each time.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSettings(cmd)
			if err != nil {
				return err
			}
			formatter, err := audit.NewFormatter(s.Format)
			if err != nil {
				return err
			}
			opts := s.AuditOptions()

			w, err := watch.New(watch.Config{
				Root:        s.Root,
				ExcludeDirs: opts.ExcludeDirs,
				IgnorePaths: []string{s.Output},
				PollMode:    pollMode,
				OnChange: func() error {
					a, err := audit.New(opts)
					if err != nil {
						return err
					}
					report := a.Run()
					if err := audit.WriteReport(s.Output, formatter, report); err != nil {
						return err
					}
					slog.Info("report written", "path", s.Output, "findings", len(report.Findings()))
					return nil
				},
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return w.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&pollMode, "poll", false, "use polling instead of fsnotify")

	return cmd
}
