package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vietddude/syncrunner/internal/core/config"
	"github.com/vietddude/syncrunner/internal/infra/storage/postgres"
)

var failuresLimit int

var failuresCmd = &cobra.Command{
	Use:   "failures",
	Short: "Show recent failed attempts and their failure reasons",
	Run:   runFailures,
}

func init() {
	failuresCmd.Flags().IntVar(&failuresLimit, "limit", 20, "maximum number of attempts to show")
	rootCmd.AddCommand(failuresCmd)
}

func runFailures(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	attempts, err := postgres.NewAttemptRepo(db).ListFailed(ctx, failuresLimit)
	if err != nil {
		slog.Error("Failed to list attempts", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "JOB\tATTEMPT\tSTATUS\tORIGIN\tMESSAGE")

	for _, a := range attempts {
		if a.FailureSummary == nil || len(a.FailureSummary.Failures) == 0 {
			_, _ = fmt.Fprintf(w, "%d\t%d\t%s\t\t\n", a.JobID, a.Number, a.Status)
			continue
		}
		for _, f := range a.FailureSummary.Failures {
			_, _ = fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n", a.JobID, a.Number, a.Status, f.Origin, f.ExternalMessage)
		}
	}
	_ = w.Flush()
}
