package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/carlosnayan/gigboard/db"
	"github.com/carlosnayan/gigboard/internal/config"
	"github.com/carlosnayan/gigboard/internal/logger"
	"github.com/carlosnayan/gigboard/internal/marketplace"
)

var (
	statsTop   int
	statsEvery time.Duration
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print marketplace statistics",
	Long: `Stats prints assignment counts by status, money in escrow and released,
active disputes and the best rated users.

With --every the numbers are refreshed until interrupted, and edits to the
configuration file's log levels apply without a restart.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		client, err := openClient(ctx)
		if err != nil {
			return err
		}
		defer client.Disconnect()
		svc := marketplace.New(client)

		if statsEvery <= 0 {
			return printStats(ctx, svc, cmd.OutOrStdout())
		}

		if path := cfg.Path(); path != "" {
			w, err := config.Watch(path, func(c *config.Config, err error) {
				if err != nil {
					logger.GetDefaultLogger().Warn("config reload failed: %v", err)
					return
				}
				if verbose {
					c.Log = append(c.Log, "query", "info")
				}
				logger.SetLogLevels(c.Log)
				logger.GetDefaultLogger().Info("log levels reloaded from %s", path)
			})
			if err != nil {
				return err
			}
			defer w.Close()
		}

		ticker := time.NewTicker(statsEvery)
		defer ticker.Stop()
		for {
			if err := printStats(ctx, svc, cmd.OutOrStdout()); err != nil {
				return err
			}
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	},
}

func init() {
	statsCmd.Flags().IntVar(&statsTop, "top", 5, "Number of top rated users to list")
	statsCmd.Flags().DurationVar(&statsEvery, "every", 0, "Refresh interval (0 prints once)")
}

func printStats(ctx context.Context, svc *marketplace.Service, out io.Writer) error {
	st, err := svc.Stats(ctx, statsTop)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	fmt.Fprintln(out, Highlight("Assignments"))
	statuses := make([]string, 0, len(st.Assignments))
	for s := range st.Assignments {
		statuses = append(statuses, string(s))
	}
	sort.Strings(statuses)
	for _, s := range statuses {
		fmt.Fprintf(out, "  %-12s %d\n", s, st.Assignments[db.AssignmentStatus(s)])
	}
	fmt.Fprintln(out, Highlight("Payments"))
	fmt.Fprintf(out, "  %-12s %.2f\n", "escrowed", st.Escrowed)
	fmt.Fprintf(out, "  %-12s %.2f\n", "released", st.Released)
	if st.OpenDispute > 0 {
		fmt.Fprintln(out, Warning(fmt.Sprintf("Active disputes: %d", st.OpenDispute)))
	}
	if len(st.TopWorkers) > 0 {
		fmt.Fprintln(out, Highlight("Top rated"))
		for i, u := range st.TopWorkers {
			name := u.Email
			if u.Name != nil {
				name = *u.Name
			}
			fmt.Fprintf(out, "  %d. %-20s %.2f\n", i+1, name, u.Rating)
		}
	}
	return nil
}
