package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"arith-recall/internal/app"
	"arith-recall/internal/config"
	"arith-recall/internal/domain"
	redisstore "arith-recall/internal/infra/redis"
	"github.com/spf13/cobra"
)

// NewLeaderboardCmd prints the top entries of the configured backend, plus the number
// of live games when Redis is configured.
func NewLeaderboardCmd(configPath *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			d, err := buildDeps(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer d.Close()

			board := app.NewLeaderboard(d.store, config.Duration(cfg.Leaderboard.Timeout, 2*time.Second))
			if err := printLeaderboard(cmd.OutOrStdout(), board.ReadAll(cmd.Context()), limit); err != nil {
				return err
			}
			if d.redis == nil {
				return nil
			}
			active, err := redisstore.ActiveGames(cmd.Context(), d.redis)
			if err != nil {
				return fmt.Errorf("count active games: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "active games: %d\n", active)
			return err
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of entries to print")
	return cmd
}

func printLeaderboard(w io.Writer, entries []domain.LeaderboardEntry, limit int) error {
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "no scores yet")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tNAME\tSCORE\tTIME")
	for i, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%.1fs\n", i+1, e.Name, e.Score, e.TotalTime)
	}
	return tw.Flush()
}
