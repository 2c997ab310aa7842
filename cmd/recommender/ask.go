package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"recommender/internal/observability"
)

var (
	askShowCandidates bool
	askTimeout        time.Duration
)

var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Answer a single request and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askShowCandidates, "candidates", false, "print the matched products and scores")
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 2*time.Minute, "overall timeout")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := observability.NewLogger(observability.LogConfig{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: os.Stderr})

	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	svc, _, err := newRecommender(ctx, cfg, log)
	if err != nil {
		return err
	}
	res, err := svc.HandleTurn(ctx, query, nil)
	if err != nil {
		return err
	}
	if res == nil {
		return nil
	}

	w := cmd.OutOrStdout()
	if askShowCandidates {
		for i, c := range res.Candidates {
			fmt.Fprintf(w, "%d. %s (score %.3f)\n", i+1, c.Product.Name, c.Score)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, res.Reply)
	return nil
}
