package main

import (
	"context"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"recommender/internal/catalog"
	"recommender/internal/observability"
	"recommender/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive chat (default)",
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// the screen belongs to the UI, so logs go to a file or nowhere
	out, err := observability.OpenLogFile(cfg.Log.File)
	if err != nil {
		return err
	}
	defer out.Close()
	log := observability.NewLogger(observability.LogConfig{Level: cfg.Log.Level, Format: "json", Output: out})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc, products, err := newRecommender(ctx, cfg, log)
	if err != nil {
		return err
	}
	m := tui.New(ctx, svc, catalog.Summary(products))
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
