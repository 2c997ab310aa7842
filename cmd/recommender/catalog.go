package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"recommender/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the normalized catalog entries that get embedded",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		products, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, catalog.Summary(products))
		for i, text := range catalog.NormalizeAll(products) {
			fmt.Fprintf(w, "%3d  %s\n", i, text)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
