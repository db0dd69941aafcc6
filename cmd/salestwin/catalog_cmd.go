package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ashureev/salestwin/internal/catalog"
	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	var section string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the training reference data as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printCatalog(cmd.OutOrStdout(), catalog.Default(), section)
		},
	}

	cmd.Flags().StringVar(&section, "section", "", "Only print one section: users, offers, presets, insights, history or labels")

	return cmd
}

func printCatalog(w io.Writer, c *catalog.Catalog, section string) error {
	sections := map[string]any{
		"users":    c.Users(),
		"offers":   c.Offers(),
		"presets":  c.Presets(),
		"insights": c.Insights(),
		"history":  c.History(),
		"labels":   catalog.AllLabels(),
	}

	var v any = sections
	if section != "" {
		s, ok := sections[section]
		if !ok {
			return fmt.Errorf("unknown section %q", section)
		}
		v = s
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
