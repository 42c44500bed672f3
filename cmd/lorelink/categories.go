package main

import (
	"fmt"
	"path"

	"github.com/spf13/cobra"

	"github.com/koustreak/lorelink/internal/catalog"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List every category that directly holds items",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

func runCategories(cmd *cobra.Command, _ []string) error {
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.Provider(providerKeyOrDefault(a))
	if err != nil {
		return err
	}
	categories, err := p.Categories(ctx)
	if err != nil {
		return err
	}
	for _, c := range categories {
		fmt.Fprintf(cmd.OutOrStdout(), "%-32s %s\n", c, catalog.PrettifySlug(path.Base(c)))
	}
	return nil
}
