package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/koustreak/lorelink/internal/catalog"
	"github.com/koustreak/lorelink/internal/errs"
)

var (
	searchWorld string
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Suggest categories and items for a query",
	Long: `Run a progressive search against one provider. With --world the query
goes through world enablement: the provider must be enabled for the world,
and may be named by its lookup key.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchWorld, "world", "", "World id to check provider enablement against")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print suggestions as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	query := ""
	if len(args) == 1 {
		query = args[0]
	}
	source := providerKeyOrDefault(a)

	var suggestions []catalog.Suggestion
	if searchWorld != "" {
		world, err := uuid.Parse(searchWorld)
		if err != nil {
			return errs.Wrap(errs.ErrKindInvalidInput, "invalid world id", err)
		}
		suggestions = a.Links.Suggest(ctx, &world, source, query)
	} else {
		if err := a.Links.ValidateSource(source); err != nil {
			return err
		}
		suggestions = a.Links.Suggest(ctx, nil, source, query)
	}

	if searchJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(suggestions)
	}

	if len(suggestions) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "no suggestions")
		return nil
	}
	for _, s := range suggestions {
		marker := " "
		if s.IsCategory() {
			marker = "+"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %-40s %s\n", marker, s.ID, strings.TrimSpace(s.Title+"  "+s.Subtitle))
	}
	return nil
}
