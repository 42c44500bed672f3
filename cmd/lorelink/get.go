package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/koustreak/lorelink/internal/errs"
)

var getRaw bool

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Render one item as Markdown",
	Example: `  lorelink get items/armor/breastplate
  lorelink get spells/fireball --raw`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	getCmd.Flags().BoolVar(&getRaw, "raw", false, "Print the decoded JSON instead of Markdown")
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	source := providerKeyOrDefault(a)
	if err := a.Links.ValidateSource(source); err != nil {
		return err
	}
	if err := a.Links.ValidateID(source, args[0]); err != nil {
		return err
	}

	content := a.Links.Content(ctx, source, args[0])
	if content == nil || content.IsPlaceholder() {
		return errs.New(errs.ErrKindNotFound, "no content for "+args[0])
	}

	if getRaw {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(content.Raw)
	}
	fmt.Fprint(cmd.OutOrStdout(), content.Document)
	return nil
}
