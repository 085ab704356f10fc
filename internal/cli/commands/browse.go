package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/edilens/internal/results"
	"github.com/leapstack-labs/edilens/internal/tui"
)

// BrowseOptions holds options for the browse command.
type BrowseOptions struct {
	File      string
	ExportDir string
}

// NewBrowseCommand creates the browse command.
func NewBrowseCommand() *cobra.Command {
	opts := &BrowseOptions{}

	cmd := &cobra.Command{
		Use:   "browse [id]",
		Short: "Explore an analysis interactively in the terminal",
		Long: `Open an archived or saved analysis in an interactive table browser.

Keys:
  tab      switch between segments and elements
  /        search (enter or esc to finish)
  1-9      sort by column, again to reverse
  f        select the next filter, [ and ] change its value
  c        clear search and filters
  e        export the visible rows as CSV
  q        quit`,
		Example: `  edilens browse
  edilens browse --file response.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) > 0 {
				id = args[0]
			}
			return runBrowse(cmd, id, opts)
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "", "Read the payload from a JSON file instead of history")
	cmd.Flags().StringVar(&opts.ExportDir, "export-dir", ".", "Directory for CSV exports")
	_ = cmd.MarkFlagFilename("file", "json")

	return cmd
}

func runBrowse(cmd *cobra.Command, id string, opts *BrowseOptions) error {
	cc := NewCommandContext(cmd)

	id, p, err := loadPayload(cmd.Context(), cc, id, opts.File)
	if err != nil {
		return err
	}
	if p.Failed() {
		return fmt.Errorf("analysis failed: %s", p.Error)
	}

	tables := results.NewTables()
	tables.Apply(p)

	title := "edilens"
	switch {
	case id != "":
		title += " · " + id
	case opts.File != "":
		title += " · " + opts.File
	}

	m := tui.New(tables, tui.Options{Title: title, ExportDir: opts.ExportDir})
	return tui.Run(cmd.Context(), m, cmd.InOrStdin(), cmd.OutOrStdout())
}
