package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/edilens/pkg/core"
)

// ShowOptions holds options for the show command.
type ShowOptions struct {
	File string
	TableOptions
}

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	opts := &ShowOptions{}

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show an archived or saved analysis",
		Long: `Render the tables of an analysis from history, or of a payload saved as JSON.

Without an id or --file the most recent analysis in history is shown.`,
		Example: `  # Show the latest analysis
  edilens show

  # Show a specific analysis, elements of line 3 only
  edilens show 1c9e6f1e-5a8b-4e0e-9b59-0d1f1a3b8b7e --table elements --filter line=3

  # Render a payload saved from the service
  edilens show --file response.json --output csv --table segments`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) > 0 {
				id = args[0]
			}
			return runShow(cmd, id, opts)
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "", "Read the payload from a JSON file instead of history")
	addTableFlags(cmd, &opts.TableOptions)
	_ = cmd.MarkFlagFilename("file", "json")

	return cmd
}

func runShow(cmd *cobra.Command, id string, opts *ShowOptions) error {
	cc := NewCommandContext(cmd)

	id, p, err := loadPayload(cmd.Context(), cc, id, opts.File)
	if err != nil {
		return err
	}
	for _, w := range p.Warnings {
		cc.Renderer.Warning(w)
	}
	return showPayload(cc, id, p, &opts.TableOptions)
}

// loadPayload reads a payload from file, from history by id, or the most
// recent analysis in history. It returns the analysis id when known.
func loadPayload(ctx context.Context, cc *CommandContext, id, file string) (string, *core.Payload, error) {
	if id != "" && file != "" {
		return "", nil, errors.New("use either an id or --file, not both")
	}

	if file != "" {
		data, err := os.ReadFile(file) //nolint:gosec // user supplied input file
		if err != nil {
			return "", nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		p, err := core.DecodePayload(data)
		if err != nil {
			return "", nil, fmt.Errorf("%s: %w", file, err)
		}
		return "", p, nil
	}

	store, err := cc.OpenStore(ctx)
	if err != nil {
		return "", nil, err
	}
	defer func() { _ = store.Close() }()

	var a *core.Analysis
	if id == "" {
		latest, err := store.ListAnalyses(ctx, 1)
		if err != nil {
			return "", nil, err
		}
		if len(latest) == 0 {
			return "", nil, fmt.Errorf("%w: history is empty", core.ErrNotFound)
		}
		a = latest[0]
	} else if a, err = store.GetAnalysis(ctx, id); err != nil {
		return "", nil, err
	}

	p, err := core.DecodePayload(a.Payload)
	if err != nil {
		return "", nil, fmt.Errorf("analysis %s: %w", a.ID, err)
	}
	return a.ID, p, nil
}
