package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/edilens/internal/tableview"
	"github.com/leapstack-labs/edilens/pkg/core"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit int
}

// historyEntry is the structured form of an archived analysis.
type historyEntry struct {
	ID        string    `json:"id" yaml:"id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Kind      string    `json:"kind" yaml:"kind"`
	PDF       string    `json:"pdf,omitempty" yaml:"pdf,omitempty"`
	EDI       string    `json:"edi,omitempty" yaml:"edi,omitempty"`
	Message   string    `json:"message,omitempty" yaml:"message,omitempty"`
	Error     string    `json:"error,omitempty" yaml:"error,omitempty"`
	Segments  int       `json:"segments" yaml:"segments"`
	Elements  int       `json:"elements" yaml:"elements"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived analyses",
		Example: `  # Most recent analyses
  edilens history

  # As JSON, for scripts
  edilens history --limit 5 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Maximum number of analyses (0 for all)")
	cmd.AddCommand(newHistoryRemoveCommand())

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	cc := NewCommandContext(cmd)
	ctx := cmd.Context()
	r := cc.Renderer

	store, err := cc.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	analyses, err := store.ListAnalyses(ctx, opts.Limit)
	if err != nil {
		return err
	}

	if r.EffectiveMode().IsStructured() {
		entries := make([]historyEntry, len(analyses))
		for i, a := range analyses {
			entries[i] = newHistoryEntry(a)
		}
		return r.Data(entries)
	}

	if len(analyses) == 0 {
		r.Info("No analyses in history.")
		return nil
	}
	return r.Snapshot(historySnapshot(analyses))
}

func newHistoryEntry(a *core.Analysis) historyEntry {
	return historyEntry{
		ID:        a.ID,
		CreatedAt: a.CreatedAt,
		Kind:      string(a.Kind),
		PDF:       a.PDFName,
		EDI:       a.EDIName,
		Message:   a.Message,
		Error:     a.Error,
		Segments:  a.SegmentCount,
		Elements:  a.ElementCount,
	}
}

// historySnapshot lays out analyses as a read-only table.
func historySnapshot(analyses []*core.Analysis) tableview.Snapshot {
	snap := tableview.Snapshot{
		Name: "history",
		Noun: "analyses",
		Open: true,
		Headers: []tableview.Header{
			{Key: "id", Label: "ID"},
			{Key: "created_at", Label: "Created"},
			{Key: "kind", Label: "Kind"},
			{Key: "pdf", Label: "PDF"},
			{Key: "edi", Label: "EDI"},
			{Key: "segments", Label: "Segments"},
			{Key: "elements", Label: "Elements"},
			{Key: "status", Label: "Status"},
		},
		Total:   len(analyses),
		Showing: len(analyses),
	}
	for _, a := range analyses {
		status := tableview.Cell{Text: "ok", Class: "status-present"}
		if a.Error != "" {
			status = tableview.Cell{Text: a.Error, Class: "status-missing"}
		}
		snap.Rows = append(snap.Rows, []tableview.Cell{
			{Text: a.ID},
			{Text: a.CreatedAt.Local().Format(time.DateTime)},
			{Text: string(a.Kind)},
			{Text: a.PDFName},
			{Text: a.EDIName},
			{Text: fmt.Sprint(a.SegmentCount)},
			{Text: fmt.Sprint(a.ElementCount)},
			status,
		})
	}
	snap.Counter = tableview.Counter(snap.Showing, snap.Total, snap.Noun)
	return snap
}

func newHistoryRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an archived analysis",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			ctx := cmd.Context()

			store, err := cc.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteAnalysis(ctx, args[0]); err != nil {
				return err
			}
			cc.Renderer.Success("Deleted analysis " + args[0])
			return nil
		},
	}
}
