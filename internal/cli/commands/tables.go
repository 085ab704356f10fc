package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/edilens/internal/cli/output"
	"github.com/leapstack-labs/edilens/internal/results"
	"github.com/leapstack-labs/edilens/internal/tableview"
	"github.com/leapstack-labs/edilens/pkg/core"
)

// tableBoth selects both result tables.
const tableBoth = "both"

// TableOptions holds the flags shared by commands that show result tables.
type TableOptions struct {
	Table   string
	Search  string
	Filters []string
	Sort    string
	Export  string
}

func addTableFlags(cmd *cobra.Command, opts *TableOptions) {
	cmd.Flags().StringVar(&opts.Table, "table", tableBoth, "Table to show (segments|elements|both)")
	cmd.Flags().StringVar(&opts.Search, "search", "", "Case-insensitive search across searchable columns")
	cmd.Flags().StringArrayVar(&opts.Filters, "filter", nil, "Filter as key=value (repeatable), e.g. presence=missing")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "Sort by column, append :desc for descending")
	cmd.Flags().StringVar(&opts.Export, "export", "", "Write the visible rows as CSV into this directory")

	_ = cmd.RegisterFlagCompletionFunc("table", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{results.SegmentsName, results.ElementsName, tableBoth}, cobra.ShellCompDirectiveNoFileComp
	})
}

// selected returns the table names chosen by --table.
func (o *TableOptions) selected() ([]string, error) {
	switch o.Table {
	case "", tableBoth:
		return results.Names, nil
	case results.SegmentsName, results.ElementsName:
		return []string{o.Table}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want segments, elements or both)", results.ErrUnknownTable, o.Table)
	}
}

// apply runs search, filters and sort against the open tables in names.
// A filter or sort key must be known to at least one of them.
func (o *TableOptions) apply(tables *results.Tables, names []string) error {
	var views []tableview.Table
	for _, name := range names {
		t, err := tables.Table(name)
		if err != nil {
			return err
		}
		if t.IsOpen() {
			views = append(views, t)
		}
	}
	if len(views) == 0 {
		return nil
	}

	if o.Search != "" {
		for _, t := range views {
			if err := t.SetFilter(tableview.SearchKey, o.Search); err != nil {
				return err
			}
		}
	}

	for _, f := range o.Filters {
		key, value, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return fmt.Errorf("invalid --filter %q: want key=value", f)
		}
		if err := applyToAny(views, func(t tableview.Table) error {
			return t.SetFilter(key, value)
		}, tableview.ErrUnknownFilter); err != nil {
			return fmt.Errorf("--filter %s: %w", key, err)
		}
	}

	if o.Sort != "" {
		field, dir := parseSort(o.Sort)
		if err := applyToAny(views, func(t tableview.Table) error {
			return t.SetSort(field, dir)
		}, tableview.ErrUnknownColumn); err != nil {
			return fmt.Errorf("--sort %s: %w", field, err)
		}
	}
	return nil
}

// applyToAny calls fn on every view, ignoring unknown-key errors as long
// as one view accepts the key.
func applyToAny(views []tableview.Table, fn func(tableview.Table) error, unknown error) error {
	accepted := false
	for _, t := range views {
		err := fn(t)
		switch {
		case err == nil:
			accepted = true
		case errors.Is(err, unknown):
		default:
			return err
		}
	}
	if !accepted {
		return unknown
	}
	return nil
}

func parseSort(s string) (string, tableview.Direction) {
	field, dir, _ := strings.Cut(s, ":")
	return field, tableview.ParseDirection(dir)
}

// tablesOutput is the structured rendering of a payload and its tables.
type tablesOutput struct {
	ID       string                        `json:"id,omitempty" yaml:"id,omitempty"`
	Message  string                        `json:"message,omitempty" yaml:"message,omitempty"`
	Error    string                        `json:"error,omitempty" yaml:"error,omitempty"`
	Segments *tableOutput[core.SegmentRow] `json:"segments,omitempty" yaml:"segments,omitempty"`
	Elements *tableOutput[core.ElementRow] `json:"elements,omitempty" yaml:"elements,omitempty"`
}

type tableOutput[R any] struct {
	Showing int    `json:"showing" yaml:"showing"`
	Total   int    `json:"total" yaml:"total"`
	Counter string `json:"counter" yaml:"counter"`
	Rows    []R    `json:"rows" yaml:"rows"`
}

func newTableOutput[R any](v *tableview.View[R]) *tableOutput[R] {
	if !v.IsOpen() {
		return nil
	}
	snap := v.Snapshot()
	return &tableOutput[R]{
		Showing: snap.Showing,
		Total:   snap.Total,
		Counter: snap.Counter,
		Rows:    v.Visible(),
	}
}

// showPayload applies p to a fresh table pair, runs the table flags and
// renders the result. Exports are written last.
func showPayload(cc *CommandContext, id string, p *core.Payload, opts *TableOptions) error {
	names, err := opts.selected()
	if err != nil {
		return err
	}

	tables := results.NewTables()
	tables.Apply(p)
	if err := opts.apply(tables, names); err != nil {
		return err
	}

	if err := renderPayload(cc.Renderer, id, p, tables, names); err != nil {
		return err
	}

	if opts.Export != "" {
		return exportTables(cc.Renderer, tables, names, opts.Export, time.Now())
	}
	return nil
}

func renderPayload(r *output.Renderer, id string, p *core.Payload, tables *results.Tables, names []string) error {
	mode := r.EffectiveMode()
	if mode.IsStructured() {
		out := tablesOutput{ID: id, Message: p.Message, Error: p.Error}
		for _, name := range names {
			switch name {
			case results.SegmentsName:
				out.Segments = newTableOutput(tables.Segments)
			case results.ElementsName:
				out.Elements = newTableOutput(tables.Elements)
			}
		}
		return r.Data(out)
	}

	if mode != output.ModeCSV {
		renderSummary(r, id, p)
	}
	if p.Failed() {
		return nil
	}

	first := true
	for _, name := range names {
		t, err := tables.Table(name)
		if err != nil {
			return err
		}
		if !t.IsOpen() {
			r.Info(fmt.Sprintf("No %s data in this analysis.", name))
			continue
		}
		if !first {
			r.Println("")
		}
		first = false
		if mode != output.ModeCSV {
			r.Header(2, results.Title(name))
		}
		if err := r.Snapshot(t.Snapshot()); err != nil {
			return err
		}
	}
	return nil
}

func renderSummary(r *output.Renderer, id string, p *core.Payload) {
	if p.Failed() {
		r.Error(p.Error)
		if p.Message != "" {
			r.Info(p.Message)
		}
		return
	}

	var pairs [][2]string
	if id != "" {
		pairs = append(pairs, [2]string{"Analysis", id})
	}
	if p.Message != "" {
		pairs = append(pairs, [2]string{"Message", p.Message})
	}
	if p.TotalLines > 0 {
		pairs = append(pairs, [2]string{"Lines processed", fmt.Sprint(p.TotalLines)})
	}
	if len(p.SegmentsInEDI) > 0 {
		pairs = append(pairs, [2]string{"Segments in EDI", strings.Join(p.SegmentsInEDI, ", ")})
	}
	if p.TotalElements > 0 {
		pairs = append(pairs, [2]string{"EDI elements", fmt.Sprint(p.TotalElements)})
	}
	if len(pairs) == 0 {
		return
	}

	markdown := r.EffectiveMode() == output.ModeMarkdown
	for _, kv := range pairs {
		if markdown {
			r.Println(output.FormatKeyValue(kv[0], kv[1]))
		} else {
			r.Printf("%s %s\n", r.Styles().Key.Render(kv[0]+":"), kv[1])
		}
	}
	r.Println("")
}

// exportTables writes one CSV per selected open table into dir.
// A table with no visible rows is reported and skipped.
func exportTables(r *output.Renderer, tables *results.Tables, names []string, dir string, now time.Time) error {
	var errs []error
	for _, name := range names {
		t, err := tables.Table(name)
		if err != nil {
			return err
		}
		if !t.IsOpen() {
			continue
		}
		exp, err := tables.Export(name, now)
		if err != nil {
			if errors.Is(err, tableview.ErrEmptyResult) {
				r.Error(fmt.Sprintf("%s: No data to export", name))
			}
			errs = append(errs, fmt.Errorf("export %s: %w", name, err))
			continue
		}
		path, err := tableview.SaveExport(dir, exp)
		if err != nil {
			errs = append(errs, fmt.Errorf("export %s: %w", name, err))
			continue
		}
		r.Success("Exported " + path)
	}
	return errors.Join(errs...)
}
