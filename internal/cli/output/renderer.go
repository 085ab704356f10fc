// Package output renders CLI output as styled text, markdown, CSV, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/edilens/internal/tableview"
)

// OutputMode selects the output format.
type OutputMode string

// Output modes.
const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeCSV      OutputMode = "csv"
	ModeJSON     OutputMode = "json"
	ModeYAML     OutputMode = "yaml"
)

// Mode parses an output format name. Unknown names are ModeAuto.
func Mode(s string) OutputMode {
	switch strings.ToLower(s) {
	case "text":
		return ModeText
	case "markdown", "md":
		return ModeMarkdown
	case "csv":
		return ModeCSV
	case "json":
		return ModeJSON
	case "yaml", "yml":
		return ModeYAML
	default:
		return ModeAuto
	}
}

// IsStructured reports whether the mode emits machine-readable data.
func (m OutputMode) IsStructured() bool {
	return m == ModeJSON || m == ModeYAML
}

// Renderer writes command output.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	isTTY  bool
	mode   OutputMode
	styles *Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	return &Renderer{
		out:    out,
		errOut: errOut,
		isTTY:  isTTY,
		mode:   mode,
		styles: NewStyles(newLipglossRenderer(out, isTTY)),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// EffectiveMode resolves ModeAuto: text on a terminal, markdown otherwise.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode != ModeAuto && r.mode != "" {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// Styles returns the renderer's styles.
func (r *Renderer) Styles() *Styles { return r.styles }

// Out returns the primary writer.
func (r *Renderer) Out() io.Writer { return r.out }

// IsTTY reports whether the primary writer is a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Println writes a line to the primary writer.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted output to the primary writer.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Header writes a level 1 or 2 header in the effective mode.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(FormatHeader(level, text))
		return
	}
	if level <= 1 {
		r.Println(r.styles.Header1.Render(text))
		return
	}
	r.Println(r.styles.Header2.Render(text))
}

// Success writes a status line to the error writer.
func (r *Renderer) Success(msg string) {
	_, _ = fmt.Fprintf(r.errOut, "%s %s\n", r.styles.StatusSuccess.String(), msg)
}

// Warning writes a warning line to the error writer.
func (r *Renderer) Warning(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warning.Render("! "+msg))
}

// Error writes an error line to the error writer.
func (r *Renderer) Error(msg string) {
	_, _ = fmt.Fprintf(r.errOut, "%s %s\n", r.styles.StatusFailed.String(), r.styles.Error.Render(msg))
}

// Info writes a muted line to the error writer.
func (r *Renderer) Info(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Muted.Render(msg))
}

// Snapshot renders a table snapshot in the effective mode. Structured
// modes are not handled here; use JSON or YAML with the row data.
func (r *Renderer) Snapshot(snap tableview.Snapshot) error {
	switch r.EffectiveMode() {
	case ModeCSV:
		header := make([]string, len(snap.Headers))
		for i, h := range snap.Headers {
			header[i] = h.Label
		}
		records := make([][]string, len(snap.Rows))
		for i, row := range snap.Rows {
			rec := make([]string, len(row))
			for j, c := range row {
				rec[j] = c.Text
			}
			records[i] = rec
		}
		return tableview.WriteCSV(r.out, header, records)
	case ModeMarkdown:
		t := r.newTable(snap, false)
		t.RenderMarkdown()
		r.Println("")
		r.Println("_" + snap.Counter + "_")
		return nil
	default:
		t := r.newTable(snap, true)
		t.Render()
		r.Println(r.styles.Muted.Render(snap.Counter))
		return nil
	}
}

func (r *Renderer) newTable(snap tableview.Snapshot, styled bool) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(snap.Headers))
	for i, h := range snap.Headers {
		label := h.Label
		if h.Indicator != "" {
			label += " " + h.Indicator
		}
		header[i] = label
	}
	t.AppendHeader(header)

	for _, cells := range snap.Rows {
		row := make(table.Row, len(cells))
		for i, c := range cells {
			if styled {
				row[i] = r.styles.Cell(c.Class, c.Text)
			} else {
				row[i] = c.Text
			}
		}
		t.AppendRow(row)
	}
	return t
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML writes v as YAML.
func (r *Renderer) YAML(v any) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Data writes v as YAML in ModeYAML and as JSON otherwise.
func (r *Renderer) Data(v any) error {
	if r.EffectiveMode() == ModeYAML {
		return r.YAML(v)
	}
	return r.JSON(v)
}

// FormatHeader formats a markdown header.
func FormatHeader(level int, text string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue formats a markdown key/value list item.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s**: %s", key, value)
}
