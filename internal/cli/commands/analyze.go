package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/edilens/internal/analyzer"
	"github.com/leapstack-labs/edilens/pkg/core"
)

// AnalyzeOptions holds options for the analyze command.
type AnalyzeOptions struct {
	PDF  string
	EDI  string
	Save bool
	TableOptions
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze an EDI specification against EDI data",
		Long: `Upload a PDF implementation guide, and optionally an EDI file, to the
analysis service and show the segment and element tables.

Output adapts to environment:
  - Terminal: Styled tables
  - Piped/Scripted: Markdown tables

Use --output to override: auto, text, markdown, csv, json, yaml`,
		Example: `  # Analyze a spec against a claim file
  edilens analyze --pdf 837p.pdf --edi claim.edi

  # Only the missing segments, sorted by tag
  edilens analyze --pdf 837p.pdf --edi claim.edi --table segments --filter presence=missing --sort segment_tag

  # Export both tables as CSV and keep the analysis in history
  edilens analyze --pdf 837p.pdf --edi claim.edi --export ./out --save`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.PDF, "pdf", "", "PDF specification file (required)")
	cmd.Flags().StringVar(&opts.EDI, "edi", "", "EDI data file")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "Save the analysis to history")
	addTableFlags(cmd, &opts.TableOptions)
	_ = cmd.MarkFlagFilename("pdf", "pdf")

	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *AnalyzeOptions) error {
	cc := NewCommandContext(cmd)
	ctx := cmd.Context()

	if opts.PDF == "" {
		return analyzer.ErrMissingPDF
	}
	client, err := cc.Analyzer()
	if err != nil {
		return err
	}

	pdf, closePDF, err := openUpload(opts.PDF)
	if err != nil {
		return err
	}
	defer closePDF()

	var edi *analyzer.File
	if opts.EDI != "" {
		f, closeEDI, err := openUpload(opts.EDI)
		if err != nil {
			return err
		}
		defer closeEDI()
		edi = f
	}

	cc.Renderer.Info(fmt.Sprintf("Analyzing %s with %s...", opts.PDF, client.BaseURL()))
	p, callErr := client.AnalyzeSpec(ctx, pdf, edi)
	if callErr != nil {
		cc.Logger.Debug("analysis failed", "error", callErr)
		p = analyzer.ErrorPayload(callErr, analyzer.MsgAnalyzeFailed)
	}
	for _, w := range p.Warnings {
		cc.Renderer.Warning(w)
	}

	id := ""
	if opts.Save {
		id, err = saveAnalysis(ctx, cc, core.NewAnalysis(core.AnalysisKindAnalyze, pdf.Name, fileName(edi), p))
		if err != nil {
			return err
		}
	}

	if err := showPayload(cc, id, p, &opts.TableOptions); err != nil {
		return err
	}
	if callErr != nil {
		return fmt.Errorf("analysis failed: %w", callErr)
	}
	return nil
}

// openUpload opens path as an upload named after its base name.
func openUpload(path string) (*analyzer.File, func(), error) {
	f, err := os.Open(path) //nolint:gosec // user supplied input file
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &analyzer.File{Name: filepath.Base(path), Body: f}, func() { _ = f.Close() }, nil
}

func fileName(f *analyzer.File) string {
	if f == nil {
		return ""
	}
	return f.Name
}

// saveAnalysis archives a and returns its id.
func saveAnalysis(ctx context.Context, cc *CommandContext, a *core.Analysis) (string, error) {
	store, err := cc.OpenStore(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveAnalysis(ctx, a); err != nil {
		return "", fmt.Errorf("failed to save analysis: %w", err)
	}
	cc.Renderer.Success("Saved analysis " + a.ID)
	return a.ID, nil
}
