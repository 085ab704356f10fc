package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/edilens/internal/analyzer"
	"github.com/leapstack-labs/edilens/internal/cli/output"
	"github.com/leapstack-labs/edilens/pkg/core"
)

// RawOptions holds options for commands that print the raw service response.
type RawOptions struct {
	PDF  string
	Save bool
}

// NewSampleCommand creates the sample command.
func NewSampleCommand() *cobra.Command {
	opts := &RawOptions{}

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Run the analysis service's built-in sample",
		Long: `Ask the analysis service to analyze its bundled sample specification
and print the raw response.`,
		Example: `  edilens sample
  edilens sample -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSample(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Save, "save", false, "Save the response to history")
	return cmd
}

func runSample(cmd *cobra.Command, opts *RawOptions) error {
	cc := NewCommandContext(cmd)
	client, err := cc.Analyzer()
	if err != nil {
		return err
	}

	p, callErr := client.TestSpec(cmd.Context())
	if callErr != nil {
		p = analyzer.ErrorPayload(callErr, analyzer.MsgSampleFailed)
	}
	return finishRaw(cmd, cc, core.NewAnalysis(core.AnalysisKindSample, "", "", p), p, opts.Save, callErr)
}

// NewDebugFilterCommand creates the debug-filter command.
func NewDebugFilterCommand() *cobra.Command {
	opts := &RawOptions{}

	cmd := &cobra.Command{
		Use:   "debug-filter",
		Short: "Show which specification lines pass the segment filter",
		Long: `Upload a PDF specification to the service's debug endpoint and print the
raw response. Useful when segments are missing from an analysis.`,
		Example: `  edilens debug-filter --pdf 837p.pdf`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDebugFilter(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.PDF, "pdf", "", "PDF specification file (required)")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "Save the response to history")
	_ = cmd.MarkFlagFilename("pdf", "pdf")
	return cmd
}

func runDebugFilter(cmd *cobra.Command, opts *RawOptions) error {
	cc := NewCommandContext(cmd)
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

	p, callErr := client.DebugFilter(cmd.Context(), pdf)
	if callErr != nil {
		p = analyzer.ErrorPayload(callErr, analyzer.MsgDebugFailed)
	}
	return finishRaw(cmd, cc, core.NewAnalysis(core.AnalysisKindDebug, pdf.Name, "", p), p, opts.Save, callErr)
}

// finishRaw optionally archives the response, prints it and reports callErr.
func finishRaw(cmd *cobra.Command, cc *CommandContext, a *core.Analysis, p *core.Payload, save bool, callErr error) error {
	if save {
		if _, err := saveAnalysis(cmd.Context(), cc, a); err != nil {
			return err
		}
	}
	if err := printRaw(cc.Renderer, p); err != nil {
		return err
	}
	if callErr != nil {
		return fmt.Errorf("request failed: %w", callErr)
	}
	return nil
}

// printRaw prints the response as indented JSON, or as YAML in yaml mode.
func printRaw(r *output.Renderer, p *core.Payload) error {
	if r.EffectiveMode() == output.ModeYAML {
		var v any
		if err := json.Unmarshal(p.Raw, &v); err != nil {
			return fmt.Errorf("failed to convert response: %w", err)
		}
		return r.YAML(v)
	}
	r.Println(p.Pretty())
	return nil
}
