package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/edilens/internal/analyzer"
	"github.com/leapstack-labs/edilens/internal/cli/config"
	"github.com/leapstack-labs/edilens/internal/cli/output"
	"github.com/leapstack-labs/edilens/internal/state"
)

// ErrStateDisabled is returned by commands that need the archive when it is turned off.
var ErrStateDisabled = errors.New("analysis history is disabled (state.disabled)")

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds the CommandContext from the command's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.GetConfig(cmd.Context())
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// Analyzer returns a client for the configured analysis service.
func (c *CommandContext) Analyzer() (*analyzer.Client, error) {
	client, err := analyzer.New(analyzer.Config{
		BaseURL: c.Cfg.Analyzer.BaseURL,
		Timeout: c.Cfg.Analyzer.Timeout,
		Logger:  c.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create analyzer client: %w", err)
	}
	return client, nil
}

// OpenStore opens the analysis archive. It returns ErrStateDisabled when
// the archive is turned off.
func (c *CommandContext) OpenStore(ctx context.Context) (*state.SQLStore, error) {
	if c.Cfg.State.Disabled {
		return nil, ErrStateDisabled
	}
	store, err := state.Open(ctx, state.Config{
		Driver: c.Cfg.State.Driver,
		DSN:    c.Cfg.State.DSN,
		Logger: c.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return store, nil
}
