package commands

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/edilens/internal/ui"
	"github.com/leapstack-labs/edilens/pkg/core"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"ui"},
		Short:   "Start the edilens web UI",
		Long: `Start a local web server for uploading specifications and exploring results.

The UI provides:
- PDF specification and EDI data upload
- Segment analysis and element breakdown tables with search, filters and sorting
- CSV export of the visible rows
- Analysis history`,
		Example: `  # Start UI on default port
  edilens serve

  # Start on custom port against a remote analysis service
  edilens serve --port 3000 --analyzer-url http://analyzer.internal:5000

  # Start without auto-opening browser
  edilens serve --no-browser`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	// Values are read from the loaded config, where set flags take precedence.
	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Reload the page when static assets change (dev builds)")

	return cmd
}

func runServe(cmd *cobra.Command, _ *ServeOptions) error {
	cc := NewCommandContext(cmd)
	cfg := cc.Cfg
	ctx := cmd.Context()

	client, err := cc.Analyzer()
	if err != nil {
		return err
	}

	var store core.Store
	switch s, err := cc.OpenStore(ctx); {
	case errors.Is(err, ErrStateDisabled):
		cc.Logger.Info("history disabled")
	case err != nil:
		return err
	default:
		store = s
		defer func() { _ = s.Close() }()
	}

	secret := cfg.UI.SessionSecret
	if secret == "" {
		secret = generateSessionSecret()
	}

	server := ui.NewServer(ui.Config{
		Analyzer:       client,
		Store:          store,
		Port:           cfg.UI.Port,
		Watch:          cfg.UI.Watch,
		SessionSecret:  secret,
		WorkspaceTTL:   cfg.UI.WorkspaceTTL,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		Logger:         cc.Logger,
	})

	url := fmt.Sprintf("http://localhost:%d", cfg.UI.Port)
	if cfg.UI.AutoOpen {
		go openBrowser(url)
	}

	cc.Renderer.Info(fmt.Sprintf("Starting UI server on %s (analysis service: %s)", url, client.BaseURL()))
	cc.Renderer.Info("Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	return server.Serve(ctx)
}

// generateSessionSecret returns a random secret for this process. Sessions
// do not survive a restart unless ui.session_secret is configured.
func generateSessionSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
