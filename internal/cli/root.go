// Package cli implements the productctl commands on top of the product API
// client and the ui controller.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/abgdnv/productboard/internal/config"
	"github.com/abgdnv/productboard/internal/product/client"
	"github.com/abgdnv/productboard/internal/product/ui"
	"github.com/abgdnv/productboard/pkg/bootstrap"
	"github.com/abgdnv/productboard/pkg/config/configloader"
	"github.com/spf13/cobra"
)

// ErrReported marks failures whose message was already printed as a banner.
var ErrReported = errors.New("reported")

type app struct {
	apiURL string
	logger *slog.Logger
	closer io.Closer
	client *client.Client
	// uiOpts are applied to every controller after the defaults.
	uiOpts []ui.Option
}

// NewRootCommand returns productctl with all subcommands attached.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{})
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "productctl",
		Short:         "Manage the product board from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closer != nil {
				return a.closer.Close()
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "base URL of the product API (overrides api.url)")

	commands := []*cobra.Command{
		newListCommand(a),
		newAddCommand(a),
		newDeleteCommand(a),
		newSeedCommand(a),
		newShellCommand(a),
	}
	rootCmd.AddCommand(commands...)
	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := configloader.Load[*config.CLIConfig](config.CLIName)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.apiURL != "" {
		cfg.API.URL = a.apiURL
	}
	a.logger, a.closer = bootstrap.NewLoggerTo(cmd.ErrOrStderr(), cfg.Log)
	a.client = client.New(cfg.API.URL)
	a.logger.Debug("productctl configured", "config", cfg.String())
	return nil
}

func (a *app) newController() *ui.Controller {
	opts := append([]ui.Option{ui.WithLogger(a.logger)}, a.uiOpts...)
	return ui.NewController(a.client, ui.NewStore(), opts...)
}

// printBanner writes the active message, if any, on its own line.
func printBanner(w io.Writer, st ui.State) {
	if st.Message == nil {
		return
	}
	label := "OK"
	if st.Message.Kind == ui.MessageError {
		label = "ERROR"
	}
	_, _ = fmt.Fprintf(w, "[%s] %s\n", label, st.Message.Text)
}

func reported(err error) error {
	return fmt.Errorf("%w: %w", ErrReported, err)
}
