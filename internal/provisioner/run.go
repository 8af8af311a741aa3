package provisioner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/spachava753/crownprix-leaderboards/internal/appstore"
	"github.com/spachava753/crownprix-leaderboards/internal/auth"
	"github.com/spachava753/crownprix-leaderboards/internal/catalog"
	"github.com/spachava753/crownprix-leaderboards/internal/config"
	"github.com/spachava753/crownprix-leaderboards/internal/models"
)

// RunOptions configures RunFromConfig.
type RunOptions struct {
	// EnvPath is the .env file holding the API credentials.
	EnvPath string
	// Settings holds run settings; its credentials are replaced by the ones loaded from EnvPath.
	Settings models.RunConfig
	// Output receives progress lines. Nil discards them.
	Output io.Writer
	// HTTPClient is the base client used for API calls. Nil uses http.DefaultClient.
	HTTPClient *http.Client
}

// RunFromConfig loads credentials, signs a token and provisions the selected
// catalog targets. Configuration problems are reported before any request is sent.
func RunFromConfig(ctx context.Context, opts RunOptions) (*models.RunResult, error) {
	cfg, err := config.LoadRunConfig(opts.EnvPath, opts.Settings)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	cat, err := catalog.Default()
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	targets, err := cat.Select(cfg.Only)
	if err != nil {
		return nil, fmt.Errorf("selecting targets: %w", err)
	}

	token, err := auth.GenerateTokenFromFile(cfg.Credentials.KeyPath, cfg.Credentials.IssuerID, cfg.Credentials.KeyID,
		auth.WithTTL(cfg.TokenTTL))
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}
	slog.Debug("generated api token", "key_id", cfg.Credentials.KeyID, "ttl", cfg.TokenTTL)

	clientOpts := []appstore.Option{appstore.WithBaseURL(cfg.BaseURL)}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, appstore.WithHTTPClient(opts.HTTPClient))
	}
	client := appstore.NewClient(token, clientOpts...)

	out := opts.Output
	if out == nil {
		out = io.Discard
	}

	p := New(client, cfg.Credentials.AppID,
		WithLocale(cfg.Locale),
		WithDelay(cfg.Delay),
		WithOutput(out),
	)

	return p.Run(ctx, targets)
}
