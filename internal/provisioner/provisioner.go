// Package provisioner creates the catalog's leaderboards one after another
// and tallies what happened to each of them.
package provisioner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/spachava753/crownprix-leaderboards/internal/appstore"
	"github.com/spachava753/crownprix-leaderboards/internal/models"
)

// Backend is the subset of the App Store Connect API the provisioner needs.
type Backend interface {
	GameCenterDetailID(ctx context.Context, appID string) (string, error)
	CreateLeaderboard(ctx context.Context, detailID, vendorID, referenceName string) (appstore.CreateResult, error)
	AddLocalization(ctx context.Context, leaderboardID, locale, name string) error
}

// Provisioner creates leaderboards sequentially with a fixed pause between them.
type Provisioner struct {
	backend Backend
	appID   string
	locale  string
	delay   time.Duration
	out     io.Writer
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithLocale sets the locale of the display name attached to each leaderboard.
func WithLocale(locale string) Option {
	return func(p *Provisioner) { p.locale = locale }
}

// WithDelay sets the pause between two targets. Zero disables pacing.
func WithDelay(d time.Duration) Option {
	return func(p *Provisioner) { p.delay = d }
}

// WithOutput sets where progress lines are printed.
func WithOutput(w io.Writer) Option {
	return func(p *Provisioner) { p.out = w }
}

// New creates a provisioner for the given app.
func New(backend Backend, appID string, opts ...Option) *Provisioner {
	p := &Provisioner{
		backend: backend,
		appID:   appID,
		locale:  "en-US",
		delay:   300 * time.Millisecond,
		out:     io.Discard,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run resolves the app's Game Center detail and then provisions every target
// in order. Per-target failures are counted and do not stop the run; a failed
// detail lookup or a transport error does. When ctx is cancelled the partial
// result is returned with Cancelled set.
func (p *Provisioner) Run(ctx context.Context, targets []models.Target) (*models.RunResult, error) {
	result := &models.RunResult{
		RunID:     uuid.NewString(),
		AppID:     p.appID,
		Expected:  len(targets),
		StartedAt: time.Now(),
		Results:   make([]models.TargetResult, 0, len(targets)),
	}
	defer func() {
		result.EndedAt = time.Now()
		result.TotalDurationSec = result.EndedAt.Sub(result.StartedAt).Seconds()
	}()

	fmt.Fprintln(p.out, "Fetching Game Center detail ID...")
	detailID, err := p.backend.GameCenterDetailID(ctx, p.appID)
	if err != nil {
		return nil, fmt.Errorf("resolving game center detail: %w", err)
	}
	fmt.Fprintf(p.out, "  Game Center detail ID: %s\n", detailID)
	result.GameCenterDetailID = detailID

	slog.Debug("provisioning leaderboards", "run_id", result.RunID, "targets", len(targets), "delay", p.delay)

	var section models.TargetKind
	for i, target := range targets {
		if i > 0 {
			if err := pause(ctx, p.delay); err != nil {
				result.Cancelled = true
				break
			}
		}

		if target.Kind != section {
			section = target.Kind
			count := lo.CountBy(targets, func(t models.Target) bool { return t.Kind == section })
			fmt.Fprintf(p.out, "\n=== %s Leaderboards (%d) ===\n\n", sectionTitle(section), count)
		}

		tr, err := p.provision(ctx, detailID, target)
		if err != nil {
			if ctx.Err() != nil {
				result.Cancelled = true
				break
			}
			return nil, err
		}

		result.Results = append(result.Results, tr)
		switch tr.Status {
		case models.StatusCreated:
			result.Created++
		case models.StatusSkipped:
			result.Skipped++
		case models.StatusFailed:
			result.Failed++
		}
		if tr.LocalizationError != nil {
			result.LocalizationsFailed++
		}
	}

	if result.Cancelled {
		slog.Warn("run cancelled", "attempted", result.Attempted(), "expected", result.Expected)
	}

	return result, nil
}

// provision creates one leaderboard and, only when it was newly created,
// attaches its localized display name.
func (p *Provisioner) provision(ctx context.Context, detailID string, target models.Target) (models.TargetResult, error) {
	tr := models.TargetResult{
		VendorID: target.VendorID,
		Kind:     target.Kind,
	}

	fmt.Fprintf(p.out, "  Creating: %s\n", target.VendorID)
	res, err := p.backend.CreateLeaderboard(ctx, detailID, target.VendorID, target.ReferenceName)
	if err != nil {
		return tr, err
	}
	tr.HTTPStatus = res.StatusCode

	switch res.Outcome {
	case appstore.OutcomeCreated:
		tr.Status = models.StatusCreated
		tr.LeaderboardID = res.LeaderboardID

		if err := p.backend.AddLocalization(ctx, res.LeaderboardID, p.locale, target.DisplayName); err != nil {
			var apiErr *appstore.APIError
			if !errors.As(err, &apiErr) {
				return tr, err
			}
			slog.Warn("localization failed", "vendor_id", target.VendorID, "name", target.DisplayName, "status", apiErr.StatusCode)
			fmt.Fprintf(p.out, "    localization failed (%d): %s\n", apiErr.StatusCode, target.DisplayName)
			tr.LocalizationError = &models.RunError{
				Type:    models.ErrLocalizationRejected,
				Message: err.Error(),
			}
		}

	case appstore.OutcomeConflict:
		tr.Status = models.StatusSkipped
		slog.Info("leaderboard already exists", "vendor_id", target.VendorID)
		fmt.Fprintf(p.out, "    already exists: %s\n", res.Detail)

	case appstore.OutcomeFailed:
		tr.Status = models.StatusFailed
		errType := models.ErrLeaderboardRejected
		if res.StatusCode == http.StatusCreated {
			errType = models.ErrLeaderboardMissingID
		}
		tr.Error = &models.RunError{Type: errType, Message: res.Detail}
		slog.Warn("leaderboard creation failed", "vendor_id", target.VendorID, "status", res.StatusCode, "detail", res.Detail)
		fmt.Fprintf(p.out, "    failed (%d): %s\n", res.StatusCode, res.Detail)

	default:
		return tr, fmt.Errorf("creating leaderboard %s: unexpected outcome %s", target.VendorID, res.Outcome)
	}

	return tr, nil
}

func sectionTitle(kind models.TargetKind) string {
	switch kind {
	case models.KindLapTime:
		return "Lap Time"
	case models.KindSector:
		return "Sector"
	default:
		return string(kind)
	}
}

// pause waits for d or until ctx is done.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
