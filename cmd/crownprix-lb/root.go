package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/spachava753/crownprix-leaderboards/internal/config"
	"github.com/spachava753/crownprix-leaderboards/internal/models"
	"github.com/spachava753/crownprix-leaderboards/internal/provisioner"
)

const envPrefix = "CPLB"

// errCancelled is returned when a signal interrupted the run. The partial
// summary has already been printed.
var errCancelled = errors.New("run cancelled")

type rootOptions struct {
	envFile  string
	baseURL  string
	locale   string
	delay    time.Duration
	only     string
	report   string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	defaults := config.DefaultRunConfig()

	cmd := &cobra.Command{
		Use:   "crownprix-lb",
		Short: "Provision the Crown Prix Game Center leaderboards",
		Long: `Creates the lap time and sector leaderboards for every track through the
App Store Connect API and attaches a localized display name to each new one.
Leaderboards that already exist are skipped, so the command is safe to re-run.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initConfig(cmd)
			return setupLogging(cmd.ErrOrStderr(), opts.logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProvision(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.envFile, "env-file", ".env",
		"file holding the ASC_* credentials")
	flags.StringVar(&opts.only, "only", "all",
		"leaderboards to provision (all|laptime|sector)")
	flags.StringVar(&opts.logLevel, "log-level", "info",
		"log level (debug|info|warn|error)")

	cmd.Flags().StringVar(&opts.baseURL, "base-url", defaults.BaseURL,
		"App Store Connect API base URL")
	cmd.Flags().StringVar(&opts.locale, "locale", defaults.Locale,
		"locale of the leaderboard display names")
	cmd.Flags().DurationVar(&opts.delay, "delay", defaults.Delay,
		"pause between leaderboards")
	cmd.Flags().StringVar(&opts.report, "report", "",
		"write the run result to this .json or .yaml file")

	cmd.AddCommand(newCatalogCmd(opts))

	return cmd
}

// initConfig lets CPLB_* environment variables supply flags that were not set
// on the command line.
func initConfig(cmd *cobra.Command) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	bindFlags(cmd, v)
}

// Bind each cobra flag to its associated viper configuration (environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --log-level to CPLB_LOG_LEVEL
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v\n", f.Name, err)
			}
		}
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not set flag value for %s: %v\n", f.Name, err)
			}
		}
	})
}

func setupLogging(w io.Writer, level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
	return nil
}

func parseKind(only string) (models.TargetKind, error) {
	switch kind := models.TargetKind(only); kind {
	case "", "all":
		return "", nil
	case models.KindLapTime, models.KindSector:
		return kind, nil
	default:
		return "", fmt.Errorf("invalid --only value %q (want all, %s or %s)", only, models.KindLapTime, models.KindSector)
	}
}

func runProvision(cmd *cobra.Command, opts *rootOptions) error {
	kind, err := parseKind(opts.only)
	if err != nil {
		return err
	}
	if opts.report != "" {
		if err := provisioner.ValidateReportPath(opts.report); err != nil {
			return err
		}
	}

	settings := config.DefaultRunConfig()
	settings.BaseURL = opts.baseURL
	settings.Locale = opts.locale
	settings.Delay = opts.delay
	settings.Only = kind

	out := cmd.OutOrStdout()
	result, err := provisioner.RunFromConfig(cmd.Context(), provisioner.RunOptions{
		EnvPath:  opts.envFile,
		Settings: settings,
		Output:   out,
	})
	if err != nil {
		return err
	}

	printSummary(out, result)

	if opts.report != "" {
		if err := provisioner.WriteReport(opts.report, result); err != nil {
			return err
		}
		slog.Info("wrote run report", "path", opts.report)
	}

	if result.Cancelled {
		return errCancelled
	}
	return nil
}

func printSummary(w io.Writer, result *models.RunResult) {
	fmt.Fprintf(w, "\n=== Summary ===\n")
	if result.Cancelled {
		fmt.Fprintf(w, "  (cancelled after %d of %d)\n", result.Attempted(), result.Expected)
	}
	fmt.Fprintf(w, "  Created:                 %d\n", result.Created)
	fmt.Fprintf(w, "  Skipped (already exist): %d\n", result.Skipped)
	fmt.Fprintf(w, "  Failed:                  %d\n", result.Failed)
	if result.LocalizationsFailed > 0 {
		fmt.Fprintf(w, "  Localizations failed:    %d\n", result.LocalizationsFailed)
	}
	fmt.Fprintf(w, "  Total expected:          %d\n", result.Expected)
	fmt.Fprintf(w, "  Duration:                %.2fs\n", result.TotalDurationSec)
}
