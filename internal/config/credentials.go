package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/spachava753/crownprix-leaderboards/internal/models"
)

// Environment variables holding the App Store Connect credentials.
const (
	EnvKeyID    = "ASC_KEY_ID"
	EnvIssuerID = "ASC_ISSUER_ID"
	EnvKeyPath  = "ASC_KEY_PATH"
	EnvAppID    = "ASC_APP_ID"
)

var (
	// ErrEnvFileNotFound is returned when the .env file does not exist.
	ErrEnvFileNotFound = errors.New("env file not found")

	// ErrKeyFileNotFound is returned when ASC_KEY_PATH points to a missing file.
	ErrKeyFileNotFound = errors.New("private key file not found")
)

// MissingVarsError lists required variables that are unset after
// reading both the .env file and the process environment.
type MissingVarsError struct {
	Names []string
}

func (e *MissingVarsError) Error() string {
	return fmt.Sprintf("missing env vars: %s", strings.Join(e.Names, ", "))
}

// LoadCredentials reads KEY=value pairs from the .env file at envPath.
// Variables already present in the process environment take precedence
// over the file.
func LoadCredentials(envPath string) (models.Credentials, error) {
	var creds models.Credentials

	if _, err := os.Stat(envPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return creds, fmt.Errorf("%w: %s", ErrEnvFileNotFound, envPath)
		}
		return creds, fmt.Errorf("checking env file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(envPath)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return creds, fmt.Errorf("reading env file %s: %w", envPath, err)
	}
	v.AutomaticEnv()

	creds = models.Credentials{
		KeyID:    strings.TrimSpace(v.GetString(EnvKeyID)),
		IssuerID: strings.TrimSpace(v.GetString(EnvIssuerID)),
		KeyPath:  strings.TrimSpace(v.GetString(EnvKeyPath)),
		AppID:    strings.TrimSpace(v.GetString(EnvAppID)),
	}

	var missing []string
	for _, kv := range []struct{ name, value string }{
		{EnvKeyID, creds.KeyID},
		{EnvIssuerID, creds.IssuerID},
		{EnvKeyPath, creds.KeyPath},
		{EnvAppID, creds.AppID},
	} {
		if kv.value == "" {
			missing = append(missing, kv.name)
		}
	}
	if len(missing) > 0 {
		return creds, &MissingVarsError{Names: missing}
	}

	if _, err := os.Stat(creds.KeyPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return creds, fmt.Errorf("%w: %s", ErrKeyFileNotFound, creds.KeyPath)
		}
		return creds, fmt.Errorf("checking private key file: %w", err)
	}

	return creds, nil
}
