package main

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/spachava753/crownprix-leaderboards/internal/config"
	"github.com/spachava753/crownprix-leaderboards/internal/models"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		config.EnvKeyID, config.EnvIssuerID, config.EnvKeyPath, config.EnvAppID,
		"CPLB_ONLY", "CPLB_DELAY", "CPLB_ENV_FILE", "CPLB_LOG_LEVEL",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestCatalogCmd_Text(t *testing.T) {
	clearEnv(t)
	out, err := execute(t, "catalog")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 97)
	assert.True(t, strings.HasPrefix(lines[0], "KIND"))
	assert.Contains(t, lines[1], "cp.laptime.albertpark")
	assert.Contains(t, lines[96], "cp.sector.abudhabi.2")
}

func TestCatalogCmd_YAMLOnly(t *testing.T) {
	clearEnv(t)
	out, err := execute(t, "catalog", "--format", "yaml", "--only", "laptime")
	require.NoError(t, err)

	var targets []models.Target
	require.NoError(t, yaml.Unmarshal([]byte(out), &targets))
	assert.Len(t, targets, 24)
	for _, target := range targets {
		assert.Equal(t, models.KindLapTime, target.Kind)
	}
}

func TestCatalogCmd_EnvOverridesFlagDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("CPLB_ONLY", "sector")

	out, err := execute(t, "catalog", "--format", "yaml")
	require.NoError(t, err)

	var targets []models.Target
	require.NoError(t, yaml.Unmarshal([]byte(out), &targets))
	assert.Len(t, targets, 72)
}

func TestCatalogCmd_Errors(t *testing.T) {
	clearEnv(t)

	_, err := execute(t, "catalog", "--format", "csv")
	assert.ErrorContains(t, err, "unknown format")

	_, err = execute(t, "catalog", "--only", "pitstop")
	assert.ErrorContains(t, err, "invalid --only")
}

func TestRootCmd_Preconditions(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	_, err := execute(t, "--env-file", filepath.Join(dir, ".env"))
	assert.ErrorIs(t, err, config.ErrEnvFileNotFound)

	_, err = execute(t, "--env-file", filepath.Join(dir, ".env"), "--report", "run.csv")
	assert.ErrorContains(t, err, "unsupported report format")

	_, err = execute(t, "--log-level", "loud")
	assert.ErrorContains(t, err, "invalid log level")
}

func writeEnv(t *testing.T, dir string) string {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	keyPath := filepath.Join(dir, "AuthKey.p8")
	require.NoError(t, os.WriteFile(keyPath, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), 0600))

	envPath := filepath.Join(dir, ".env")
	env := "ASC_KEY_ID=KEY1\nASC_ISSUER_ID=issuer\nASC_KEY_PATH=" + keyPath + "\nASC_APP_ID=app-1\n"
	require.NoError(t, os.WriteFile(envPath, []byte(env), 0600))
	return envPath
}

func TestRootCmd_RerunSkipsEverything(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envPath := writeEnv(t, dir)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet:
			io.WriteString(w, `{"data":{"type":"gameCenterDetails","id":"gc-1"}}`)
		case r.URL.Path == "/gameCenterLeaderboards":
			w.WriteHeader(http.StatusConflict)
			io.WriteString(w, `{"errors":[{"status":"409","detail":"vendorIdentifier already used"}]}`)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	reportPath := filepath.Join(dir, "out", "run.yaml")
	out, err := execute(t,
		"--env-file", envPath,
		"--base-url", srv.URL,
		"--delay", "0s",
		"--report", reportPath,
	)
	require.NoError(t, err)

	assert.Contains(t, out, "Skipped (already exist): 96")
	assert.Contains(t, out, "Total expected:          96")
	assert.NotContains(t, out, "Localizations failed")

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var result models.RunResult
	require.NoError(t, yaml.Unmarshal(data, &result))
	assert.Equal(t, "gc-1", result.GameCenterDetailID)
	assert.Equal(t, 96, result.Skipped)
}

func TestPrintSummary_Cancelled(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, &models.RunResult{
		Cancelled: true,
		Expected:  96,
		Created:   3,
		Results:   make([]models.TargetResult, 3),
	})
	assert.Contains(t, buf.String(), "(cancelled after 3 of 96)")
	assert.Contains(t, buf.String(), "Created:                 3")
}
