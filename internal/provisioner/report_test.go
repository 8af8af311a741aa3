package provisioner

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/spachava753/crownprix-leaderboards/internal/models"
)

func sampleResult() *models.RunResult {
	started := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	return &models.RunResult{
		RunID:              "run-1",
		AppID:              "app-1",
		GameCenterDetailID: "gc-1",
		Expected:           2,
		Created:            1,
		Failed:             1,
		StartedAt:          started,
		EndedAt:            started.Add(2 * time.Second),
		TotalDurationSec:   2,
		Results: []models.TargetResult{
			{VendorID: "cp.laptime.monza", Kind: models.KindLapTime, Status: models.StatusCreated, LeaderboardID: "lb-1", HTTPStatus: 201},
			{
				VendorID:   "cp.sector.monza.0",
				Kind:       models.KindSector,
				Status:     models.StatusFailed,
				HTTPStatus: 500,
				Error:      &models.RunError{Type: models.ErrLeaderboardRejected, Message: "boom"},
			},
		},
	}
}

func TestValidateReportPath(t *testing.T) {
	for _, path := range []string{"out.json", "out.yaml", "dir/out.YML"} {
		assert.NoError(t, ValidateReportPath(path), path)
	}
	for _, path := range []string{"out.txt", "out", "out.json.bak"} {
		assert.Error(t, ValidateReportPath(path), path)
	}
}

func TestWriteReport_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run.json")
	require.NoError(t, WriteReport(path, sampleResult()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "gc-1", got["game_center_detail_id"])
	assert.EqualValues(t, 1, got["failed"])

	results := got["results"].([]any)
	require.Len(t, results, 2)
	failed := results[1].(map[string]any)
	assert.Equal(t, "failed", failed["status"])
	assert.Equal(t, "leaderboard_rejected", failed["error"].(map[string]any)["type"])
	assert.NotContains(t, results[0].(map[string]any), "error")
}

func TestWriteReport_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, WriteReport(path, sampleResult()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got models.RunResult
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, 1, got.Created)
	require.Len(t, got.Results, 2)
	assert.Equal(t, models.KindSector, got.Results[1].Kind)
}

func TestWriteReport_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.csv")
	require.Error(t, WriteReport(path, sampleResult()))
	assert.NoFileExists(t, path)
}
