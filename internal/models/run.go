package models

import "time"

// TargetStatus is the classification of a provisioned target.
type TargetStatus string

const (
	StatusCreated TargetStatus = "created"
	StatusSkipped TargetStatus = "skipped"
	StatusFailed  TargetStatus = "failed"
)

// TargetResult contains the outcome of provisioning a single target.
type TargetResult struct {
	VendorID          string       `yaml:"vendor_id" json:"vendor_id"`
	Kind              TargetKind   `yaml:"kind" json:"kind"`
	Status            TargetStatus `yaml:"status" json:"status"`
	LeaderboardID     string       `yaml:"leaderboard_id,omitempty" json:"leaderboard_id,omitempty"`
	HTTPStatus        int          `yaml:"http_status,omitempty" json:"http_status,omitempty"`
	Error             *RunError    `yaml:"error,omitempty" json:"error,omitempty"`
	LocalizationError *RunError    `yaml:"localization_error,omitempty" json:"localization_error,omitempty"`
}

type RunError struct {
	Type    ErrorType `yaml:"type" json:"type"`
	Message string    `yaml:"message" json:"message"`
}

// RunResult contains the aggregate outcome of a provisioning run.
type RunResult struct {
	RunID               string         `yaml:"run_id" json:"run_id"`
	AppID               string         `yaml:"app_id" json:"app_id"`
	GameCenterDetailID  string         `yaml:"game_center_detail_id" json:"game_center_detail_id"`
	Cancelled           bool           `yaml:"cancelled" json:"cancelled"`
	Expected            int            `yaml:"expected" json:"expected"`
	Created             int            `yaml:"created" json:"created"`
	Skipped             int            `yaml:"skipped" json:"skipped"`
	Failed              int            `yaml:"failed" json:"failed"`
	LocalizationsFailed int            `yaml:"localizations_failed" json:"localizations_failed"`
	TotalDurationSec    float64        `yaml:"total_duration_sec" json:"total_duration_sec"`
	StartedAt           time.Time      `yaml:"started_at" json:"started_at"`
	EndedAt             time.Time      `yaml:"ended_at" json:"ended_at"`
	Results             []TargetResult `yaml:"results" json:"results"`
}

// Attempted returns the number of targets that were tried.
func (r *RunResult) Attempted() int {
	return len(r.Results)
}
