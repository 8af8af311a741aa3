package models

import "time"

// Credentials identifies the API key and the app to provision.
type Credentials struct {
	KeyID    string `json:"key_id"`
	IssuerID string `json:"issuer_id"`
	KeyPath  string `json:"key_path"`
	AppID    string `json:"app_id"`
}

// RunConfig is the resolved configuration for a provisioning run.
type RunConfig struct {
	Credentials Credentials   `json:"credentials"`
	BaseURL     string        `json:"base_url"`
	Locale      string        `json:"locale"`
	Delay       time.Duration `json:"delay"`
	TokenTTL    time.Duration `json:"token_ttl"`
	Only        TargetKind    `json:"only,omitempty"` // empty selects every target
}
