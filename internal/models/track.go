package models

import "fmt"

// Track represents a race track from the embedded catalog.
type Track struct {
	ID      string `toml:"id" yaml:"id" json:"id"`
	Name    string `toml:"name" yaml:"name" json:"name"`
	Country string `toml:"country,omitempty" yaml:"country,omitempty" json:"country,omitempty"`
}

// TargetKind distinguishes lap time leaderboards from sector leaderboards.
type TargetKind string

const (
	KindLapTime TargetKind = "laptime"
	KindSector  TargetKind = "sector"
)

// Target is a single leaderboard to provision, derived from a Track.
type Target struct {
	Kind          TargetKind `yaml:"kind" json:"kind"`
	TrackID       string     `yaml:"track_id" json:"track_id"`
	Sector        int        `yaml:"sector,omitempty" json:"sector,omitempty"` // 0-based, sector targets only
	VendorID      string     `yaml:"vendor_id" json:"vendor_id"`
	ReferenceName string     `yaml:"reference_name" json:"reference_name"`
	DisplayName   string     `yaml:"display_name" json:"display_name"`
}

// String returns the vendor identifier.
func (t Target) String() string {
	return t.VendorID
}

// LapTimeTarget derives the lap time leaderboard for a track.
func LapTimeTarget(track Track) Target {
	return Target{
		Kind:          KindLapTime,
		TrackID:       track.ID,
		VendorID:      fmt.Sprintf("cp.laptime.%s", track.ID),
		ReferenceName: fmt.Sprintf("Lap Time - %s", track.Name),
		DisplayName:   track.Name,
	}
}

// SectorTarget derives the leaderboard for a zero-based sector of a track.
// Vendor identifiers keep the zero-based index; names shown to players are 1-based.
func SectorTarget(track Track, sector int) Target {
	return Target{
		Kind:          KindSector,
		TrackID:       track.ID,
		Sector:        sector,
		VendorID:      fmt.Sprintf("cp.sector.%s.%d", track.ID, sector),
		ReferenceName: fmt.Sprintf("Sector %d - %s", sector+1, track.Name),
		DisplayName:   fmt.Sprintf("%s S%d", track.Name, sector+1),
	}
}
