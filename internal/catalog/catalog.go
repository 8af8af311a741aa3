// Package catalog holds the static list of tracks and derives the
// leaderboards that have to exist for each of them.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"

	"github.com/spachava753/crownprix-leaderboards/internal/models"
)

//go:embed tracks.toml
var embedded embed.FS

// DefaultSectorsPerTrack is used when the catalog file does not set sectors_per_track.
const DefaultSectorsPerTrack = 3

// Catalog is the parsed tracks.toml.
type Catalog struct {
	SectorsPerTrack int            `toml:"sectors_per_track"`
	Tracks          []models.Track `toml:"tracks"`
}

// Default loads the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Load(embedded)
}

// Load loads and validates tracks.toml from the given filesystem.
func Load(fsys fs.FS) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, "tracks.toml")
	if err != nil {
		return nil, fmt.Errorf("reading tracks.toml: %w", err)
	}

	var c Catalog
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, fmt.Errorf("parsing tracks.toml: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := lo.Map(undecoded, func(k toml.Key, _ int) string { return k.String() })
		return nil, fmt.Errorf("parsing tracks.toml: unknown keys: %s", strings.Join(keys, ", "))
	}

	if !md.IsDefined("sectors_per_track") {
		c.SectorsPerTrack = DefaultSectorsPerTrack
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validating tracks.toml: %w", err)
	}

	return &c, nil
}

// Validate checks that every track has an id and a name and that ids are unique.
func (c *Catalog) Validate() error {
	if len(c.Tracks) == 0 {
		return fmt.Errorf("no tracks defined")
	}
	if c.SectorsPerTrack < 1 {
		return fmt.Errorf("sectors_per_track must be positive, got %d", c.SectorsPerTrack)
	}

	for i, t := range c.Tracks {
		if t.ID == "" {
			return fmt.Errorf("tracks[%d]: missing id", i)
		}
		if t.Name == "" {
			return fmt.Errorf("tracks[%d] (%s): missing name", i, t.ID)
		}
		if strings.ContainsAny(t.ID, ". ") {
			return fmt.Errorf("tracks[%d]: id %q must not contain dots or spaces", i, t.ID)
		}
	}

	dups := lo.FindDuplicatesBy(c.Tracks, func(t models.Track) string { return t.ID })
	if len(dups) > 0 {
		return fmt.Errorf("duplicate track id %q", dups[0].ID)
	}

	return nil
}

// Track returns the track with the given id.
func (c *Catalog) Track(id string) (models.Track, bool) {
	return lo.Find(c.Tracks, func(t models.Track) bool { return t.ID == id })
}

// LapTimeTargets returns one lap time target per track, in catalog order.
func (c *Catalog) LapTimeTargets() []models.Target {
	return lo.Map(c.Tracks, func(t models.Track, _ int) models.Target {
		return models.LapTimeTarget(t)
	})
}

// SectorTargets returns the sector targets, grouped by track in catalog order
// and by ascending sector index within a track.
func (c *Catalog) SectorTargets() []models.Target {
	return lo.FlatMap(c.Tracks, func(t models.Track, _ int) []models.Target {
		targets := make([]models.Target, 0, c.SectorsPerTrack)
		for sector := 0; sector < c.SectorsPerTrack; sector++ {
			targets = append(targets, models.SectorTarget(t, sector))
		}
		return targets
	})
}

// Targets returns every lap time target followed by every sector target.
func (c *Catalog) Targets() []models.Target {
	return append(c.LapTimeTargets(), c.SectorTargets()...)
}

// Select returns the targets of the given kind. An empty kind or "all"
// selects everything.
func (c *Catalog) Select(kind models.TargetKind) ([]models.Target, error) {
	switch kind {
	case "", "all":
		return c.Targets(), nil
	case models.KindLapTime:
		return c.LapTimeTargets(), nil
	case models.KindSector:
		return c.SectorTargets(), nil
	default:
		return nil, fmt.Errorf("unknown target kind %q (want all, %s or %s)", kind, models.KindLapTime, models.KindSector)
	}
}
