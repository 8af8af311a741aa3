package provisioner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spachava753/crownprix-leaderboards/internal/models"
)

// ValidateReportPath checks that the report format can be derived from path.
func ValidateReportPath(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return nil
	default:
		return fmt.Errorf("unsupported report format %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// WriteReport saves the run result as JSON or YAML depending on the file extension.
func WriteReport(path string, result *models.RunResult) error {
	if err := ValidateReportPath(path); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(result)
	default:
		data, err = json.MarshalIndent(result, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	return nil
}
