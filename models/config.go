// Package models defines data structures for configuration and extraction.
package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file leaves a knob unset.
const (
	DefaultWorkerCount     = 4
	DefaultReportColumnCap = 12
)

// Config holds runtime configuration for publish runs. File paths and pool
// sizing come from the YAML config file; CMS credentials come from the
// environment (see CMSConfig).
type Config struct {
	IntakeDir  string `yaml:"intake_dir"`
	ArchiveDir string `yaml:"archive_dir"`
	ReportDir  string `yaml:"report_dir"`

	WorkerCount int `yaml:"workers"`

	// Display cap per report-table column; items past it land in the
	// overflow sequence. Kept configurable rather than hard-coded.
	ReportColumnCap int `yaml:"report_column_cap"`

	CMS CMSConfig `yaml:"cms"`
}

// CMSConfig identifies the WordPress instance to publish against.
// Username and application password are intentionally not YAML fields.
type CMSConfig struct {
	BaseURL     string `yaml:"base_url"`
	Username    string `yaml:"-"`
	AppPassword string `yaml:"-"`
}

// LoadConfig reads the YAML config file and applies defaults and
// environment credentials.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.ApplyDefaults()
	return config, nil
}

// ApplyDefaults fills unset fields with defaults and pulls credentials
// from the environment.
func (c *Config) ApplyDefaults() {
	if c.WorkerCount <= 0 {
		c.WorkerCount = DefaultWorkerCount
	}
	if c.ReportColumnCap <= 0 {
		c.ReportColumnCap = DefaultReportColumnCap
	}
	if c.IntakeDir == "" {
		c.IntakeDir = "drafts"
	}
	if c.ArchiveDir == "" {
		c.ArchiveDir = "published"
	}
	if c.ReportDir == "" {
		c.ReportDir = "reports"
	}
	if c.CMS.BaseURL == "" {
		c.CMS.BaseURL = os.Getenv("CMS_BASE_URL")
	}
	c.CMS.Username = os.Getenv("CMS_USERNAME")
	c.CMS.AppPassword = os.Getenv("CMS_APP_PASSWORD")
}
