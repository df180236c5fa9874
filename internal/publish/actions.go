// Package publish implements the publish command: the two-phase batch
// that extracts intake drafts in parallel and publishes them serially.
package publish

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/contentops/draft-publisher/models"
	"github.com/contentops/draft-publisher/pkg/archive"
	"github.com/contentops/draft-publisher/pkg/cache"
	"github.com/contentops/draft-publisher/pkg/extractor"
	"github.com/contentops/draft-publisher/pkg/publisher"
	"github.com/contentops/draft-publisher/pkg/resolver"
	"github.com/contentops/draft-publisher/pkg/wp"
)

// NewLogger builds the JSON logger shared by all commands.
func NewLogger(quiet bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if quiet {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// LoadRunConfig loads the YAML config and applies CLI flag overrides.
// A missing config file is only an error when --config was given
// explicitly; otherwise the built-in defaults apply.
func LoadRunConfig(c *cli.Context) (*models.Config, error) {
	var config *models.Config
	path := c.String("config")
	if _, err := os.Stat(path); err == nil || c.IsSet("config") {
		loaded, err := models.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	} else {
		config = &models.Config{}
		config.ApplyDefaults()
	}

	if c.IsSet("intake-dir") {
		config.IntakeDir = c.String("intake-dir")
	}
	if c.IsSet("archive-dir") {
		config.ArchiveDir = c.String("archive-dir")
	}
	if c.IsSet("workers") {
		config.WorkerCount = c.Int("workers")
	}
	if c.IsSet("base-url") {
		config.CMS.BaseURL = c.String("base-url")
	}
	return config, nil
}

// PublishAction runs one full batch.
func PublishAction(c *cli.Context) error {
	logger := NewLogger(c.Bool("quiet"))

	config, err := LoadRunConfig(c)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}
	if config.CMS.BaseURL == "" {
		logger.Error("no CMS base URL configured; set cms.base_url or CMS_BASE_URL")
		os.Exit(2)
	}

	// A missing intake directory aborts the run before any work starts.
	manager, err := archive.NewManager(config.IntakeDir, config.ArchiveDir)
	if err != nil {
		logger.Error("failed to initialize file lifecycle", "error", err)
		os.Exit(2)
	}

	var identityCache *cache.DB
	if !c.Bool("no-cache") {
		identityCache, err = cache.Open(c.String("cache-db"))
		if err != nil {
			logger.Warn("running without identity cache", "error", err)
		} else {
			defer identityCache.Close()
		}
	}

	client := wp.NewClient(config.CMS.BaseURL, config.CMS.Username, config.CMS.AppPassword)
	ids := resolver.New(logger, client, identityCache)
	ext := extractor.New(logger, ids, config.ReportColumnCap)
	pub := publisher.New(logger, client, ids)

	files, err := manager.Discover()
	if err != nil {
		logger.Error("failed to discover intake files", "error", err)
		os.Exit(2)
	}
	if len(files) == 0 {
		fmt.Println("No drafts pending in", config.IntakeDir)
		return nil
	}

	results := Run(logger, config, ext, pub, manager, files)

	reportPath, err := WriteReport(config.ReportDir, results)
	if err != nil {
		logger.Error("failed to write run report", "error", err)
	} else {
		fmt.Printf("Run report saved to: %s\n", reportPath)
	}

	published, failed := 0, 0
	for _, r := range results {
		if r.Failed() {
			failed++
			fmt.Printf("  FAILED    %s (%s)\n", r.FileName, r.ErrorType)
		} else {
			published++
			fmt.Printf("  PUBLISHED %s (post %d)\n", r.FileName, r.PostID)
		}
	}
	fmt.Printf("Batch complete: %d published, %d failed, %d total\n", published, failed, len(results))
	return nil
}
