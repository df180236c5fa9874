// Package extract implements the extract command: parse drafts and dump
// the result as YAML without touching the CMS.
package extract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/contentops/draft-publisher/internal/publish"
	"github.com/contentops/draft-publisher/pkg/archive"
	"github.com/contentops/draft-publisher/pkg/extractor"
)

// placeholderImages stands in for the media library during dry runs; the
// fragment carries the unresolved name so authors can eyeball it.
type placeholderImages struct{}

func (placeholderImages) ImageBlock(name, alt string) (string, error) {
	return fmt.Sprintf("<!-- wp:image -->\n<figure class=\"wp-block-image\"><img src=\"%s\" alt=\"%s\"/></figure>\n<!-- /wp:image -->\n\n", name, alt), nil
}

// ExtractAction parses the given draft files (or the whole intake
// directory) and prints each parsed post as YAML.
func ExtractAction(c *cli.Context) error {
	logger := publish.NewLogger(c.Bool("quiet"))

	config, err := publish.LoadRunConfig(c)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ext := extractor.New(logger, placeholderImages{}, config.ReportColumnCap)

	files := c.Args().Slice()
	if len(files) == 0 {
		manager, err := archive.NewManager(config.IntakeDir, config.ArchiveDir)
		if err != nil {
			return err
		}
		names, err := manager.Discover()
		if err != nil {
			return err
		}
		for _, name := range names {
			files = append(files, manager.IntakePath(name))
		}
	}
	if len(files) == 0 {
		fmt.Println("No drafts to extract")
		return nil
	}

	failed := 0
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Error("Error reading draft", "file", path, "error", err)
			failed++
			continue
		}

		post, err := ext.Extract(filepath.Base(path), string(data))
		if err != nil {
			logger.Error("Error extracting draft", "file", path, "error", err)
			failed++
			continue
		}

		out, err := yaml.Marshal(post)
		if err != nil {
			logger.Error("Error marshalling YAML", "file", path, "error", err)
			failed++
			continue
		}
		fmt.Printf("--- # %s\n%s", path, out)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d drafts failed extraction", failed, len(files))
	}
	return nil
}
