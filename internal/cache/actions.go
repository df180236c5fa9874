// Package cache implements the cache command group for inspecting and
// clearing the local identity cache.
package cache

import (
	"fmt"

	"github.com/urfave/cli/v2"

	cachepkg "github.com/contentops/draft-publisher/pkg/cache"
)

func open(c *cli.Context) (*cachepkg.DB, error) {
	if path := c.String("cache-db"); path != "" {
		return cachepkg.Open(path)
	}
	return cachepkg.OpenDefault()
}

// ListAction prints every cached identity resolution.
func ListAction(c *cli.Context) error {
	db, err := open(c)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer db.Close()

	entries, err := db.List()
	if err != nil {
		return fmt.Errorf("failed to list cache: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("Identity cache is empty")
		return nil
	}

	fmt.Printf("%-10s %-30s %-10s %s\n", "Kind", "Name", "Remote ID", "Resolved At")
	for _, e := range entries {
		fmt.Printf("%-10s %-30s %-10d %s\n", e.Kind, e.Name, e.RemoteID, e.ResolvedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("\nTotal: %d entries (%s)\n", len(entries), db.Path())
	return nil
}

// ClearAction removes every cached resolution.
func ClearAction(c *cli.Context) error {
	db, err := open(c)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer db.Close()

	n, err := db.Clear()
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	fmt.Printf("Removed %d cached identities\n", n)
	return nil
}
