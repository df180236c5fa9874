// Package resolver maps human-readable names from drafts (author display
// names, taxonomy term labels, image file names) to CMS identifiers via
// read-only search calls, with a local read-through cache.
package resolver

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/contentops/draft-publisher/pkg/blocks"
	"github.com/contentops/draft-publisher/pkg/cache"
	"github.com/contentops/draft-publisher/pkg/wp"
)

// Sentinel errors for the fatal-per-document resolution failures.
var (
	ErrAuthorNotFound = errors.New("author not found")
	ErrImageNotFound  = errors.New("image not found")
)

// Searcher is the read-only CMS surface the resolver needs.
type Searcher interface {
	SearchUsers(name string) ([]wp.User, error)
	SearchTerms(taxonomy, name string) ([]wp.Term, error)
	SearchMedia(name string) ([]wp.Media, error)
}

// Resolver resolves names against the CMS. The cache is optional; with
// a nil cache every resolution goes to the CMS.
type Resolver struct {
	logger *slog.Logger
	cms    Searcher
	cache  *cache.DB
}

// New creates a Resolver. db may be nil to disable caching.
func New(logger *slog.Logger, cms Searcher, db *cache.DB) *Resolver {
	return &Resolver{logger: logger, cms: cms, cache: db}
}

// ResolveAuthor returns the CMS user id for an author display name.
// Zero matches is fatal for the enclosing document.
func (r *Resolver) ResolveAuthor(name string) (int, error) {
	if entry, ok := r.cached(cache.KindAuthor, name); ok {
		return entry.RemoteID, nil
	}

	users, err := r.cms.SearchUsers(name)
	if err != nil {
		return 0, fmt.Errorf("author lookup for %q failed: %w", name, err)
	}
	if len(users) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrAuthorNotFound, name)
	}

	r.store(cache.Entry{Kind: cache.KindAuthor, Name: name, RemoteID: users[0].ID})
	return users[0].ID, nil
}

// ResolveTerms resolves taxonomy term labels to ids. A term that fails
// to resolve is dropped and logged; the rest of the batch still counts.
// taxonomy is "tags" or "categories".
func (r *Resolver) ResolveTerms(taxonomy string, names []string) []int {
	kind := cache.KindTag
	if taxonomy == "categories" {
		kind = cache.KindCategory
	}

	ids := make([]int, 0, len(names))
	for _, name := range names {
		if entry, ok := r.cached(kind, name); ok {
			ids = append(ids, entry.RemoteID)
			continue
		}

		terms, err := r.cms.SearchTerms(taxonomy, name)
		if err != nil {
			r.logger.Warn("Dropping term after failed lookup", "taxonomy", taxonomy, "term", name, "error", err)
			continue
		}
		if len(terms) == 0 {
			r.logger.Warn("Dropping unknown term", "taxonomy", taxonomy, "term", name)
			continue
		}

		r.store(cache.Entry{Kind: kind, Name: name, RemoteID: terms[0].ID})
		ids = append(ids, terms[0].ID)
	}
	return ids
}

// ImageBlock resolves an image name against the media library and
// returns a self-contained image block fragment. The explicit alt text
// from the marker wins over the library's stored alt text. No match or
// a transport error is fatal for the enclosing document.
func (r *Resolver) ImageBlock(name, alt string) (string, error) {
	if entry, ok := r.cached(cache.KindMedia, name); ok {
		return blocks.Image(entry.RemoteID, entry.SourceURL, pickAlt(alt, entry.AltText)), nil
	}

	media, err := r.cms.SearchMedia(name)
	if err != nil {
		return "", fmt.Errorf("media lookup for %q failed: %w", name, err)
	}
	if len(media) == 0 {
		return "", fmt.Errorf("%w: %q", ErrImageNotFound, name)
	}

	m := media[0]
	r.store(cache.Entry{Kind: cache.KindMedia, Name: name, RemoteID: m.ID, SourceURL: m.SourceURL, AltText: m.AltText})
	return blocks.Image(m.ID, m.SourceURL, pickAlt(alt, m.AltText)), nil
}

func pickAlt(explicit, stored string) string {
	if explicit != "" {
		return explicit
	}
	return stored
}

func (r *Resolver) cached(kind, name string) (*cache.Entry, bool) {
	if r.cache == nil {
		return nil, false
	}
	entry, found, err := r.cache.Get(kind, name)
	if err != nil {
		r.logger.Warn("Identity cache read failed", "kind", kind, "name", name, "error", err)
		return nil, false
	}
	return entry, found
}

func (r *Resolver) store(entry cache.Entry) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Put(entry); err != nil {
		r.logger.Warn("Identity cache write failed", "kind", entry.Kind, "name", entry.Name, "error", err)
	}
}
