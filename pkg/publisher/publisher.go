// Package publisher performs the idempotent create-or-update write for
// one parsed post: identity resolution, payload assembly, and exactly
// one CMS write call.
package publisher

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"

	"github.com/contentops/draft-publisher/models"
	"github.com/contentops/draft-publisher/pkg/wp"
)

// CMS is the post read/write surface of the target system.
type CMS interface {
	FindPost(slug, title string) (*wp.Post, error)
	CreatePost(payload wp.PostPayload) (*wp.Post, error)
	UpdatePost(id int, payload wp.PostPayload) (*wp.Post, error)
}

// IdentityResolver resolves author and taxonomy names to CMS ids.
type IdentityResolver interface {
	ResolveAuthor(name string) (int, error)
	ResolveTerms(taxonomy string, names []string) []int
}

// Publisher upserts parsed posts into the CMS.
type Publisher struct {
	logger   *slog.Logger
	cms      CMS
	resolver IdentityResolver
}

// New creates a Publisher.
func New(logger *slog.Logger, cms CMS, resolver IdentityResolver) *Publisher {
	return &Publisher{logger: logger, cms: cms, resolver: resolver}
}

// Result reports the outcome of one publish.
type Result struct {
	Post    *wp.Post
	Created bool
	Slug    string
}

// Publish upserts one parsed post. When a record with the post's slug
// (or title) already exists it is updated and its current status is
// preserved; otherwise a new record is created as a draft. A human
// always promotes a draft to live content, never this pipeline.
func (p *Publisher) Publish(post *models.ParsedPost) (*Result, error) {
	if err := validatePost(post); err != nil {
		return nil, fmt.Errorf("draft failed validation: %w", err)
	}

	postSlug := post.Slug
	if postSlug == "" {
		normalized, err := slug.Normalize(post.Title)
		if err != nil {
			return nil, fmt.Errorf("failed to derive slug from title %q: %w", post.Title, err)
		}
		postSlug = normalized
		p.logger.Info("Derived slug from title", "file", post.SourceFile, "slug", postSlug)
	}

	authorID, err := p.resolver.ResolveAuthor(post.Author)
	if err != nil {
		return nil, err
	}

	payload := wp.PostPayload{
		Title:      post.Title,
		Slug:       postSlug,
		Author:     authorID,
		Content:    post.Content,
		Tags:       p.resolver.ResolveTerms("tags", post.Tags()),
		Categories: p.resolver.ResolveTerms("categories", post.Categories()),
		ACF:        structuredFields(post),
	}

	existing, err := p.cms.FindPost(postSlug, post.Title)
	if err != nil {
		return nil, fmt.Errorf("existence lookup failed: %w", err)
	}

	if existing != nil {
		// Status intentionally absent from the payload: the server
		// keeps whatever status the record already has.
		updated, err := p.cms.UpdatePost(existing.ID, payload)
		if err != nil {
			return nil, fmt.Errorf("failed to update post %d: %w", existing.ID, err)
		}
		p.logger.Info("Updated existing post", "file", post.SourceFile, "post_id", existing.ID, "status", updated.Status)
		return &Result{Post: updated, Slug: postSlug}, nil
	}

	payload.Status = "draft"
	created, err := p.cms.CreatePost(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	p.logger.Info("Created draft post", "file", post.SourceFile, "post_id", created.ID, "slug", postSlug)
	return &Result{Post: created, Created: true, Slug: postSlug}, nil
}

func validatePost(post *models.ParsedPost) error {
	return validation.ValidateStruct(post,
		validation.Field(&post.Title, validation.Required),
		validation.Field(&post.Author, validation.Required),
	)
}

// structuredFields builds the ACF payload: description, the schema
// toggle (true iff schema markup is present), and the FAQ repeater with
// every entry collapsed by default.
func structuredFields(post *models.ParsedPost) *wp.StructuredFields {
	fields := &wp.StructuredFields{
		Description:   post.Description,
		SchemaEnabled: post.SchemaJSON != "",
		SchemaJSON:    post.SchemaJSON,
	}
	if faq := post.FAQ(); faq != nil {
		for i := range faq.Column1 {
			answer := ""
			if i < len(faq.Column2) {
				answer = faq.Column2[i]
			}
			fields.FAQ = append(fields.FAQ, wp.FAQEntry{
				Question: faq.Column1[i],
				Answer:   answer,
				Open:     false,
			})
		}
	}
	return fields
}
