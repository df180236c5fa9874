// Package markers recognizes the inline marker vocabulary embedded in
// draft headings: post-tag metadata, block openers, and content directives.
package markers

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	postTagPrefix = "post-tag:"
	blockPrefix   = "block:"
	imagePrefix   = "content:image:"
	embedPrefix   = "block:youtube-embed:"
)

// Metadata keys accepted after "post-tag:".
const (
	KeyAuthor      = "author"
	KeyURL         = "url"
	KeyDescription = "description"
	KeySchema      = "schema"
	KeyTags        = "tags"
	KeyCategories  = "categories"
)

// Block names accepted after "block:".
const (
	BlockTLDR    = "tldr"
	BlockFAQ     = "faq"
	BlockReports = "objects-reports"
)

// Kind classifies a recognized marker.
type Kind int

const (
	KindMeta      Kind = iota // scalar metadata field (author, url, description)
	KindSchema                // structured-data JSON payload
	KindListOpen              // opens a list scope (tags, categories, tldr)
	KindTableOpen             // opens a table scope (faq, objects-reports)
	KindImage                 // inline image directive
	KindEmbed                 // inline video embed
)

// Marker is the typed result of recognizing one marker string.
type Marker struct {
	Kind  Kind
	Key   string // metadata key, or scope name for list/table openers
	Value string // metadata value, schema JSON, or embed URL
	Name  string // image name
	Alt   string // explicit image alt text, may be empty
	Err   error  // recoverable diagnostic (invalid schema JSON)
}

// Parse recognizes one of the marker families in a node's text content.
// The second return is false when the text is not a marker at all;
// unrecognized keys and block names are treated as non-markers so the
// node falls through to generic content handling.
func Parse(text string) (Marker, bool) {
	text = strings.TrimSpace(text)

	switch {
	case strings.HasPrefix(text, imagePrefix):
		return parseImage(text[len(imagePrefix):])
	case strings.HasPrefix(text, embedPrefix):
		url := strings.TrimSpace(text[len(embedPrefix):])
		if url == "" {
			return Marker{}, false
		}
		return Marker{Kind: KindEmbed, Value: url}, true
	case strings.HasPrefix(text, blockPrefix):
		return parseBlock(text[len(blockPrefix):])
	case strings.HasPrefix(text, postTagPrefix):
		return parsePostTag(text[len(postTagPrefix):])
	}
	return Marker{}, false
}

func parsePostTag(rest string) (Marker, bool) {
	key, value, found := strings.Cut(rest, ":")
	if !found {
		return Marker{}, false
	}
	key = strings.TrimSpace(key)

	switch key {
	case KeyAuthor, KeyURL, KeyDescription:
		return Marker{Kind: KindMeta, Key: key, Value: strings.TrimSpace(value)}, true
	case KeyTags, KeyCategories:
		// The value is empty by convention; the marker only announces
		// that the next list element holds the terms.
		return Marker{Kind: KindListOpen, Key: key}, true
	case KeySchema:
		// Everything after the second colon is one JSON object literal,
		// greedy to the end of the node text.
		raw := strings.TrimSpace(value)
		if !json.Valid([]byte(raw)) {
			return Marker{
				Kind: KindSchema,
				Key:  KeySchema,
				Err:  fmt.Errorf("invalid schema JSON: %.40q", raw),
			}, true
		}
		return Marker{Kind: KindSchema, Key: KeySchema, Value: raw}, true
	}
	return Marker{}, false
}

func parseBlock(rest string) (Marker, bool) {
	name := strings.TrimSpace(rest)
	switch name {
	case BlockTLDR:
		return Marker{Kind: KindListOpen, Key: name}, true
	case BlockFAQ, BlockReports:
		return Marker{Kind: KindTableOpen, Key: name}, true
	}
	return Marker{}, false
}

func parseImage(rest string) (Marker, bool) {
	name, alt, _ := strings.Cut(rest, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return Marker{}, false
	}
	return Marker{Kind: KindImage, Name: name, Alt: strings.TrimSpace(alt)}, true
}
