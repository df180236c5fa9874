package blocks

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/contentops/draft-publisher/models"
)

// ListConverter accumulates the items of one marker-opened list scope.
// The scope consumes exactly one list container; iterating the container's
// direct items up front makes closure explicit instead of re-deriving it
// from structural containment checks.
type ListConverter struct {
	name  string
	items []string
}

// NewListConverter opens a list scope with the given block name
// (tags, categories, tldr).
func NewListConverter(name string) *ListConverter {
	return &ListConverter{name: name}
}

// Name returns the scope's block name.
func (c *ListConverter) Name() string {
	return c.name
}

// Consume reads every direct item of the list container in document order.
// Nested lists inside an item are flattened into that item's text.
func (c *ListConverter) Consume(list *goquery.Selection) {
	list.ChildrenFiltered("li").Each(func(i int, li *goquery.Selection) {
		text := CollapseText(li.Text())
		if text != "" {
			c.items = append(c.items, text)
		}
	})
}

// Block finalizes the scope into a structured list block.
func (c *ListConverter) Block() *models.ListBlock {
	return &models.ListBlock{Name: c.name, Items: c.items}
}
