// Package extractor walks a draft's DOM depth-first and builds a parsed
// post: metadata from markers, structured blocks from marker-opened
// scopes, and a linear block-format body from everything else.
package extractor

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/contentops/draft-publisher/models"
	"github.com/contentops/draft-publisher/pkg/blocks"
	"github.com/contentops/draft-publisher/pkg/markers"
)

// ImageResolver turns an image name into a self-contained image block
// fragment. Resolution failure is fatal for the enclosing document.
type ImageResolver interface {
	ImageBlock(name, alt string) (string, error)
}

// Extractor converts draft HTML into parsed posts. Safe for concurrent
// use; all per-document state lives in the walk.
type Extractor struct {
	logger    *slog.Logger
	images    ImageResolver
	columnCap int
}

// New creates an Extractor. columnCap bounds report-table columns.
func New(logger *slog.Logger, images ImageResolver, columnCap int) *Extractor {
	if columnCap <= 0 {
		columnCap = models.DefaultReportColumnCap
	}
	return &Extractor{logger: logger, images: images, columnCap: columnCap}
}

// mode is the extractor's current scope, made explicit so every
// transition and its closure condition is independently testable.
type mode int

const (
	modeNormal mode = iota
	modeInList
	modeInTable
)

// walk holds the mutable state of one document traversal. Nodes are
// tracked in a visited set rather than flagged in place, so the tree
// itself stays untouched.
type walk struct {
	post    *models.ParsedPost
	content strings.Builder

	mode    mode
	list    *blocks.ListConverter
	table   *blocks.TableConverter
	visited map[*html.Node]bool

	// Last generic heading text seen; becomes the title of the next
	// marker-opened table.
	lastHeading string
}

// Extract parses one draft file's HTML and walks it into a ParsedPost.
// The returned post is immutable once extraction succeeds.
func (e *Extractor) Extract(sourceFile, htmlText string) (*models.ParsedPost, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return nil, fmt.Errorf("failed to parse draft HTML: %w", err)
	}

	w := &walk{
		post: &models.ParsedPost{
			SourceFile: sourceFile,
			Lists:      map[string]*models.ListBlock{},
			Tables:     map[string]*models.TableBlock{},
		},
		visited: map[*html.Node]bool{},
	}

	for _, root := range doc.Nodes {
		if err := e.visit(w, root); err != nil {
			return nil, err
		}
	}

	if w.mode != modeNormal {
		e.logger.Warn("Draft ended with an unclosed block scope", "file", sourceFile, "scope", w.scopeName())
	}

	w.post.Content = w.content.String()
	return w.post, nil
}

func (w *walk) scopeName() string {
	switch w.mode {
	case modeInList:
		return w.list.Name()
	case modeInTable:
		return w.table.Name()
	}
	return ""
}

// visit dispatches one node depth-first, pre-order. Every node is seen
// at most once; scope handlers consume whole subtrees through the
// visited set.
func (e *Extractor) visit(w *walk, n *html.Node) error {
	if w.visited[n] {
		return nil
	}
	w.visited[n] = true

	if n.Type == html.ElementNode {
		descend, err := e.dispatch(w, n)
		if err != nil {
			return err
		}
		if !descend {
			markSubtree(w, n)
			return nil
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := e.visit(w, c); err != nil {
			return err
		}
	}
	return nil
}

// dispatch applies the transition rules in strict priority order and
// reports whether the walk should descend into the node's children.
func (e *Extractor) dispatch(w *walk, n *html.Node) (bool, error) {
	// An open scope swallows everything until its container arrives.
	switch w.mode {
	case modeInList:
		if n.Data == "ul" || n.Data == "ol" {
			w.list.Consume(selectionOf(n))
			e.flushList(w)
			return false, nil
		}
		return descendInScope(n), nil
	case modeInTable:
		if n.Data == "table" {
			w.table.Consume(selectionOf(n))
			e.flushTable(w)
			return false, nil
		}
		return descendInScope(n), nil
	}

	sel := selectionOf(n)
	text := strings.TrimSpace(sel.Text())

	// The first h1 is always the title; its subtree never reaches
	// body content.
	if n.Data == "h1" {
		if w.post.Title == "" {
			w.post.Title = blocks.CollapseText(text)
		}
		return false, nil
	}

	if isHeading(n.Data) || n.Data == "p" {
		if m, ok := markers.Parse(text); ok && markerApplies(n, m) {
			return e.applyMarker(w, m)
		}
	}

	// Generic content-bearing elements transcode into body blocks.
	switch n.Data {
	case "p":
		inner := blocks.RenderCell(n)
		if inner != "" {
			w.content.WriteString(blocks.Paragraph(inner))
		}
		return false, nil
	case "h2", "h3", "h4":
		if text != "" {
			w.lastHeading = blocks.CollapseText(text)
			w.content.WriteString(blocks.Heading(headingLevel(n.Data), blocks.RenderCell(n)))
		}
		return false, nil
	case "ul", "ol":
		w.content.WriteString(blocks.List(n.Data == "ol", renderListItems(sel)))
		return false, nil
	case "table":
		w.content.WriteString(blocks.Table(renderTableRows(sel)))
		return false, nil
	}

	// Structural elements (body, div, section, ...) contribute nothing
	// themselves; keep walking.
	return true, nil
}

// descendInScope keeps the walk moving between a block opener and its
// container: structural wrappers are descended so the container stays
// reachable, anything else is swallowed without reaching body content.
func descendInScope(n *html.Node) bool {
	switch n.Data {
	case "html", "head", "body", "main", "article", "section", "div":
		return true
	}
	return false
}

// markerApplies reports whether this node may carry this marker kind.
// Scope openers and metadata only trigger from headings; a marker-shaped
// string elsewhere falls through to generic content handling. The image
// and embed families work from any carrier node.
func markerApplies(n *html.Node, m markers.Marker) bool {
	switch m.Kind {
	case markers.KindImage, markers.KindEmbed:
		return true
	}
	return isHeading(n.Data)
}

func (e *Extractor) applyMarker(w *walk, m markers.Marker) (bool, error) {
	switch m.Kind {
	case markers.KindMeta:
		switch m.Key {
		case markers.KeyAuthor:
			w.post.Author = m.Value
		case markers.KeyURL:
			w.post.Slug = m.Value
		case markers.KeyDescription:
			w.post.Description = m.Value
		}
		return false, nil

	case markers.KindSchema:
		if m.Err != nil {
			e.logger.Warn("Dropping invalid schema markup", "file", w.post.SourceFile, "error", m.Err)
			w.post.SchemaJSON = ""
			return false, nil
		}
		w.post.SchemaJSON = m.Value
		return false, nil

	case markers.KindImage:
		fragment, err := e.images.ImageBlock(m.Name, m.Alt)
		if err != nil {
			return false, fmt.Errorf("failed to resolve image %q: %w", m.Name, err)
		}
		w.content.WriteString(fragment)
		return false, nil

	case markers.KindListOpen:
		w.mode = modeInList
		w.list = blocks.NewListConverter(m.Key)
		return false, nil

	case markers.KindTableOpen:
		w.mode = modeInTable
		w.table = blocks.NewTableConverter(m.Key, e.columnCap)
		w.table.SetTitle(w.lastHeading)
		return false, nil

	case markers.KindEmbed:
		w.content.WriteString(blocks.Embed(m.Value))
		return false, nil
	}
	return true, nil
}

// flushList closes the list scope: tldr renders straight into body
// content, tags/categories become structured blocks.
func (e *Extractor) flushList(w *walk) {
	block := w.list.Block()
	if block.Name == markers.BlockTLDR {
		w.content.WriteString(blocks.Summary(block))
	} else {
		w.post.Lists[block.Name] = block
	}
	w.mode = modeNormal
	w.list = nil
}

// flushTable closes the table scope: the report table renders straight
// into body content, the FAQ becomes a structured block.
func (e *Extractor) flushTable(w *walk) {
	block := w.table.Block()
	if block.Name == markers.BlockReports {
		w.content.WriteString(blocks.Report(block))
	} else {
		w.post.Tables[block.Name] = block
	}
	w.mode = modeNormal
	w.table = nil
}

func markSubtree(w *walk, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.visited[c] = true
		markSubtree(w, c)
	}
}

func selectionOf(n *html.Node) *goquery.Selection {
	return goquery.NewDocumentFromNode(n).Selection
}

func isHeading(tag string) bool {
	return tag == "h2" || tag == "h3" || tag == "h4"
}

func headingLevel(tag string) int {
	switch tag {
	case "h2":
		return 2
	case "h3":
		return 3
	default:
		return 4
	}
}

func renderListItems(list *goquery.Selection) []string {
	var items []string
	list.ChildrenFiltered("li").Each(func(i int, li *goquery.Selection) {
		items = append(items, blocks.RenderCell(li.Nodes[0]))
	})
	return items
}

func renderTableRows(table *goquery.Selection) [][]string {
	var rows [][]string
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		var row []string
		tr.Find("td,th").Each(func(j int, cell *goquery.Selection) {
			row = append(row, blocks.RenderCell(cell.Nodes[0]))
		})
		if len(row) > 0 {
			rows = append(rows, row)
		}
	})
	return rows
}
