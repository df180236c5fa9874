// Package blocks converts marker-opened DOM regions (lists, tables) into
// structured blocks and encodes content into the WordPress block format.
package blocks

import (
	"strings"

	"golang.org/x/net/html"
)

// RenderCell produces a minimal-HTML string for a table cell's content,
// safe to embed inside a block payload. Lists, anchors, and bold re-wrap
// in their own tag; span is transparent; any other element contributes
// only its children.
func RenderCell(n *html.Node) string {
	var sb strings.Builder
	renderNode(&sb, n)
	return strings.TrimSpace(sb.String())
}

func renderNode(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(collapseSpace(n.Data))
		return
	case html.ElementNode:
		switch n.Data {
		case "ul", "ol", "li":
			sb.WriteString("<" + n.Data + ">")
			renderChildren(sb, n)
			sb.WriteString("</" + n.Data + ">")
			return
		case "a":
			href := attrValue(n, "href")
			sb.WriteString(`<a href="` + href + `">`)
			renderChildren(sb, n)
			sb.WriteString("</a>")
			return
		case "b", "strong":
			sb.WriteString("<" + n.Data + ">")
			renderChildren(sb, n)
			sb.WriteString("</" + n.Data + ">")
			return
		}
	}
	renderChildren(sb, n)
}

func renderChildren(sb *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderNode(sb, c)
	}
}

// collapseSpace replaces interior whitespace runs with single spaces while
// keeping one boundary space on either side, so inline siblings do not glue
// together ("foo <b>bar</b>" stays two words).
func collapseSpace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s == "" {
			return ""
		}
		return " "
	}
	out := strings.Join(fields, " ")
	if strings.HasPrefix(s, " ") || strings.HasPrefix(s, "\n") || strings.HasPrefix(s, "\t") {
		out = " " + out
	}
	if strings.HasSuffix(s, " ") || strings.HasSuffix(s, "\n") || strings.HasSuffix(s, "\t") {
		out = out + " "
	}
	return out
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// CollapseText trims and whitespace-collapses plain text for list items.
func CollapseText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
