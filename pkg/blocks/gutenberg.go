package blocks

import (
	"fmt"
	"html"
	"strings"

	"github.com/contentops/draft-publisher/models"
)

// Encoders for the comment-delimited WordPress block format. Each fragment
// is self-contained and ends with a blank line so fragments concatenate
// into a valid post body.

// Paragraph encodes one paragraph block. inner is already-rendered HTML.
func Paragraph(inner string) string {
	return fmt.Sprintf("<!-- wp:paragraph -->\n<p>%s</p>\n<!-- /wp:paragraph -->\n\n", inner)
}

// Heading encodes one heading block for levels 2-4.
func Heading(level int, inner string) string {
	if level == 2 {
		return fmt.Sprintf("<!-- wp:heading -->\n<h2 class=\"wp-block-heading\">%s</h2>\n<!-- /wp:heading -->\n\n", inner)
	}
	return fmt.Sprintf("<!-- wp:heading {\"level\":%d} -->\n<h%d class=\"wp-block-heading\">%s</h%d>\n<!-- /wp:heading -->\n\n",
		level, level, inner, level)
}

// List encodes one list block from already-rendered item fragments.
func List(ordered bool, items []string) string {
	tag := "ul"
	attrs := ""
	if ordered {
		tag = "ol"
		attrs = ` {"ordered":true}`
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "<!-- wp:list%s -->\n<%s>", attrs, tag)
	for _, item := range items {
		sb.WriteString("<li>" + item + "</li>")
	}
	fmt.Fprintf(&sb, "</%s>\n<!-- /wp:list -->\n\n", tag)
	return sb.String()
}

// Table encodes one generic table block from already-rendered cell rows.
func Table(rows [][]string) string {
	var sb strings.Builder
	sb.WriteString("<!-- wp:table -->\n<figure class=\"wp-block-table\"><table><tbody>")
	for _, row := range rows {
		sb.WriteString("<tr>")
		for _, cell := range row {
			sb.WriteString("<td>" + cell + "</td>")
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</tbody></table></figure>\n<!-- /wp:table -->\n\n")
	return sb.String()
}

// Image encodes one resolved image block.
func Image(id int, sourceURL, alt string) string {
	return fmt.Sprintf("<!-- wp:image {\"id\":%d,\"sizeSlug\":\"large\"} -->\n"+
		"<figure class=\"wp-block-image size-large\"><img src=\"%s\" alt=\"%s\" class=\"wp-image-%d\"/></figure>\n"+
		"<!-- /wp:image -->\n\n",
		id, sourceURL, html.EscapeString(alt), id)
}

// Embed encodes one video embed block referencing the URL directly.
func Embed(url string) string {
	return fmt.Sprintf("<!-- wp:embed {\"url\":\"%s\",\"type\":\"video\",\"providerNameSlug\":\"youtube\"} -->\n"+
		"<figure class=\"wp-block-embed is-type-video is-provider-youtube wp-block-embed-youtube\">"+
		"<div class=\"wp-block-embed__wrapper\">\n%s\n</div></figure>\n<!-- /wp:embed -->\n\n",
		url, url)
}

// Summary encodes the tldr list as a pre-rendered body fragment.
func Summary(block *models.ListBlock) string {
	var sb strings.Builder
	sb.WriteString("<!-- wp:html -->\n<div class=\"post-summary\"><ul>")
	for _, item := range block.Items {
		sb.WriteString("<li>" + html.EscapeString(item) + "</li>")
	}
	sb.WriteString("</ul></div>\n<!-- /wp:html -->\n\n")
	return sb.String()
}

// Report encodes the two-column report table as a pre-rendered body
// fragment. Overflow items render inside a collapsed details element.
func Report(block *models.TableBlock) string {
	var sb strings.Builder
	sb.WriteString("<!-- wp:html -->\n<div class=\"objects-report\">")
	if block.Title != "" {
		sb.WriteString("<h2>" + html.EscapeString(block.Title) + "</h2>")
	}
	writeReportColumn(&sb, block.Heading1, block.Column1, block.Overflow1)
	writeReportColumn(&sb, block.Heading2, block.Column2, block.Overflow2)
	sb.WriteString("</div>\n<!-- /wp:html -->\n\n")
	return sb.String()
}

func writeReportColumn(sb *strings.Builder, heading string, items, overflow []string) {
	sb.WriteString(`<div class="report-column">`)
	if heading != "" {
		sb.WriteString("<h3>" + html.EscapeString(heading) + "</h3>")
	}
	sb.WriteString("<ul>")
	for _, item := range items {
		sb.WriteString("<li>" + item + "</li>")
	}
	sb.WriteString("</ul>")
	if len(overflow) > 0 {
		sb.WriteString(`<details class="report-overflow"><summary>More</summary><ul>`)
		for _, item := range overflow {
			sb.WriteString("<li>" + item + "</li>")
		}
		sb.WriteString("</ul></details>")
	}
	sb.WriteString("</div>")
}
