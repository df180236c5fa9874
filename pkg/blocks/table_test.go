package blocks

import (
	"fmt"
	"strings"
	"testing"
)

func reportTableHTML(rows int) string {
	var sb strings.Builder
	sb.WriteString("<table><tr><td>Left Heading</td><td>Right Heading</td></tr>")
	for i := 1; i <= rows; i++ {
		fmt.Fprintf(&sb, "<tr><td>left %d</td><td>right %d</td></tr>", i, i)
	}
	sb.WriteString("</table>")
	return sb.String()
}

func TestTableConverter_ReportHeadings(t *testing.T) {
	sel := firstNode(t, reportTableHTML(2), "table")

	c := NewTableConverter("objects-reports", 12)
	c.Consume(sel)

	block := c.Block()
	if block.Heading1 != "Left Heading" || block.Heading2 != "Right Heading" {
		t.Errorf("headings = (%q, %q)", block.Heading1, block.Heading2)
	}
	if len(block.Column1) != 2 || len(block.Column2) != 2 {
		t.Fatalf("columns = (%d, %d), want (2, 2)", len(block.Column1), len(block.Column2))
	}
	if block.Column1[0] != "left 1" || block.Column2[1] != "right 2" {
		t.Errorf("column contents wrong: %v / %v", block.Column1, block.Column2)
	}
}

func TestTableConverter_ReportOverflow(t *testing.T) {
	// 15 data rows against a cap of 12: exactly 12 per column, 3 in each
	// overflow sequence.
	sel := firstNode(t, reportTableHTML(15), "table")

	c := NewTableConverter("objects-reports", 12)
	c.Consume(sel)

	block := c.Block()
	if len(block.Column1) != 12 || len(block.Column2) != 12 {
		t.Errorf("columns = (%d, %d), want (12, 12)", len(block.Column1), len(block.Column2))
	}
	if len(block.Overflow1) != 3 || len(block.Overflow2) != 3 {
		t.Errorf("overflow = (%d, %d), want (3, 3)", len(block.Overflow1), len(block.Overflow2))
	}
	if block.Overflow1[0] != "left 13" {
		t.Errorf("Overflow1[0] = %q, want %q", block.Overflow1[0], "left 13")
	}
}

func TestTableConverter_FAQPairs(t *testing.T) {
	html := `<table>
		<tr><td>What is it?</td><td>A <b>tool</b>.</td></tr>
		<tr><td>Is it free?</td><td>Yes, see <a href="https://example.com">pricing</a>.</td></tr>
	</table>`
	sel := firstNode(t, html, "table")

	c := NewTableConverter("faq", 12)
	c.Consume(sel)

	block := c.Block()
	// FAQ has no heading row: the first row is data.
	if len(block.Column1) != 2 || len(block.Column2) != 2 {
		t.Fatalf("columns = (%d, %d), want (2, 2)", len(block.Column1), len(block.Column2))
	}
	if block.Column1[0] != "What is it?" {
		t.Errorf("Column1[0] = %q", block.Column1[0])
	}
	if block.Column2[0] != "A <b>tool</b>." {
		t.Errorf("Column2[0] = %q", block.Column2[0])
	}
	if block.Column2[1] != `Yes, see <a href="https://example.com">pricing</a>.` {
		t.Errorf("Column2[1] = %q", block.Column2[1])
	}
}

func TestTableConverter_Title(t *testing.T) {
	sel := firstNode(t, reportTableHTML(1), "table")

	c := NewTableConverter("objects-reports", 12)
	c.SetTitle("Quarterly Report")
	c.Consume(sel)

	if got := c.Block().Title; got != "Quarterly Report" {
		t.Errorf("Title = %q", got)
	}
}

func TestReport_OverflowRendersCollapsed(t *testing.T) {
	sel := firstNode(t, reportTableHTML(15), "table")
	c := NewTableConverter("objects-reports", 12)
	c.Consume(sel)

	out := Report(c.Block())
	if !strings.Contains(out, "<details class=\"report-overflow\">") {
		t.Error("expected overflow details element in report fragment")
	}
	if !strings.Contains(out, "left 15") || !strings.Contains(out, "right 15") {
		t.Error("overflow items missing from report fragment")
	}
}
