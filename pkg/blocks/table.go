package blocks

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/contentops/draft-publisher/models"
)

// TableConverter accumulates one marker-opened table scope. It handles
// both shapes sharing this state machine: the two-column report table
// (first row holds column headings, per-column display cap with overflow)
// and the FAQ pair table (all rows are data).
type TableConverter struct {
	name      string
	isReport  bool
	columnCap int

	columnCount int
	current     int // 0 = column1, 1 = column2

	block models.TableBlock
}

// NewTableConverter opens a table scope. columnCap bounds each report
// column; items past it are diverted to that column's overflow sequence.
func NewTableConverter(name string, columnCap int) *TableConverter {
	if columnCap <= 0 {
		columnCap = models.DefaultReportColumnCap
	}
	return &TableConverter{
		name:      name,
		isReport:  name == "objects-reports",
		columnCap: columnCap,
		block:     models.TableBlock{Name: name},
	}
}

// Name returns the scope's block name.
func (c *TableConverter) Name() string {
	return c.name
}

// SetTitle records the title captured from the heading preceding the table.
func (c *TableConverter) SetTitle(title string) {
	c.block.Title = title
}

// Consume reads every row of the table container in document order.
// The first data row resolves the column count; for report tables its
// first two cells become column headings rather than data.
func (c *TableConverter) Consume(table *goquery.Selection) {
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		cells := tr.Find("td,th")
		if cells.Length() == 0 {
			return
		}

		if c.columnCount == 0 {
			c.columnCount = cells.Length()
			if c.isReport {
				// Heading row, not data.
				cells.Each(func(j int, cell *goquery.Selection) {
					switch j {
					case 0:
						c.block.Heading1 = CollapseText(cell.Text())
					case 1:
						c.block.Heading2 = CollapseText(cell.Text())
					}
				})
				return
			}
		}

		cells.Each(func(j int, cell *goquery.Selection) {
			c.appendCell(RenderCell(cell.Nodes[0]))
		})
	})
}

func (c *TableConverter) appendCell(content string) {
	col := c.current
	if c.columnCount > 1 {
		c.current = (c.current + 1) % 2
	}

	if col == 0 {
		if c.isReport && content != "" && len(c.block.Column1) >= c.columnCap {
			c.block.Overflow1 = append(c.block.Overflow1, content)
			return
		}
		c.block.Column1 = append(c.block.Column1, content)
		return
	}
	if c.isReport && content != "" && len(c.block.Column2) >= c.columnCap {
		c.block.Overflow2 = append(c.block.Overflow2, content)
		return
	}
	c.block.Column2 = append(c.block.Column2, content)
}

// Block finalizes the scope into a structured table block.
func (c *TableConverter) Block() *models.TableBlock {
	return &c.block
}
