package models

// ParsedPost is the result of extracting one draft file. It is built
// incrementally during a single tree walk and immutable afterwards.
type ParsedPost struct {
	SourceFile  string                 `yaml:"source_file" json:"source_file"`
	Title       string                 `yaml:"title" json:"title"`
	Author      string                 `yaml:"author" json:"author"`
	Slug        string                 `yaml:"slug,omitempty" json:"slug,omitempty"`
	Description string                 `yaml:"description,omitempty" json:"description,omitempty"`
	SchemaJSON  string                 `yaml:"schema_json,omitempty" json:"schema_json,omitempty"`
	Lists       map[string]*ListBlock  `yaml:"lists,omitempty" json:"lists,omitempty"`
	Tables      map[string]*TableBlock `yaml:"tables,omitempty" json:"tables,omitempty"`
	Content     string                 `yaml:"content" json:"content"`
}

// ListBlock holds an ordered sequence of plain-text items collected from
// a marker-opened <ul>/<ol> (tags, categories, tldr).
type ListBlock struct {
	Name  string   `yaml:"name" json:"name"`
	Items []string `yaml:"items" json:"items"`
}

// TableBlock holds a two-column structure collected from a marker-opened
// <table>. Column1/Column2 are rendered HTML fragments kept in row order.
// Overflow holds items past the display cap for report tables; FAQ tables
// never overflow.
type TableBlock struct {
	Name      string   `yaml:"name" json:"name"`
	Title     string   `yaml:"title,omitempty" json:"title,omitempty"`
	Heading1  string   `yaml:"heading1,omitempty" json:"heading1,omitempty"`
	Heading2  string   `yaml:"heading2,omitempty" json:"heading2,omitempty"`
	Column1   []string `yaml:"column1" json:"column1"`
	Column2   []string `yaml:"column2" json:"column2"`
	Overflow1 []string `yaml:"overflow1,omitempty" json:"overflow1,omitempty"`
	Overflow2 []string `yaml:"overflow2,omitempty" json:"overflow2,omitempty"`
}

// Tags returns the resolvable tag labels, or nil when the draft had none.
func (p *ParsedPost) Tags() []string {
	if b, ok := p.Lists["tags"]; ok {
		return b.Items
	}
	return nil
}

// Categories returns the resolvable category labels.
func (p *ParsedPost) Categories() []string {
	if b, ok := p.Lists["categories"]; ok {
		return b.Items
	}
	return nil
}

// FAQ returns the question/answer table if the draft had one.
func (p *ParsedPost) FAQ() *TableBlock {
	return p.Tables["faq"]
}
