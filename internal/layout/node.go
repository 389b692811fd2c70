// Package layout builds renderer-agnostic layout trees for the two document
// shapes Fehu supports (generic report, invoice).
//
// A layout tree is a closed tagged variant: every node carries exactly one
// payload matching its Kind, and the render engine switches over Kind
// exhaustively. Trees are constructed per render and discarded; they carry
// no behavior beyond the lazy header/footer generators.
package layout

// Kind discriminates the node variants.
type Kind int

const (
	KindText Kind = iota
	KindTable
	KindImage
	KindColumns
	KindPageBreak
	KindList
)

// Alignment values for text and cells.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// Margin is a left/top/right/bottom 4-tuple in points.
type Margin [4]float64

// Style describes how a node (or cell) is drawn. Styles are referenced by
// name from a StyleSheet; node-level fields override the referenced style.
type Style struct {
	FontSize  float64
	Bold      bool
	Italic    bool
	Alignment Alignment
	Margin    Margin
}

// StyleSheet maps style names to styles.
type StyleSheet map[string]Style

// Cell is one table cell.
type Cell struct {
	Text  string
	Style string
	Align Alignment
}

// Table carries a fixed header row plus ordered body rows. Widths are
// relative weights; the renderer scales them to the printable width.
type Table struct {
	Widths  []float64
	Header  []Cell
	Rows    [][]Cell
	Borders bool
}

// Image is an inline image payload (data URI) with a target width in points.
type Image struct {
	DataURI string
	Width   float64
}

// Column is one column of a Columns node. Width 0 means "take the rest".
type Column struct {
	Width float64
	Nodes []Node
}

// ListItem is one bullet with optional nested sub-bullets.
type ListItem struct {
	Text     string
	Children []string
}

// Node is the tagged variant. Exactly the payload matching Kind is set.
type Node struct {
	Kind   Kind
	Style  string
	Align  Alignment
	Margin Margin

	Text    string
	Table   *Table
	Image   *Image
	Columns []Column
	List    []ListItem
}

// PageFunc lazily produces a header or footer node for a given page. It is
// evaluated by the render engine during pagination, once per page.
type PageFunc func(page, pages int) *Node

// Document is a complete layout tree ready for rendering.
type Document struct {
	Title      string
	Content    []Node
	Header     PageFunc
	Footer     PageFunc
	Styles     StyleSheet
	Default    Style
	PageMargin Margin
}

// Resolve returns the named style merged under the document default.
// Unknown names fall back to the default style.
func (d *Document) Resolve(name string) Style {
	s := d.Default
	ref, ok := d.Styles[name]
	if !ok {
		return s
	}
	if ref.FontSize != 0 {
		s.FontSize = ref.FontSize
	}
	s.Bold = ref.Bold
	s.Italic = ref.Italic
	if ref.Alignment != "" {
		s.Alignment = ref.Alignment
	}
	s.Margin = ref.Margin
	return s
}
