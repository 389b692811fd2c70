package render

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/jung-kurt/gofpdf"

	"github.com/starford/fehu/internal/checksum"
	"github.com/starford/fehu/internal/layout"
	"github.com/starford/fehu/internal/scancode"
)

const (
	customFamily = "DocFont"
	coreFamily   = "Helvetica"

	// streamChunkSize is the size of the chunks emitted on the render stream.
	streamChunkSize = 32 << 10
)

// PDFEngine renders layout trees to PDF via gofpdf.
type PDFEngine struct {
	fonts     FontSet
	useCustom bool
	logger    *slog.Logger
}

// NewPDFEngine resolves the font set once and returns an engine. Missing
// font files degrade to the built-in core family with a warning.
func NewPDFEngine(fonts FontSet, logger *slog.Logger) *PDFEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFEngine{
		fonts:     fonts,
		useCustom: fonts.Complete(logger),
		logger:    logger,
	}
}

// Render implements Engine. The PDF is fully built before the first chunk
// is emitted; the stream then delivers it in fixed-size pieces.
func (e *PDFEngine) Render(ctx context.Context, doc *layout.Document) (<-chan Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("render: nil document")
	}

	out := make(chan Chunk)
	go func() {
		defer close(out)
		data, err := e.renderBytes(doc)
		if err != nil {
			select {
			case out <- Chunk{Err: err}:
			case <-ctx.Done():
			}
			return
		}
		for off := 0; off < len(data); off += streamChunkSize {
			end := off + streamChunkSize
			if end > len(data) {
				end = len(data)
			}
			select {
			case out <- Chunk{Data: data[off:end]}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// renderBytes builds the document twice: the first pass only counts pages so
// that the lazy header/footer generators can be handed the real total.
func (e *PDFEngine) renderBytes(doc *layout.Document) ([]byte, error) {
	probe, err := e.build(doc, 0)
	if err != nil {
		return nil, err
	}
	pdf, err := e.build(doc, probe.PageCount())
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render: output: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFEngine) build(doc *layout.Document, pages int) (*gofpdf.Fpdf, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetTitle(doc.Title, true)

	family := coreFamily
	if e.useCustom {
		family = customFamily
		for style, path := range e.fonts.variants() {
			pdf.AddUTF8Font(customFamily, style, path)
		}
	}

	d := &drawer{pdf: pdf, doc: doc, family: family}

	m := doc.PageMargin
	pdf.SetMargins(m[0], m[1], m[2])
	pdf.SetAutoPageBreak(true, m[3])

	if doc.Header != nil {
		pdf.SetHeaderFunc(func() {
			if n := doc.Header(pdf.PageNo(), pages); n != nil {
				d.drawNode(*n, 0)
				if y := pdf.GetY(); y < m[1] {
					pdf.SetY(m[1])
				}
			}
		})
	}
	if doc.Footer != nil {
		pdf.SetFooterFunc(func() {
			if n := doc.Footer(pdf.PageNo(), pages); n != nil {
				pdf.SetY(-m[3] + 15)
				d.drawNode(*n, 0)
			}
		})
	}

	pdf.AddPage()
	for _, n := range doc.Content {
		if err := d.drawNode(n, 0); err != nil {
			return nil, err
		}
	}
	if pdf.Err() {
		return nil, fmt.Errorf("render: %w", pdf.Error())
	}
	return pdf, nil
}

// drawer walks a layout tree onto a gofpdf page.
type drawer struct {
	pdf    *gofpdf.Fpdf
	doc    *layout.Document
	family string
}

func (d *drawer) printableWidth() float64 {
	w, _ := d.pdf.GetPageSize()
	l, _, r, _ := d.pdf.GetMargins()
	return w - l - r
}

func (d *drawer) setStyle(name string, align layout.Alignment) (lineHeight float64, alignStr string) {
	st := d.doc.Resolve(name)
	var styleStr string
	if st.Bold {
		styleStr += "B"
	}
	if st.Italic {
		styleStr += "I"
	}
	d.pdf.SetFont(d.family, styleStr, st.FontSize)

	a := st.Alignment
	if align != "" {
		a = align
	}
	switch a {
	case layout.AlignCenter:
		alignStr = "C"
	case layout.AlignRight:
		alignStr = "R"
	default:
		alignStr = "L"
	}
	return st.FontSize * 1.35, alignStr
}

// drawNode renders one node. width 0 means the full printable width; a
// positive width constrains the node to a column.
func (d *drawer) drawNode(n layout.Node, width float64) error {
	if n.Margin[1] > 0 {
		d.pdf.Ln(n.Margin[1])
	}

	var err error
	switch n.Kind {
	case layout.KindText:
		lh, align := d.setStyle(n.Style, n.Align)
		d.pdf.MultiCell(width, lh, n.Text, "", align, false)
	case layout.KindTable:
		err = d.drawTable(n.Table, width)
	case layout.KindImage:
		err = d.drawImage(n.Image)
	case layout.KindColumns:
		err = d.drawColumns(n.Columns, width)
	case layout.KindPageBreak:
		d.pdf.AddPage()
	case layout.KindList:
		d.drawList(n.List)
	default:
		return fmt.Errorf("render: unknown node kind %d", n.Kind)
	}
	if err != nil {
		return err
	}

	if n.Margin[3] > 0 {
		d.pdf.Ln(n.Margin[3])
	}
	return nil
}

func (d *drawer) drawTable(t *layout.Table, width float64) error {
	if t == nil {
		return fmt.Errorf("render: table node without table payload")
	}
	if width == 0 {
		width = d.printableWidth()
	}
	var totalWeight float64
	for _, w := range t.Widths {
		totalWeight += w
	}
	if totalWeight == 0 {
		return fmt.Errorf("render: table without column widths")
	}
	colW := make([]float64, len(t.Widths))
	for i, w := range t.Widths {
		colW[i] = width / totalWeight * w
	}

	border := ""
	if t.Borders {
		border = "B" // light horizontal lines, as the invoice layout asks
	}

	if len(t.Header) > 0 {
		d.drawRow(t.Header, colW, border)
	}
	for _, row := range t.Rows {
		d.drawRow(row, colW, border)
	}
	return nil
}

func (d *drawer) drawRow(cells []layout.Cell, colW []float64, border string) {
	rowH := 0.0
	for _, c := range cells {
		lh, _ := d.setStyle(c.Style, c.Align)
		if lh > rowH {
			rowH = lh
		}
	}
	rowH += 4 // cell padding
	for i, c := range cells {
		if i >= len(colW) {
			break
		}
		_, align := d.setStyle(c.Style, c.Align)
		ln := 0
		if i == len(cells)-1 {
			ln = 1
		}
		d.pdf.CellFormat(colW[i], rowH, c.Text, border, ln, align, false, 0, "")
	}
}

func (d *drawer) drawImage(img *layout.Image) error {
	if img == nil {
		return fmt.Errorf("render: image node without image payload")
	}
	data, err := scancode.DecodeDataURI(img.DataURI)
	if err != nil {
		return err
	}
	name := "img-" + checksum.Sum(data)[:16]
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	d.pdf.ImageOptions(name, d.pdf.GetX(), d.pdf.GetY(), img.Width, 0, true, opts, 0, "")
	return nil
}

func (d *drawer) drawColumns(cols []layout.Column, width float64) error {
	if width == 0 {
		width = d.printableWidth()
	}
	left, _, _, _ := d.pdf.GetMargins()
	y0 := d.pdf.GetY()

	// Fixed widths are honored; zero-width columns share the remainder.
	remainder := width
	flexible := 0
	for _, c := range cols {
		if c.Width > 0 {
			remainder -= c.Width
		} else {
			flexible++
		}
	}
	flexW := 0.0
	if flexible > 0 {
		flexW = remainder / float64(flexible)
	}

	x := left
	maxY := y0
	for _, c := range cols {
		w := c.Width
		if w == 0 {
			w = flexW
		}
		d.pdf.SetXY(x, y0)
		for _, n := range c.Nodes {
			if err := d.drawNode(n, w); err != nil {
				return err
			}
			d.pdf.SetX(x)
		}
		if y := d.pdf.GetY(); y > maxY {
			maxY = y
		}
		x += w
	}
	d.pdf.SetXY(left, maxY)
	return nil
}

func (d *drawer) drawList(items []layout.ListItem) {
	left, _, _, _ := d.pdf.GetMargins()
	for _, it := range items {
		lh, _ := d.setStyle("", "")
		d.pdf.SetX(left)
		d.pdf.MultiCell(0, lh, "• "+it.Text, "", "L", false)
		for _, child := range it.Children {
			d.pdf.SetX(left + 14)
			d.pdf.MultiCell(0, lh, "– "+child, "", "L", false)
		}
	}
}
