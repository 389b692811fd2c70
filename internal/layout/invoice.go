package layout

import (
	"fmt"
	"time"

	"github.com/starford/fehu/internal/models"
)

// Placeholder company mark embedded in the invoice header (1:1 with the
// original artwork; a real deployment swaps in its own logo).
const logoDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAUAAAAFCAYAAACNbyblAAAAHElEQVQI12P4//8/w38GIAXDIBKE0DHxgljNBAAO9TXL0Y4OHwAAAABJRU5ErkJggg=="

func invoiceStyles() StyleSheet {
	return StyleSheet{
		"header":          {FontSize: 20, Bold: true, Margin: Margin{0, 0, 0, 10}},
		"invoiceTitle":    {FontSize: 28, Bold: true},
		"subheader":       {FontSize: 14, Bold: true, Margin: Margin{0, 10, 0, 5}},
		"subheaderRight":  {FontSize: 12, Bold: true, Margin: Margin{0, 0, 0, 2}},
		"textRight":       {FontSize: 10, Margin: Margin{0, 0, 0, 2}},
		"tableHeader":     {FontSize: 10, Bold: true},
		"totalsLabel":     {FontSize: 10, Margin: Margin{0, 2, 5, 2}},
		"totalsValue":     {FontSize: 10, Margin: Margin{0, 2, 0, 2}},
		"totalsLabelBold": {FontSize: 11, Bold: true, Margin: Margin{0, 5, 5, 5}},
		"totalsValueBold": {FontSize: 11, Bold: true, Margin: Margin{0, 5, 0, 5}},
		"notesText":       {FontSize: 9, Italic: true},
		"footer":          {FontSize: 8, Margin: Margin{0, 10, 0, 0}},
	}
}

// orNA substitutes the literal "N/A" for missing values so the layout shape
// stays stable regardless of input completeness.
func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// fmtMoney renders a numeric field to two decimals.
func fmtMoney(n models.Number) string {
	return fmt.Sprintf("%.2f", n.Float())
}

// fmtDate renders an ISO date as MM/DD/YYYY; unparseable input passes
// through verbatim, empty stays empty.
func fmtDate(s string) string {
	if s == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return t.Format("01/02/2006")
}

func servicesTable(services []models.ServiceLine) *Table {
	tbl := &Table{
		Widths:  []float64{4, 2, 1, 1.5, 1.5},
		Borders: true,
		Header: []Cell{
			{Text: "Description", Style: "tableHeader"},
			{Text: "Service Date", Style: "tableHeader"},
			{Text: "Qty", Style: "tableHeader", Align: AlignRight},
			{Text: "Unit Price", Style: "tableHeader", Align: AlignRight},
			{Text: "Line Total", Style: "tableHeader", Align: AlignRight},
		},
	}
	for _, svc := range services {
		tbl.Rows = append(tbl.Rows, []Cell{
			{Text: svc.Description},
			{Text: fmtDate(svc.Date)},
			{Text: fmt.Sprintf("%g", svc.Qty.Float()), Align: AlignRight},
			{Text: fmtMoney(svc.UnitPrice), Align: AlignRight},
			{Text: fmtMoney(svc.LineTotal), Align: AlignRight},
		})
	}
	return tbl
}

func totalsBlock(req models.InvoiceRequest) Node {
	totals := &Table{
		Widths: []float64{2, 1},
		Rows: [][]Cell{
			{{Text: "Subtotal:", Style: "totalsLabel", Align: AlignRight},
				{Text: fmtMoney(req.Subtotal), Style: "totalsValue", Align: AlignRight}},
			{{Text: "Tax (%):", Style: "totalsLabel", Align: AlignRight},
				{Text: fmtMoney(req.TaxPercentage), Style: "totalsValue", Align: AlignRight}},
			{{Text: "Grand Total:", Style: "totalsLabelBold", Align: AlignRight},
				{Text: fmtMoney(req.GrandTotal), Style: "totalsValueBold", Align: AlignRight}},
		},
	}
	return Node{
		Kind:   KindColumns,
		Margin: Margin{0, 0, 0, 30},
		Columns: []Column{
			{Width: 0}, // spacer
			{Width: 160, Nodes: []Node{{Kind: KindTable, Table: totals}}},
		},
	}
}

// BuildInvoice maps an invoice request into a complete layout tree. Missing
// optional fields render as empty strings or "N/A"; the node count and shape
// never depend on which fields were supplied.
func BuildInvoice(req models.InvoiceRequest) *Document {
	billTo := fmt.Sprintf("Bill To:\n%s\n%s\n%s\n%s",
		orNA(req.ClientCompanyName),
		req.ClientContactPerson,
		req.ClientEmail,
		orNA(req.ClientBillingAddress))

	meta := fmt.Sprintf("Invoice #: %s\nDate: %s\nDue Date: %s",
		orNA(req.InvoiceNumber),
		orNA(fmtDate(req.InvoiceDate)),
		orNA(fmtDate(req.DueDate)))

	content := []Node{
		{
			Kind:   KindColumns,
			Margin: Margin{0, 20, 0, 30},
			Columns: []Column{
				{Width: 0, Nodes: []Node{{Kind: KindText, Text: billTo, Style: "subheader"}}},
				{Width: 180, Nodes: []Node{{Kind: KindText, Text: meta, Style: "textRight", Align: AlignRight}}},
			},
		},
		{Kind: KindText, Text: "Services / Items", Style: "subheader", Margin: Margin{0, 0, 0, 5}},
		{Kind: KindTable, Table: servicesTable(req.Services), Margin: Margin{0, 0, 0, 30}},
		totalsBlock(req),
	}

	// Notes block only when notes were supplied; this is the one place the
	// tree shape is input-dependent, matching the original behavior.
	if req.AdditionalNotes != "" {
		content = append(content,
			Node{Kind: KindText, Text: "Additional Notes", Style: "subheader", Margin: Margin{0, 10, 0, 5}},
			Node{Kind: KindText, Text: req.AdditionalNotes, Style: "notesText", Margin: Margin{0, 0, 0, 30}},
		)
	}

	return &Document{
		Title:   "Invoice " + orNA(req.InvoiceNumber),
		Content: content,
		Header: func(page, pages int) *Node {
			return &Node{
				Kind:   KindColumns,
				Margin: Margin{40, 30, 40, 10},
				Columns: []Column{
					{Width: 70, Nodes: []Node{{Kind: KindImage, Image: &Image{DataURI: logoDataURI, Width: 50}}}},
					{Width: 0, Nodes: []Node{{Kind: KindText, Text: "INVOICE", Style: "invoiceTitle", Align: AlignRight}}},
				},
			}
		},
		Footer: func(page, pages int) *Node {
			return &Node{
				Kind:  KindText,
				Text:  fmt.Sprintf("Page %d of %d", page, pages),
				Style: "footer",
				Align: AlignCenter,
			}
		},
		Styles:     invoiceStyles(),
		Default:    Style{FontSize: 10},
		PageMargin: Margin{40, 60, 40, 60},
	}
}
