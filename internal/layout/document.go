package layout

import (
	"fmt"

	"github.com/starford/fehu/internal/models"
)

// Defaults for the generic document shape.
const (
	DefaultTitle = "Generated Document"
	DefaultBody  = "This document was generated without body text. Replace this " +
		"placeholder by supplying a body field in the request."
)

func documentStyles() StyleSheet {
	return StyleSheet{
		"title":       {FontSize: 22, Bold: true, Margin: Margin{0, 0, 0, 12}},
		"body":        {FontSize: 11, Margin: Margin{0, 0, 0, 20}},
		"subheader":   {FontSize: 14, Bold: true, Margin: Margin{0, 10, 0, 5}},
		"tableHeader": {FontSize: 10, Bold: true},
		"caption":     {FontSize: 9, Italic: true, Margin: Margin{0, 4, 0, 20}},
		"pageHeader":  {FontSize: 8, Margin: Margin{0, 0, 0, 10}},
		"footer":      {FontSize: 8, Margin: Margin{0, 10, 0, 0}},
	}
}

// BuildDocument maps a generic request into the fixed demonstrative layout:
// title, body text, a sample table, the scannable code, a forced page break,
// and a nested bulleted list. The structure is a fixture — it exercises
// every node kind and does not vary with input beyond the three fields.
// codeDataURI is the pre-encoded scannable code image.
func BuildDocument(req models.DocumentRequest, codeDataURI string) *Document {
	title := req.Title
	if title == "" {
		title = DefaultTitle
	}
	body := req.Body
	if body == "" {
		body = DefaultBody
	}

	demo := &Table{
		Widths:  []float64{2, 1, 1},
		Borders: true,
		Header: []Cell{
			{Text: "Item", Style: "tableHeader"},
			{Text: "Status", Style: "tableHeader"},
			{Text: "Count", Style: "tableHeader", Align: AlignRight},
		},
		Rows: [][]Cell{
			{{Text: "First entry"}, {Text: "done"}, {Text: "3", Align: AlignRight}},
			{{Text: "Second entry"}, {Text: "open"}, {Text: "7", Align: AlignRight}},
			{{Text: "Third entry"}, {Text: "open"}, {Text: "1", Align: AlignRight}},
		},
	}

	content := []Node{
		{Kind: KindText, Text: title, Style: "title"},
		{Kind: KindText, Text: body, Style: "body"},
		{Kind: KindText, Text: "Sample Table", Style: "subheader"},
		{Kind: KindTable, Table: demo, Margin: Margin{0, 0, 0, 20}},
		{Kind: KindImage, Image: &Image{DataURI: codeDataURI, Width: 90}},
		{Kind: KindText, Text: "Scan the code above for more information.", Style: "caption"},
		{Kind: KindPageBreak},
		{Kind: KindText, Text: "Appendix", Style: "subheader"},
		{Kind: KindList, List: []ListItem{
			{Text: "Layout", Children: []string{"text blocks", "tables", "images"}},
			{Text: "Pagination", Children: []string{"headers", "footers", "page breaks"}},
			{Text: "Delivery"},
		}},
	}

	return &Document{
		Title:   title,
		Content: content,
		Header: func(page, pages int) *Node {
			return &Node{Kind: KindText, Text: title, Style: "pageHeader", Margin: Margin{40, 30, 40, 10}}
		},
		Footer: func(page, pages int) *Node {
			return &Node{
				Kind:  KindText,
				Text:  fmt.Sprintf("Page %d of %d", page, pages),
				Style: "footer",
				Align: AlignCenter,
			}
		},
		Styles:     documentStyles(),
		Default:    Style{FontSize: 10},
		PageMargin: Margin{40, 60, 40, 60},
	}
}
