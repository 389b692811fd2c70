// Package models defines the domain types for Fehu.
package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PDFContentType is the content type of every generated artifact.
const PDFContentType = "application/pdf"

// Number is a float64 that coerces on decode: JSON numbers, numeric strings,
// null, and anything unparseable all produce a value (unparseable → 0).
// Business input is never rejected for being malformed.
type Number float64

// UnmarshalJSON implements json.Unmarshaler with coercing semantics.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*n = 0
		return nil
	}
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Number(v)
	return nil
}

// Float returns the underlying float64.
func (n Number) Float() float64 { return float64(n) }

// DocumentRequest is the input for the generic document shape.
// All fields are optional; defaults are applied by the layout builder.
type DocumentRequest struct {
	Title    string `json:"title,omitempty"`
	Body     string `json:"body,omitempty"`
	CodeData string `json:"codeData,omitempty"` // encoded into the scannable code
}

// ServiceLine is one billable row of an invoice.
// LineTotal is supplied by the caller and stored verbatim by default; it is
// only re-derived when strict totals are enabled.
type ServiceLine struct {
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
	Qty         Number `json:"qty"`
	UnitPrice   Number `json:"unitPrice"`
	LineTotal   Number `json:"lineTotal"`
}

// InvoiceRequest is the input for the invoice document shape.
type InvoiceRequest struct {
	ClientCompanyName    string        `json:"clientCompanyName,omitempty"`
	ClientContactPerson  string        `json:"clientContactPerson,omitempty"`
	ClientEmail          string        `json:"clientEmail,omitempty"`
	ClientBillingAddress string        `json:"clientBillingAddress,omitempty"`
	InvoiceNumber        string        `json:"invoiceNumber,omitempty"`
	InvoiceDate          string        `json:"invoiceDate,omitempty"`
	DueDate              string        `json:"dueDate,omitempty"`
	Services             []ServiceLine `json:"services,omitempty"`
	Subtotal             Number        `json:"subtotal"`
	TaxPercentage        Number        `json:"taxPercentage"`
	GrandTotal           Number        `json:"grandTotal"`
	AdditionalNotes      string        `json:"additionalNotes,omitempty"`
}

// Artifact is a persisted generated binary plus its metadata.
// Artifacts are immutable after creation; there is no update path.
type Artifact struct {
	ID          uuid.UUID       `json:"id"`
	Filename    string          `json:"filename"`
	ContentType string          `json:"contentType"`
	Data        []byte          `json:"-"`
	SourceData  json.RawMessage `json:"sourceData,omitempty"`
	Checksum    string          `json:"checksum"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ArtifactSummary is the metadata-only projection returned by list
// operations. It deliberately has no payload field.
type ArtifactSummary struct {
	ID        uuid.UUID `json:"id"`
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"createdAt"`
}
