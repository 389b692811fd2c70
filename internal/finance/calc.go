// Package finance computes invoice totals with two-decimal rounding.
//
// Everything here is pure: no inputs are rejected, missing or non-numeric
// values are treated as zero upstream, and recomputing from the same inputs
// always yields identical output.
package finance

import "math"

// LineInput is the quantity/price pair of one service line.
type LineInput struct {
	Qty       float64
	UnitPrice float64
}

// Totals is the result of a full invoice computation.
type Totals struct {
	LineTotals []float64
	Subtotal   float64
	TaxAmount  float64
	GrandTotal float64
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Trunc(v*100+math.Copysign(0.5, v)) / 100
}

// Compute derives line totals, subtotal, tax amount, and grand total from
// the given lines and tax percentage. An empty input yields all zeros
// regardless of the tax percentage.
func Compute(lines []LineInput, taxPercentage float64) Totals {
	t := Totals{LineTotals: make([]float64, len(lines))}
	for i, l := range lines {
		lt := Round2(l.Qty * l.UnitPrice)
		t.LineTotals[i] = lt
		t.Subtotal += lt
	}
	t.Subtotal = Round2(t.Subtotal)
	t.TaxAmount = Round2(t.Subtotal * taxPercentage / 100)
	t.GrandTotal = Round2(t.Subtotal * (1 + taxPercentage/100))
	return t
}
