package finance

import "testing"

func TestComputeSingleLine(t *testing.T) {
	got := Compute([]LineInput{{Qty: 2, UnitPrice: 100}}, 10)
	if got.LineTotals[0] != 200 {
		t.Errorf("line total = %v, want 200", got.LineTotals[0])
	}
	if got.Subtotal != 200 {
		t.Errorf("subtotal = %v, want 200", got.Subtotal)
	}
	if got.TaxAmount != 20 {
		t.Errorf("tax = %v, want 20", got.TaxAmount)
	}
	if got.GrandTotal != 220 {
		t.Errorf("grand total = %v, want 220", got.GrandTotal)
	}
}

func TestComputeEmpty(t *testing.T) {
	got := Compute(nil, 25)
	if got.Subtotal != 0 || got.TaxAmount != 0 || got.GrandTotal != 0 {
		t.Errorf("empty input should be all zeros, got %+v", got)
	}
}

func TestComputeRounding(t *testing.T) {
	// 3 * 0.125 = 0.375 → 0.38 (half away from zero).
	got := Compute([]LineInput{{Qty: 3, UnitPrice: 0.125}}, 0)
	if got.LineTotals[0] != 0.38 {
		t.Errorf("line total = %v, want 0.38", got.LineTotals[0])
	}
}

func TestComputeIdempotent(t *testing.T) {
	lines := []LineInput{{Qty: 1.5, UnitPrice: 33.33}, {Qty: 7, UnitPrice: 0.99}}
	a := Compute(lines, 19)
	b := Compute(lines, 19)
	if a.Subtotal != b.Subtotal || a.GrandTotal != b.GrandTotal {
		t.Errorf("recomputation differs: %+v vs %+v", a, b)
	}
}

func TestRound2Negative(t *testing.T) {
	if got := Round2(-0.005); got != -0.01 {
		t.Errorf("Round2(-0.005) = %v, want -0.01", got)
	}
	if got := Round2(2.675); got != 2.68 {
		t.Errorf("Round2(2.675) = %v, want 2.68", got)
	}
}
