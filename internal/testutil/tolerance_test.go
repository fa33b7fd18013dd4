package testutil

import (
	"math"
	"testing"
)

func TestMaxAbsDiff(t *testing.T) {
	a := []float64{1.0, 2.0, 3.0}
	b := []float64{1.0, 2.1, 3.0}

	d, err := MaxAbsDiff(a, b)
	if err != nil {
		t.Fatalf("MaxAbsDiff error: %v", err)
	}
	if math.Abs(d-0.1) > 1e-15 {
		t.Fatalf("MaxAbsDiff = %v, want 0.1", d)
	}

	if _, err := MaxAbsDiff([]float64{1}, []float64{1, 2}); err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func TestRelativeError(t *testing.T) {
	if got := RelativeError(101, 100); math.Abs(got-0.01) > 1e-12 {
		t.Errorf("RelativeError = %v, want 0.01", got)
	}
	if got := RelativeError(-2, 0); got != 2 {
		t.Errorf("RelativeError with zero want = %v, want 2", got)
	}
}
