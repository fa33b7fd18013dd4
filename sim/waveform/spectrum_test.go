package waveform

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-drift/internal/testutil"
)

func TestMagnitudePower(t *testing.T) {
	spec := []complex128{3 + 4i, -1, 2i, 0}
	testutil.RequireSliceNearlyEqual(t, Magnitude(spec), []float64{5, 1, 2, 0}, 1e-12)
	testutil.RequireSliceNearlyEqual(t, Power(spec), []float64{25, 1, 4, 0}, 1e-12)

	if Magnitude(nil) != nil || Power(nil) != nil {
		t.Error("empty spectrum should give nil")
	}
}

func TestMultiply(t *testing.T) {
	a := []complex128{1, 1i, 2}
	b := []complex128{2, 1i, 0.5}

	got, err := Multiply(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []complex128{2, -1, 1}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if a[1] != 1i {
		t.Error("Multiply modified its input")
	}

	if _, err := Multiply(a, b[:2]); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("error = %v, want ErrLengthMismatch", err)
	}
}

func TestScaleAndPeak(t *testing.T) {
	wave := []float64{0, 1, -3, 2}
	Scale(wave, 2)
	testutil.RequireSliceNearlyEqual(t, wave, []float64{0, 2, -6, 4}, 1e-12)

	idx, val := Peak(wave)
	if idx != 2 || val != -6 {
		t.Errorf("Peak = (%d, %v), want (2, -6)", idx, val)
	}
	if idx, _ := Peak(nil); idx != -1 {
		t.Errorf("Peak(nil) index = %d", idx)
	}
}

func TestResizeStrip(t *testing.T) {
	testutil.RequireSliceNearlyEqual(t, Resize([]float64{1, 2, 3}, 5), []float64{1, 2, 3, 0, 0}, 0)
	testutil.RequireSliceNearlyEqual(t, Resize([]float64{1, 2, 3}, 2), []float64{1, 2}, 0)

	begin, end := Strip([]float64{0, 0, 1, 0, 2, 0})
	if begin != 2 || end != 5 {
		t.Errorf("Strip = [%d, %d), want [2, 5)", begin, end)
	}
	begin, end = Strip(make([]float64, 4))
	if begin != 0 || end != 0 {
		t.Errorf("Strip(zeros) = [%d, %d)", begin, end)
	}
}

func TestResample(t *testing.T) {
	wave := []float64{0, 2, 4, 6}
	got, err := Resample(wave, 1.0, 0.5, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got, []float64{0, 1, 2, 3, 4, 5, 6, 0}, 1e-12)

	if _, err := Resample(wave, 0, 1, 4); err == nil {
		t.Error("expected error for zero tick")
	}
	if _, err := Resample(nil, 1, 1, 4); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("error = %v, want ErrEmptyInput", err)
	}
	testutil.RequireFinite(t, got)
}
