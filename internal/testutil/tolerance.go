package testutil

import (
	"math"
	"testing"
)

// RequireNearlyEqual fails t if got and want differ by more than eps
// (absolute tolerance).
func RequireNearlyEqual(t *testing.T, got, want, eps float64) {
	t.Helper()
	diff := math.Abs(got - want)
	if diff > eps || math.IsNaN(diff) {
		t.Fatalf("got %v, want %v (diff %v > eps %v)", got, want, diff, eps)
	}
}

// RequireRelativeNear fails t if got deviates from want by more than
// tol relative to |want|. want must be non-zero.
func RequireRelativeNear(t *testing.T, got, want, tol float64) {
	t.Helper()
	if want == 0 {
		t.Fatalf("RequireRelativeNear needs a non-zero reference")
	}
	rel := math.Abs(got-want) / math.Abs(want)
	if rel > tol || math.IsNaN(rel) {
		t.Fatalf("got %v, want %v (relative error %v > tol %v)", got, want, rel, tol)
	}
}

// RequireFinite fails t if v is NaN or Inf.
func RequireFinite(t *testing.T, v float64) {
	t.Helper()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		t.Fatalf("non-finite value %v", v)
	}
}
