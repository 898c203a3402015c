package gtv

import "testing"

func TestPieceIndexRightContinuous(t *testing.T) {
	// Degree-1 layout: [b0, (lambda1,b1), (lambda2,b2), (lambda3,b3)].
	pw := []float64{-1, -5, 1, 0, 2, 5, 3}
	bkpNum := 3
	cases := []struct {
		x    float64
		want int
	}{
		{-10, 0},
		{-5.0001, 0},
		{-5, 1}, // right-continuous: exactly at a breakpoint belongs to the piece starting there
		{-2, 1},
		{0, 2},
		{4.999, 2},
		{5, 3},
		{100, 3},
	}
	for _, c := range cases {
		got := pieceIndex(1, pw, bkpNum, 0, c.x)
		if got != c.want {
			t.Errorf("pieceIndex(%g) = %d, want %d", c.x, got, c.want)
		}
		if !pieceValid(1, pw, bkpNum, 0, c.x, got) {
			t.Errorf("pieceValid(%g, %d) = false, want true", c.x, got)
		}
	}
}

func TestPieceIndexNoBreakpoints(t *testing.T) {
	pw := []float64{3.5}
	if got := pieceIndex(1, pw, 0, 0, 42); got != 0 {
		t.Errorf("pieceIndex with no breakpoints = %d, want 0", got)
	}
	if !pieceValid(1, pw, 0, 0, 42, 0) {
		t.Errorf("pieceValid with no breakpoints = false, want true")
	}
}

func TestPieceIndexWithOffset(t *testing.T) {
	// Same layout as above, but preceded by an unrelated function's block.
	prefix := []float64{9, 9, 9}
	pw := append(append([]float64(nil), prefix...), -1, -5, 1, 0, 2, 5, 3)
	got := pieceIndex(1, pw, 3, len(prefix), -5)
	if got != 1 {
		t.Errorf("pieceIndex with stIndex offset = %d, want 1", got)
	}
}
