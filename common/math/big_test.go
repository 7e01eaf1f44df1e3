package math

import "testing"

func TestBigPow(t *testing.T) {
	got := BigPow(2, 10)
	if got.Int64() != 1024 {
		t.Errorf("got %s, want 1024", got)
	}
}

func TestMaxBig256(t *testing.T) {
	if MaxBig256.Cmp(tt256m1) != 0 {
		t.Errorf("MaxBig256 should equal 2**256 - 1")
	}
}
