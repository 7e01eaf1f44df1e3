package vm

import "testing"

func TestCallGasPreEIP150ForwardsFullCost(t *testing.T) {
	got := callGas(false, 1000, 50, 700)
	if got != 700 {
		t.Errorf("got %d, want 700", got)
	}
}

func TestCallGasPostEIP150CapsAt63Of64(t *testing.T) {
	// available=1000, base=50 -> 950 remaining, cap = 950 - 950/64 = 936
	got := callGas(true, 1000, 50, 10000)
	if got != 936 {
		t.Errorf("got %d, want 936", got)
	}
}

func TestCallGasPostEIP150AllowsRequestUnderCap(t *testing.T) {
	got := callGas(true, 1000, 50, 100)
	if got != 100 {
		t.Errorf("got %d, want 100", got)
	}
}
