package aggregate

import "testing"

func TestCentsToDollars(t *testing.T) {
	cases := map[int64]float64{
		0:      0,
		906:    9.06,
		1234:   12.34,
		5:      0.05,
		-105:   -1.05,
		100000: 1000,
	}
	for in, want := range cases {
		if got := CentsToDollars(in); got != want {
			t.Errorf("CentsToDollars(%d) = %v, want %v", in, got, want)
		}
	}
}

func TestFormatDollars(t *testing.T) {
	cases := map[int64]string{
		0:    "$0.00",
		906:  "$9.06",
		1234: "$12.34",
		-105: "-$1.05",
	}
	for in, want := range cases {
		if got := FormatDollars(in); got != want {
			t.Errorf("FormatDollars(%d) = %q, want %q", in, got, want)
		}
	}
}
