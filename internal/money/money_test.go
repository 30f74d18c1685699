package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRound(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1.005", "1.01"},
		{"1.004", "1"},
		{"2.675", "2.68"},
		{"-1.005", "-1.01"},
		{"10", "10"},
	}
	for _, tt := range tests {
		got := Round(MustParse(tt.in))
		if !got.Equal(MustParse(tt.want)) {
			t.Errorf("Round(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestClampPercent(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"150", "100"},
		{"-10", "0"},
		{"12.345", "12.35"},
		{"0", "0"},
		{"100", "100"},
	}
	for _, tt := range tests {
		got := ClampPercent(MustParse(tt.in))
		if !got.Equal(MustParse(tt.want)) {
			t.Errorf("ClampPercent(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestLineTotal(t *testing.T) {
	got := LineTotal(3, decimal.NewFromInt(100), decimal.NewFromInt(10))
	if !got.Equal(decimal.NewFromInt(270)) {
		t.Fatalf("LineTotal = %s, want 270", got)
	}

	// 3 × 0.10 stays exact where float64 would drift.
	got = LineTotal(3, MustParse("0.10"), Zero)
	if !got.Equal(MustParse("0.3")) {
		t.Fatalf("LineTotal = %s, want 0.3", got)
	}
}

func TestRatio(t *testing.T) {
	if !Ratio(decimal.NewFromInt(80), decimal.NewFromInt(100)).Equal(MustParse("0.8")) {
		t.Fatal("80/100 should be 0.8")
	}
	if !Ratio(decimal.NewFromInt(5), Zero).IsZero() {
		t.Fatal("division by zero must yield zero")
	}
}
