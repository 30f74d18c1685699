package report

import (
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/money"
)

// Wednesday
var now = time.Date(2026, 3, 18, 15, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPeriodRange(t *testing.T) {
	tests := []struct {
		name       string
		period     Period
		custom     *Range
		wantFrom   time.Time
		wantTo     time.Time
		wantLabels []string
	}{
		{
			name:       "daily covers the last seven days",
			period:     PeriodDaily,
			wantFrom:   day(2026, 3, 12),
			wantTo:     day(2026, 3, 19),
			wantLabels: []string{"12/03", "13/03", "14/03", "15/03", "16/03", "17/03", "18/03"},
		},
		{
			name:       "weekly covers four weeks starting monday",
			period:     PeriodWeekly,
			wantFrom:   day(2026, 2, 23),
			wantTo:     day(2026, 3, 23),
			wantLabels: []string{"Sem 9", "Sem 10", "Sem 11", "Sem 12"},
		},
		{
			name:       "monthly covers six months",
			period:     PeriodMonthly,
			wantFrom:   day(2025, 10, 1),
			wantTo:     day(2026, 4, 1),
			wantLabels: []string{"oct 25", "nov 25", "dic 25", "ene 26", "feb 26", "mar 26"},
		},
		{
			name:       "custom includes both days",
			period:     PeriodCustom,
			custom:     &Range{From: time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC), To: day(2026, 3, 3)},
			wantFrom:   day(2026, 3, 1),
			wantTo:     day(2026, 3, 4),
			wantLabels: []string{"01/03", "02/03", "03/03"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := PeriodRange(tt.period, now, time.UTC, tt.custom)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !r.From.Equal(tt.wantFrom) || !r.To.Equal(tt.wantTo) {
				t.Fatalf("range = [%v, %v), want [%v, %v)", r.From, r.To, tt.wantFrom, tt.wantTo)
			}
			buckets := Buckets(tt.period, r)
			if len(buckets) != len(tt.wantLabels) {
				t.Fatalf("got %d buckets, want %d", len(buckets), len(tt.wantLabels))
			}
			for i, b := range buckets {
				if b.Label != tt.wantLabels[i] {
					t.Errorf("bucket %d label = %q, want %q", i, b.Label, tt.wantLabels[i])
				}
			}
			if !buckets[len(buckets)-1].End.Equal(r.To) {
				t.Errorf("last bucket ends at %v, want %v", buckets[len(buckets)-1].End, r.To)
			}
		})
	}
}

func TestPeriodRangeErrors(t *testing.T) {
	tests := []struct {
		name   string
		period Period
		custom *Range
		want   error
	}{
		{"unknown period", Period("yearly"), nil, ErrInvalidPeriod},
		{"custom without range", PeriodCustom, nil, ErrInvalidRange},
		{"custom inverted", PeriodCustom, &Range{From: day(2026, 3, 5), To: day(2026, 3, 1)}, ErrInvalidRange},
		{"custom too long", PeriodCustom, &Range{From: day(2024, 1, 1), To: day(2026, 1, 1)}, ErrInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := PeriodRange(tt.period, now, time.UTC, tt.custom); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPeriodRangeUsesLocation(t *testing.T) {
	loc := time.FixedZone("ART", -3*60*60)
	// 01:00 UTC on the 18th is still the 17th in ART
	r, err := PeriodRange(PeriodDaily, time.Date(2026, 3, 18, 1, 0, 0, 0, time.UTC), loc, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2026, 3, 18, 0, 0, 0, 0, loc)
	if !r.To.Equal(want) {
		t.Fatalf("To = %v, want %v", r.To, want)
	}
}

func TestPrevious(t *testing.T) {
	r := Range{From: day(2026, 3, 12), To: day(2026, 3, 19)}
	p := r.Previous()
	if !p.From.Equal(day(2026, 3, 5)) || !p.To.Equal(r.From) {
		t.Fatalf("previous = [%v, %v)", p.From, p.To)
	}
}

func TestFill(t *testing.T) {
	r := Range{From: day(2026, 3, 1), To: day(2026, 3, 4)}
	buckets := Buckets(PeriodDaily, r)
	Fill(buckets, []SaleRow{
		{Total: money.MustParse("100"), CreatedAt: day(2026, 3, 1)},
		{Total: money.MustParse("50.25"), CreatedAt: day(2026, 3, 1).Add(23 * time.Hour)},
		{Total: money.MustParse("10"), CreatedAt: day(2026, 3, 3).Add(time.Hour)},
		{Total: money.MustParse("999"), CreatedAt: day(2026, 3, 4)},
		{Total: money.MustParse("999"), CreatedAt: day(2026, 2, 28)},
	})

	want := []struct {
		total string
		count int
	}{{"150.25", 2}, {"0", 0}, {"10", 1}}
	for i, w := range want {
		if !buckets[i].Total.Equal(money.MustParse(w.total)) || buckets[i].Count != w.count {
			t.Errorf("bucket %d = %s/%d, want %s/%d", i, buckets[i].Total, buckets[i].Count, w.total, w.count)
		}
	}
}
