package report

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

type Period string

const (
	PeriodDaily   Period = "daily"   // last 7 days, one bucket per day
	PeriodWeekly  Period = "weekly"  // last 4 weeks, one bucket per week starting Monday
	PeriodMonthly Period = "monthly" // last 6 months, one bucket per month
	PeriodCustom  Period = "custom"  // inclusive day range, one bucket per day
)

// MaxCustomDays bounds a custom range.
const MaxCustomDays = 366

var (
	ErrInvalidPeriod   = errors.New("invalid report period")
	ErrInvalidRange    = errors.New("invalid date range")
	ErrInvalidBusiness = errors.New("invalid business")
)

func (p Period) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodCustom:
		return true
	}
	return false
}

// Range is the half-open interval [From, To).
type Range struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.To)
}

// Previous is the range of equal length ending where r starts.
func (r Range) Previous() Range {
	return Range{From: r.From.Add(-r.To.Sub(r.From)), To: r.From}
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func startOfWeek(t time.Time, loc *time.Location) time.Time {
	d := startOfDay(t, loc)
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDate(0, 0, -offset)
}

// StartOfMonth is midnight of the first day of t's month in loc.
func StartOfMonth(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
}

// PeriodRange resolves the range a period covers at now. custom is only read for PeriodCustom,
// where both ends are taken as whole days in loc.
func PeriodRange(p Period, now time.Time, loc *time.Location, custom *Range) (Range, error) {
	switch p {
	case PeriodDaily:
		today := startOfDay(now, loc)
		return Range{From: today.AddDate(0, 0, -6), To: today.AddDate(0, 0, 1)}, nil
	case PeriodWeekly:
		week := startOfWeek(now, loc)
		return Range{From: week.AddDate(0, 0, -21), To: week.AddDate(0, 0, 7)}, nil
	case PeriodMonthly:
		month := StartOfMonth(now, loc)
		return Range{From: month.AddDate(0, -5, 0), To: month.AddDate(0, 1, 0)}, nil
	case PeriodCustom:
		if custom == nil {
			return Range{}, ErrInvalidRange
		}
		r := Range{From: startOfDay(custom.From, loc), To: startOfDay(custom.To, loc).AddDate(0, 0, 1)}
		if !r.To.After(r.From) {
			return Range{}, ErrInvalidRange
		}
		if r.From.AddDate(0, 0, MaxCustomDays).Before(r.To) {
			return Range{}, fmt.Errorf("%w: longer than %d days", ErrInvalidRange, MaxCustomDays)
		}
		return r, nil
	}
	return Range{}, ErrInvalidPeriod
}

var monthAbbr = [...]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"}

func bucketLabel(p Period, start time.Time) string {
	switch p {
	case PeriodWeekly:
		_, week := start.ISOWeek()
		return fmt.Sprintf("Sem %d", week)
	case PeriodMonthly:
		return fmt.Sprintf("%s %02d", monthAbbr[start.Month()-1], start.Year()%100)
	default:
		return start.Format("02/01")
	}
}

func step(p Period, t time.Time) time.Time {
	switch p {
	case PeriodWeekly:
		return t.AddDate(0, 0, 7)
	case PeriodMonthly:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// Buckets splits r into consecutive empty buckets of the period's unit.
func Buckets(p Period, r Range) []Bucket {
	var out []Bucket
	for start := r.From; start.Before(r.To); {
		end := step(p, start)
		if end.After(r.To) {
			end = r.To
		}
		out = append(out, Bucket{
			Label: bucketLabel(p, start),
			Start: start,
			End:   end,
			Total: zero,
		})
		start = end
	}
	return out
}

// Fill adds every sale to the bucket containing its timestamp; sales outside all buckets are ignored.
func Fill(buckets []Bucket, sales []SaleRow) {
	for _, s := range sales {
		i := sort.Search(len(buckets), func(i int) bool { return buckets[i].End.After(s.CreatedAt) })
		if i < len(buckets) && !s.CreatedAt.Before(buckets[i].Start) {
			buckets[i].Total = buckets[i].Total.Add(s.Total)
			buckets[i].Count++
		}
	}
}
