package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/money"
	"github.com/shopspring/decimal"
)

var zero = decimal.Zero

// SaleRow is the slice of a completed sale the reports read.
type SaleRow struct {
	ID            string              `db:"id"`
	Total         decimal.Decimal     `db:"total"`
	PaymentMethod model.PaymentMethod `db:"payment_method"`
	CreatedAt     time.Time           `db:"created_at"`
}

// ProductSales is the quantity and revenue one product sold in a range.
type ProductSales struct {
	ProductID string          `db:"product_id" json:"product_id"`
	Code      string          `db:"code" json:"code"`
	Name      string          `db:"name" json:"name"`
	Quantity  int             `db:"quantity" json:"quantity"`
	Revenue   decimal.Decimal `db:"revenue" json:"revenue"`
}

type Counts struct {
	Products  int `db:"products" json:"products"`
	LowStock  int `db:"low_stock" json:"low_stock"`
	Customers int `db:"customers" json:"customers"`
}

type Bucket struct {
	Label string          `json:"label"`
	Start time.Time       `json:"start"`
	End   time.Time       `json:"end"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type MethodTotal struct {
	Method model.PaymentMethod `json:"method"`
	Total  decimal.Decimal     `json:"total"`
	Count  int                 `json:"count"`
}

type SalesReport struct {
	Business        model.Business  `json:"business"`
	Period          Period          `json:"period"`
	Range           Range           `json:"range"`
	Buckets         []Bucket        `json:"buckets"`
	TotalSales      int             `json:"total_sales"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	AverageTicket   decimal.Decimal `json:"average_ticket"`
	PreviousRevenue decimal.Decimal `json:"previous_revenue"`
	RevenueChange   decimal.Decimal `json:"revenue_change"` // percent
	PaymentMethods  []MethodTotal   `json:"payment_methods"`
	TopProducts     []ProductSales  `json:"top_products"`
	LeastProducts   []ProductSales  `json:"least_products"`
}

type Dashboard struct {
	Business        model.Business  `json:"business"`
	RevenueToday    decimal.Decimal `json:"revenue_today"`
	RevenueWeek     decimal.Decimal `json:"revenue_week"` // rolling 7 days
	RevenueMonth    decimal.Decimal `json:"revenue_month"`
	SalesCountToday int             `json:"sales_count_today"`
	Counts
	TopProducts   []ProductSales `json:"top_products"`
	LeastProducts []ProductSales `json:"least_products"`
	DailySales    []Bucket       `json:"daily_sales"`
	WeeklySales   []Bucket       `json:"weekly_sales"`
}

const (
	ReportTopN      = 10
	ReportLeastN    = 5
	DashboardTopN   = 5
	DashboardLeastN = 5
)

func sum(sales []SaleRow, r Range) (decimal.Decimal, int) {
	total, n := zero, 0
	for _, s := range sales {
		if r.Contains(s.CreatedAt) {
			total = total.Add(s.Total)
			n++
		}
	}
	return total, n
}

func rankByQuantity(products []ProductSales) []ProductSales {
	sorted := append([]ProductSales(nil), products...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Quantity != sorted[j].Quantity {
			return sorted[i].Quantity > sorted[j].Quantity
		}
		if c := sorted[i].Revenue.Cmp(sorted[j].Revenue); c != 0 {
			return c > 0
		}
		return sorted[i].Code < sorted[j].Code
	})
	return sorted
}

// Top returns the n best sellers by quantity.
func Top(products []ProductSales, n int) []ProductSales {
	ranked := rankByQuantity(products)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Least returns the n worst sellers that sold at least one unit, worst first.
func Least(products []ProductSales, n int) []ProductSales {
	ranked := rankByQuantity(products)
	var sold []ProductSales
	for _, p := range ranked {
		if p.Quantity > 0 {
			sold = append(sold, p)
		}
	}
	if len(sold) > n {
		sold = sold[len(sold)-n:]
	}
	out := make([]ProductSales, len(sold))
	for i, p := range sold {
		out[len(sold)-1-i] = p
	}
	return out
}

var methodOrder = []model.PaymentMethod{model.PaymentCash, model.PaymentCard, model.PaymentTransfer, model.PaymentAccount}

// PaymentSplit totals sales per payment method in a fixed method order.
func PaymentSplit(sales []SaleRow) []MethodTotal {
	byMethod := map[model.PaymentMethod]*MethodTotal{}
	var extra []model.PaymentMethod
	for _, s := range sales {
		mt, ok := byMethod[s.PaymentMethod]
		if !ok {
			mt = &MethodTotal{Method: s.PaymentMethod, Total: zero}
			byMethod[s.PaymentMethod] = mt
			if !s.PaymentMethod.Valid() {
				extra = append(extra, s.PaymentMethod)
			}
		}
		mt.Total = mt.Total.Add(s.Total)
		mt.Count++
	}

	out := make([]MethodTotal, 0, len(byMethod))
	for _, m := range append(append([]model.PaymentMethod(nil), methodOrder...), extra...) {
		if mt, ok := byMethod[m]; ok {
			out = append(out, *mt)
		}
	}
	return out
}

// ChangePercent is the relative change from previous to current in percent, 0 without a baseline.
func ChangePercent(current, previous decimal.Decimal) decimal.Decimal {
	if !previous.IsPositive() {
		return zero
	}
	return money.Round(current.Sub(previous).Mul(money.Hundred).Div(previous))
}

// BuildSalesReport aggregates rows already restricted to r and the previous period's revenue.
func BuildSalesReport(business model.Business, p Period, r Range, sales []SaleRow, previousRevenue decimal.Decimal, products []ProductSales) *SalesReport {
	buckets := Buckets(p, r)
	Fill(buckets, sales)

	revenue, count := sum(sales, r)
	avg := zero
	if count > 0 {
		avg = money.Round(revenue.Div(decimal.NewFromInt(int64(count))))
	}

	return &SalesReport{
		Business:        business,
		Period:          p,
		Range:           r,
		Buckets:         buckets,
		TotalSales:      count,
		TotalRevenue:    revenue,
		AverageTicket:   avg,
		PreviousRevenue: previousRevenue,
		RevenueChange:   ChangePercent(revenue, previousRevenue),
		PaymentMethods:  PaymentSplit(sales),
		TopProducts:     Top(products, ReportTopN),
		LeastProducts:   Least(products, ReportLeastN),
	}
}

// DashboardWindow is the earliest instant BuildDashboard needs sales from.
func DashboardWindow(now time.Time, loc *time.Location) time.Time {
	earliest := StartOfMonth(now, loc)
	if daily := startOfDay(now, loc).AddDate(0, 0, -6); daily.Before(earliest) {
		earliest = daily
	}
	if weekly := now.AddDate(0, 0, -28); weekly.Before(earliest) {
		earliest = weekly
	}
	return earliest
}

// BuildDashboard expects sales from DashboardWindow up to now and this month's product sales.
func BuildDashboard(business model.Business, now time.Time, loc *time.Location, sales []SaleRow, monthProducts []ProductSales, counts Counts) *Dashboard {
	end := now.Add(time.Nanosecond)
	today := Range{From: startOfDay(now, loc), To: end}
	week := Range{From: now.AddDate(0, 0, -7), To: end}
	month := Range{From: StartOfMonth(now, loc), To: end}

	d := &Dashboard{
		Business:      business,
		Counts:        counts,
		TopProducts:   Top(monthProducts, DashboardTopN),
		LeastProducts: Least(monthProducts, DashboardLeastN),
	}
	d.RevenueToday, d.SalesCountToday = sum(sales, today)
	d.RevenueWeek, _ = sum(sales, week)
	d.RevenueMonth, _ = sum(sales, month)

	daily, _ := PeriodRange(PeriodDaily, now, loc, nil)
	d.DailySales = Buckets(PeriodDaily, daily)
	Fill(d.DailySales, sales)

	// rolling weeks ending now, labelled in order
	d.WeeklySales = make([]Bucket, 4)
	for i := range d.WeeklySales {
		wEnd := end.AddDate(0, 0, -7*(3-i))
		d.WeeklySales[i] = Bucket{
			Label: fmt.Sprintf("Sem %d", i+1),
			Start: wEnd.AddDate(0, 0, -7),
			End:   wEnd,
			Total: zero,
		}
	}
	Fill(d.WeeklySales, sales)
	return d
}
