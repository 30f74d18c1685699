package sale

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/i18n"
	"github.com/shopspring/decimal"
)

// Receipt is the printable view of a committed sale.
type Receipt struct {
	SaleNumber    int64               `json:"sale_number"`
	Business      model.Business      `json:"business"`
	BusinessName  string              `json:"business_name"`
	Items         []ReceiptLine       `json:"items"`
	CustomerName  string              `json:"customer_name,omitempty"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	Discount      decimal.Decimal     `json:"discount"`
	Total         decimal.Decimal     `json:"total"`
	SellerName    string              `json:"seller_name"`
	Notes         string              `json:"notes,omitempty"`
	// BalanceAfter is the customer's balance after an account sale.
	BalanceAfter *decimal.Decimal `json:"balance_after,omitempty"`
	IssuedAt     time.Time        `json:"issued_at"`
}

type ReceiptLine struct {
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
}

// BuildReceipt reads only persisted sale fields, so reprints match the original ticket.
func BuildReceipt(s *model.Sale) *Receipt {
	r := &Receipt{
		SaleNumber:    s.SaleNumber,
		Business:      s.Business,
		BusinessName:  s.Business.DisplayName(),
		Items:         make([]ReceiptLine, 0, len(s.Items)),
		PaymentMethod: s.PaymentMethod,
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		Total:         s.Total,
		SellerName:    s.SellerName,
		IssuedAt:      s.CreatedAt,
	}
	if s.CustomerName != nil {
		r.CustomerName = *s.CustomerName
	}
	if s.Notes != nil {
		r.Notes = *s.Notes
	}
	for _, it := range s.Items {
		r.Items = append(r.Items, ReceiptLine{
			Code:      it.ProductCode,
			Name:      it.ProductName,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Discount:  it.Discount,
			Total:     it.Total,
		})
	}
	return r
}

const receiptWidth = 40

// RenderText lays the receipt out for a 40-column ticket printer.
func RenderText(r *Receipt, tr *i18n.Translator) string {
	var b strings.Builder
	rule := strings.Repeat("-", receiptWidth)

	center(&b, r.BusinessName)
	center(&b, tr.T("receipt.title", nil))
	center(&b, tr.T("receipt.number", map[string]interface{}{"Number": r.SaleNumber}))
	b.WriteString(rule + "\n")
	pair(&b, tr.T("receipt.date", nil), r.IssuedAt.Format("02/01/2006 15:04"))
	if r.SellerName != "" {
		pair(&b, tr.T("receipt.seller", nil), r.SellerName)
	}
	if r.CustomerName != "" {
		pair(&b, tr.T("receipt.customer", nil), r.CustomerName)
	}
	b.WriteString(rule + "\n")

	for _, it := range r.Items {
		b.WriteString(truncate(fmt.Sprintf("%s %s", it.Code, it.Name), receiptWidth) + "\n")
		detail := fmt.Sprintf("  %d x %s", it.Quantity, it.UnitPrice.StringFixed(2))
		if it.Discount.IsPositive() {
			detail += fmt.Sprintf(" -%s%%", it.Discount.String())
		}
		pair(&b, detail, it.Total.StringFixed(2))
	}

	b.WriteString(rule + "\n")
	pair(&b, tr.T("receipt.subtotal", nil), r.Subtotal.StringFixed(2))
	if r.Discount.IsPositive() {
		pair(&b, tr.T("receipt.discount", nil), "-"+r.Discount.StringFixed(2))
	}
	pair(&b, tr.T("receipt.total", nil), r.Total.StringFixed(2))
	pair(&b, tr.T("receipt.payment", nil), PaymentLabel(r.PaymentMethod, tr))
	if r.BalanceAfter != nil {
		pair(&b, tr.T("receipt.balance", nil), r.BalanceAfter.StringFixed(2))
	}
	if r.Notes != "" {
		b.WriteString(rule + "\n")
		b.WriteString(tr.T("receipt.notes", nil) + ": " + r.Notes + "\n")
	}
	b.WriteString(rule + "\n")
	center(&b, tr.T("receipt.thanks", nil))
	return b.String()
}

func PaymentLabel(m model.PaymentMethod, tr *i18n.Translator) string {
	if m == "" {
		return ""
	}
	return tr.T("payment."+string(m), nil)
}

func center(b *strings.Builder, s string) {
	s = truncate(s, receiptWidth)
	pad := (receiptWidth - utf8.RuneCountInString(s)) / 2
	b.WriteString(strings.Repeat(" ", pad) + s + "\n")
}

// pair writes left and right on one line, right-aligned to the ticket width.
func pair(b *strings.Builder, left, right string) {
	space := receiptWidth - utf8.RuneCountInString(right) - 1
	left = truncate(left, space)
	gap := receiptWidth - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(left + strings.Repeat(" ", gap) + right + "\n")
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
