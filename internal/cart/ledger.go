package cart

import (
	"errors"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/money"
	"github.com/shopspring/decimal"
)

var (
	ErrAccountNeedsCustomer = errors.New("account payment requires a selected customer")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// ProductRef is the product data a line captures when it is added.
type ProductRef struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	SalePrice decimal.Decimal `json:"sale_price"`
	Stock     int             `json:"stock"`
}

type CustomerRef struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
}

type Line struct {
	Product   ProductRef      `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"` // percentage 0..100
	Total     decimal.Decimal `json:"total"`
}

func (l *Line) recompute() {
	l.Total = money.LineTotal(l.Quantity, l.UnitPrice, l.Discount)
}

// Gross is quantity × unit price before the line discount.
func (l Line) Gross() decimal.Decimal {
	return money.Gross(l.Quantity, l.UnitPrice)
}

// Cart is the in-progress sale of one seller. It does no I/O.
// Lines keep insertion order and hold at most one entry per product.
type Cart struct {
	Items         []Line              `json:"items"`
	Customer      *CustomerRef        `json:"customer,omitempty"`
	PaymentMethod model.PaymentMethod `json:"payment_method,omitempty"`
	Notes         string              `json:"notes"`
}

func New() *Cart {
	return &Cart{Items: []Line{}}
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// AddItem merges into the existing line for the product or appends a new one.
// Stock is not checked here. A quantity below 1 adds one unit.
func (c *Cart) AddItem(p ProductRef, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	if i := c.indexOf(p.ID); i >= 0 {
		c.Items[i].Quantity += quantity
		c.Items[i].recompute()
		return
	}
	line := Line{
		Product:   p,
		Quantity:  quantity,
		UnitPrice: p.SalePrice,
		Discount:  money.Zero,
	}
	line.recompute()
	c.Items = append(c.Items, line)
}

func (c *Cart) RemoveItem(productID string) {
	if i := c.indexOf(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

// UpdateQuantity removes the line when quantity <= 0. It does not clamp to stock.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	if i := c.indexOf(productID); i >= 0 {
		c.Items[i].Quantity = quantity
		c.Items[i].recompute()
	}
}

func (c *Cart) UpdateDiscount(productID string, discount decimal.Decimal) {
	if i := c.indexOf(productID); i >= 0 {
		c.Items[i].Discount = money.ClampPercent(discount)
		c.Items[i].recompute()
	}
}

// SetCustomer clears an account payment method when the customer is removed.
func (c *Cart) SetCustomer(customer *CustomerRef) {
	c.Customer = customer
	if customer == nil && c.PaymentMethod == model.PaymentAccount {
		c.PaymentMethod = ""
	}
}

// SetPaymentMethod accepts the empty method as "unset".
func (c *Cart) SetPaymentMethod(method model.PaymentMethod) error {
	if method == "" {
		c.PaymentMethod = ""
		return nil
	}
	if !method.Valid() {
		return ErrInvalidPaymentMethod
	}
	if method == model.PaymentAccount && c.Customer == nil {
		return ErrAccountNeedsCustomer
	}
	c.PaymentMethod = method
	return nil
}

func (c *Cart) SetNotes(notes string) {
	c.Notes = notes
}

func (c *Cart) Clear() {
	*c = Cart{Items: []Line{}}
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) Subtotal() decimal.Decimal {
	sum := money.Zero
	for _, l := range c.Items {
		sum = sum.Add(l.Gross())
	}
	return sum
}

func (c *Cart) TotalDiscount() decimal.Decimal {
	sum := money.Zero
	for _, l := range c.Items {
		sum = sum.Add(money.DiscountAmount(l.Gross(), l.Discount))
	}
	return sum
}

func (c *Cart) Total() decimal.Decimal {
	sum := money.Zero
	for _, l := range c.Items {
		sum = sum.Add(l.Total)
	}
	return sum
}

func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Items {
		n += l.Quantity
	}
	return n
}

// Clone returns a deep copy that later mutations of c cannot reach.
func (c *Cart) Clone() *Cart {
	out := &Cart{
		Items:         make([]Line, len(c.Items)),
		PaymentMethod: c.PaymentMethod,
		Notes:         c.Notes,
	}
	copy(out.Items, c.Items)
	if c.Customer != nil {
		cust := *c.Customer
		out.Customer = &cust
	}
	return out
}
