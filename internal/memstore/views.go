package memstore

import (
	"context"
	"sort"

	"github.com/fekuna/omnipos-sales-service/internal/cart"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/report"
	"github.com/shopspring/decimal"
)

type NotificationRepository struct{ s *Store }

func visibleTo(n *model.Notification, business model.Business, userID string) bool {
	return (n.Business == nil || *n.Business == business) && (n.UserID == nil || *n.UserID == userID)
}

func (r *NotificationRepository) Create(_ context.Context, notifications []model.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.notifications = append(r.s.notifications, notifications...)
	return nil
}

func (r *NotificationRepository) List(_ context.Context, business model.Business, userID string, limit int) ([]model.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []model.Notification
	for i := len(r.s.notifications) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if n := r.s.notifications[i]; visibleTo(&n, business, userID) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(_ context.Context, business model.Business, userID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	count := 0
	for i := range r.s.notifications {
		if n := &r.s.notifications[i]; !n.Read && visibleTo(n, business, userID) {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, business model.Business, userID, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.notifications {
		if n := &r.s.notifications[i]; n.ID == id && visibleTo(n, business, userID) {
			n.Read = true
			return true, nil
		}
	}
	return false, nil
}

func (r *NotificationRepository) MarkAllRead(_ context.Context, business model.Business, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for i := range r.s.notifications {
		if nt := &r.s.notifications[i]; !nt.Read && visibleTo(nt, business, userID) {
			nt.Read = true
			n++
		}
	}
	return n, nil
}

type CartRepository struct{ s *Store }

func (r *CartRepository) Get(_ context.Context, business model.Business, userID string) (*cart.Cart, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.carts[cart.SessionKey(business, userID)]
	if !ok {
		return nil, nil
	}
	return c.Clone(), nil
}

func (r *CartRepository) Save(_ context.Context, business model.Business, userID string, c *cart.Cart) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.carts[cart.SessionKey(business, userID)] = c.Clone()
	return nil
}

func (r *CartRepository) Delete(_ context.Context, business model.Business, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.carts, cart.SessionKey(business, userID))
	return nil
}

type ReportRepository struct{ s *Store }

func (r *ReportRepository) completed(business model.Business, rg report.Range, fn func(*model.Sale)) {
	for _, s := range r.s.sales {
		if s.Business == business && s.Status == model.SaleStatusCompleted && rg.Contains(s.CreatedAt) {
			fn(s)
		}
	}
}

func (r *ReportRepository) CompletedSales(_ context.Context, business model.Business, rg report.Range) ([]report.SaleRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []report.SaleRow
	r.completed(business, rg, func(s *model.Sale) {
		out = append(out, report.SaleRow{ID: s.ID, Total: s.Total, PaymentMethod: s.PaymentMethod, CreatedAt: s.CreatedAt})
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *ReportRepository) Revenue(_ context.Context, business model.Business, rg report.Range) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := decimal.Zero
	r.completed(business, rg, func(s *model.Sale) { total = total.Add(s.Total) })
	return total, nil
}

func (r *ReportRepository) ProductSales(_ context.Context, business model.Business, rg report.Range) ([]report.ProductSales, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	byProduct := map[string]*report.ProductSales{}
	r.completed(business, rg, func(s *model.Sale) {
		for _, it := range s.Items {
			ps, ok := byProduct[it.ProductID]
			if !ok {
				ps = &report.ProductSales{ProductID: it.ProductID, Code: it.ProductCode, Name: it.ProductName, Revenue: decimal.Zero}
				byProduct[it.ProductID] = ps
			}
			ps.Quantity += it.Quantity
			ps.Revenue = ps.Revenue.Add(it.Total)
		}
	})
	out := make([]report.ProductSales, 0, len(byProduct))
	for _, ps := range byProduct {
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (r *ReportRepository) Counts(_ context.Context, business model.Business) (*report.Counts, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var c report.Counts
	for _, p := range r.s.products {
		if p.Business != business {
			continue
		}
		c.Products++
		if p.Active && p.IsLowStock() {
			c.LowStock++
		}
	}
	for _, cu := range r.s.customers {
		if cu.Business == business {
			c.Customers++
		}
	}
	return &c, nil
}
