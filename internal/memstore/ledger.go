package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/fekuna/omnipos-sales-service/internal/account"
	accountDto "github.com/fekuna/omnipos-sales-service/internal/account/dto"
	"github.com/fekuna/omnipos-sales-service/internal/inventory"
	inventoryDto "github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/money"
	"github.com/fekuna/omnipos-sales-service/internal/sale"
	saleDto "github.com/fekuna/omnipos-sales-service/internal/sale/dto"
	"github.com/google/uuid"
)

func copySale(s *model.Sale) *model.Sale {
	c := *s
	c.Items = append([]model.SaleItem(nil), s.Items...)
	return &c
}

type SaleRepository struct{ s *Store }

func (r *SaleRepository) CommitSale(ctx context.Context, in *model.Sale, opts sale.CommitOptions) (*sale.CommitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	st := r.s
	st.mu.Lock()
	defer st.mu.Unlock()

	if id, ok := st.salesByKey[in.IdempotencyKey]; ok {
		return &sale.CommitResult{Sale: copySale(st.sales[id]), Replayed: true}, nil
	}

	// every check runs before the first write so a failure leaves nothing behind
	var cust model.Customer
	if in.PaymentMethod == model.PaymentAccount {
		if in.CustomerID == nil {
			return nil, sale.ErrAccountNeedsCustomer
		}
		c, ok := st.customers[*in.CustomerID]
		if !ok {
			return nil, account.ErrCustomerNotFound
		}
		cust = c
	}

	in.SaleNumber = st.nextSaleNumber
	st.nextSaleNumber++
	res := &sale.CommitResult{Sale: in}

	if opts.DecrementStock {
		res.Stock = st.decrementStock(in)
	}

	if in.PaymentMethod == model.PaymentAccount {
		m := model.AccountMovement{
			ID:          uuid.New().String(),
			CustomerID:  cust.ID,
			SaleID:      &in.ID,
			Type:        model.MovementSale,
			Amount:      money.Round(in.Total),
			Description: fmt.Sprintf("Venta #%d", in.SaleNumber),
			CreatedBy:   &in.SellerID,
			CreatedAt:   in.CreatedAt,
		}
		st.appendMovement(&m, cust)
		res.Movement = &m
	}

	st.sales[in.ID] = copySale(in)
	st.salesByKey[in.IdempotencyKey] = in.ID
	return res, nil
}

func (s *Store) decrementStock(in *model.Sale) []sale.StockChange {
	qty := map[string]int{}
	for _, it := range in.Items {
		qty[it.ProductID] += it.Quantity
	}
	ids := make([]string, 0, len(qty))
	for id := range qty {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var changes []sale.StockChange
	for _, id := range ids {
		p, ok := s.products[id]
		if !ok || p.Business != in.Business {
			continue
		}
		before := p.Stock
		p.Stock -= qty[id]
		p.UpdatedAt = in.CreatedAt
		s.products[id] = p

		changes = append(changes, sale.StockChange{
			ProductID: id,
			Code:      p.Code,
			Name:      p.Name,
			Before:    before,
			After:     p.Stock,
			MinStock:  p.MinStock,
		})
		s.stockMovements = append(s.stockMovements, model.StockMovement{
			ID:             uuid.New().String(),
			Business:       in.Business,
			ProductID:      id,
			SaleID:         &in.ID,
			MovementType:   model.StockMovementSale,
			QuantityChange: -qty[id],
			QuantityBefore: before,
			QuantityAfter:  p.Stock,
			Notes:          fmt.Sprintf("Venta #%d", in.SaleNumber),
			CreatedBy:      &in.SellerID,
			CreatedAt:      in.CreatedAt,
		})
	}
	return changes
}

// appendMovement must run with s.mu held.
func (s *Store) appendMovement(m *model.AccountMovement, c model.Customer) {
	m.Amount = money.Round(m.Amount)
	m.BalanceAfter = money.Round(c.CurrentBalance.Add(m.Amount))
	s.movements = append(s.movements, *m)
	c.CurrentBalance = m.BalanceAfter
	c.UpdatedAt = m.CreatedAt
	s.customers[c.ID] = c
}

func (r *SaleRepository) find(match func(*model.Sale) bool) *model.Sale {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, s := range r.s.sales {
		if match(s) {
			return copySale(s)
		}
	}
	return nil
}

func (r *SaleRepository) FindByID(_ context.Context, id string) (*model.Sale, error) {
	return r.find(func(s *model.Sale) bool { return s.ID == id }), nil
}

func (r *SaleRepository) FindByNumber(_ context.Context, business model.Business, number int64) (*model.Sale, error) {
	return r.find(func(s *model.Sale) bool { return s.Business == business && s.SaleNumber == number }), nil
}

func (r *SaleRepository) FindByIdempotencyKey(_ context.Context, key string) (*model.Sale, error) {
	r.s.mu.RLock()
	id, ok := r.s.salesByKey[key]
	r.s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return r.FindByID(context.Background(), id)
}

// FindAll returns headers without items, newest first, like the SQL store.
func (r *SaleRepository) FindAll(_ context.Context, f *saleDto.SaleFilters) ([]model.Sale, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []model.Sale
	for _, s := range r.s.sales {
		if f.Business != "" && s.Business != f.Business {
			continue
		}
		if f.CustomerID != "" && deref(s.CustomerID) != f.CustomerID {
			continue
		}
		if f.SellerID != "" && s.SellerID != f.SellerID {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		if f.PaymentMethod != "" && s.PaymentMethod != f.PaymentMethod {
			continue
		}
		if f.From != nil && s.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !s.CreatedAt.Before(*f.To) {
			continue
		}
		h := *s
		h.Items = nil
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SaleNumber > out[j].SaleNumber })
	lo, hi := page(len(out), f.Page, f.PageSize)
	return out[lo:hi], len(out), nil
}

type AccountRepository struct{ s *Store }

func (r *AccountRepository) AppendMovement(ctx context.Context, m *model.AccountMovement) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[m.CustomerID]
	if !ok {
		return account.ErrCustomerNotFound
	}
	r.s.appendMovement(m, c)
	return nil
}

func (r *AccountRepository) ListMovements(_ context.Context, f *accountDto.MovementFilters) ([]model.AccountMovement, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []model.AccountMovement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if m.CustomerID != f.CustomerID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		out = append(out, m)
	}
	lo, hi := page(len(out), f.Page, f.PageSize)
	return out[lo:hi], len(out), nil
}

func (r *AccountRepository) History(_ context.Context, customerID string) ([]model.AccountMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []model.AccountMovement
	for _, m := range r.s.movements {
		if m.CustomerID == customerID {
			out = append(out, m)
		}
	}
	return out, nil
}

type InventoryRepository struct{ s *Store }

func (r *InventoryRepository) AdjustStockWithMovement(ctx context.Context, m *model.StockMovement) (*model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[m.ProductID]
	if !ok || p.Business != m.Business {
		return nil, inventory.ErrProductNotFound
	}
	m.QuantityBefore = p.Stock
	m.QuantityAfter = p.Stock + m.QuantityChange
	if m.QuantityAfter < 0 {
		return nil, inventory.ErrInsufficientStock
	}
	p.Stock = m.QuantityAfter
	p.UpdatedAt = m.CreatedAt
	r.s.products[p.ID] = p
	r.s.stockMovements = append(r.s.stockMovements, *m)
	return &p, nil
}

func (r *InventoryRepository) ListMovements(_ context.Context, f *inventoryDto.MovementFilters) ([]model.StockMovement, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []model.StockMovement
	for i := len(r.s.stockMovements) - 1; i >= 0; i-- {
		m := r.s.stockMovements[i]
		if f.Business != "" && m.Business != f.Business {
			continue
		}
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.SaleID != "" && deref(m.SaleID) != f.SaleID {
			continue
		}
		if f.MovementType != "" && m.MovementType != f.MovementType {
			continue
		}
		if f.StartDate != nil && m.CreatedAt.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && !m.CreatedAt.Before(*f.EndDate) {
			continue
		}
		out = append(out, m)
	}
	lo, hi := page(len(out), f.Page, f.PageSize)
	return out[lo:hi], len(out), nil
}
