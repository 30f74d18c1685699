package memstore

import (
	"context"
	"sort"
	"strings"

	categoryDto "github.com/fekuna/omnipos-sales-service/internal/category/dto"
	"github.com/fekuna/omnipos-sales-service/internal/customer"
	customerDto "github.com/fekuna/omnipos-sales-service/internal/customer/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/product"
	productDto "github.com/fekuna/omnipos-sales-service/internal/product/dto"
)

type ProductRepository struct{ s *Store }

func (r *ProductRepository) Create(_ context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.products {
		if existing.Business == p.Business && existing.Code == p.Code {
			return product.ErrCodeTaken
		}
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepository) FindByID(_ context.Context, id string) (*model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	r.s.attachCategory(&p)
	return &p, nil
}

func (s *Store) attachCategory(p *model.Product) {
	if p.CategoryID == nil {
		return
	}
	if c, ok := s.categories[*p.CategoryID]; ok {
		p.Category = &c
	}
}

func (r *ProductRepository) FindByIDs(_ context.Context, ids []string) ([]model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProductRepository) FindAll(_ context.Context, f *productDto.ProductFilters) ([]model.Product, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []model.Product
	for _, p := range r.s.products {
		if f.Business != "" && p.Business != f.Business {
			continue
		}
		if f.CategoryID != "" && deref(p.CategoryID) != f.CategoryID {
			continue
		}
		if f.Active != nil && p.Active != *f.Active {
			continue
		}
		if f.InStock && p.Stock <= 0 {
			continue
		}
		if f.SearchQuery != "" && !matches(f.SearchQuery, p.Code, p.Name, deref(p.Description)) {
			continue
		}
		out = append(out, p)
	}

	less := func(a, b model.Product) bool { return a.Name < b.Name }
	switch f.SortBy {
	case "price":
		less = func(a, b model.Product) bool { return a.SalePrice.LessThan(b.SalePrice) }
	case "stock":
		less = func(a, b model.Product) bool { return a.Stock < b.Stock }
	case "created_at":
		less = func(a, b model.Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
	desc := strings.ToLower(f.SortOrder) == "desc"
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})

	lo, hi := page(len(out), f.Page, f.PageSize)
	return out[lo:hi], len(out), nil
}

func (r *ProductRepository) Update(_ context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.products[p.ID]
	if !ok {
		return nil
	}
	for _, other := range r.s.products {
		if other.ID != p.ID && other.Business == p.Business && other.Code == p.Code {
			return product.ErrCodeTaken
		}
	}
	// stock only moves through sales and adjustments
	p.Stock = existing.Stock
	p.Category = nil
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.products, id)
	return nil
}

func (r *ProductRepository) IsCodeUnique(_ context.Context, business model.Business, code, excludeID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if p.Business == business && p.Code == code && p.ID != excludeID {
			return false, nil
		}
	}
	return true, nil
}

func (r *ProductRepository) ListLowStock(_ context.Context, business model.Business, limit int) ([]model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []model.Product
	for _, p := range r.s.products {
		if p.Business == business && p.Active && p.IsLowStock() {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Stock != out[j].Stock {
			return out[i].Stock < out[j].Stock
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type CategoryRepository struct{ s *Store }

func (r *CategoryRepository) Create(_ context.Context, c *model.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepository) FindByID(_ context.Context, id string) (*model.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CategoryRepository) FindAll(_ context.Context, f *categoryDto.CategoryFilters) ([]model.Category, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []model.Category
	for _, c := range r.s.categories {
		if f.Business != "" && c.Business != f.Business {
			continue
		}
		if f.SearchQuery != "" && !matches(f.SearchQuery, c.Name, deref(c.Description)) {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	lo, hi := page(len(out), f.Page, f.PageSize)
	return out[lo:hi], len(out), nil
}

func (r *CategoryRepository) Update(_ context.Context, c *model.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[c.ID]; ok {
		r.s.categories[c.ID] = *c
	}
	return nil
}

// Delete detaches the category from its products, as ON DELETE SET NULL does.
func (r *CategoryRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.categories, id)
	for pid, p := range r.s.products {
		if deref(p.CategoryID) == id {
			p.CategoryID = nil
			r.s.products[pid] = p
		}
	}
	return nil
}

type CustomerRepository struct{ s *Store }

func (r *CustomerRepository) Create(_ context.Context, c *model.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.customers {
		if existing.Business == c.Business && existing.Code == c.Code {
			return customer.ErrCodeTaken
		}
	}
	r.s.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepository) FindByID(_ context.Context, id string) (*model.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CustomerRepository) FindAll(_ context.Context, f *customerDto.CustomerFilters) ([]model.Customer, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []model.Customer
	for _, c := range r.s.customers {
		if f.Business != "" && c.Business != f.Business {
			continue
		}
		if f.Active != nil && c.Active != *f.Active {
			continue
		}
		if f.WithBalance && c.CurrentBalance.IsZero() {
			continue
		}
		if f.SearchQuery != "" && !matches(f.SearchQuery, c.Code, c.Name, deref(c.Email), deref(c.Phone)) {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	lo, hi := page(len(out), f.Page, f.PageSize)
	return out[lo:hi], len(out), nil
}

// Update keeps the stored balance; it only changes through the account ledger.
func (r *CustomerRepository) Update(_ context.Context, c *model.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.customers[c.ID]
	if !ok {
		return nil
	}
	for _, other := range r.s.customers {
		if other.ID != c.ID && other.Business == c.Business && other.Code == c.Code {
			return customer.ErrCodeTaken
		}
	}
	c.CurrentBalance = existing.CurrentBalance
	r.s.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepository) IsCodeUnique(_ context.Context, business model.Business, code, excludeID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.customers {
		if c.Business == business && c.Code == code && c.ID != excludeID {
			return false, nil
		}
	}
	return true, nil
}

func (r *CustomerRepository) Count(_ context.Context, business model.Business) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, c := range r.s.customers {
		if c.Business == business {
			n++
		}
	}
	return n, nil
}
