// Package memstore keeps every repository in process memory behind one mutex.
// It backs STORE_DRIVER=memory and the use-case tests; a sale commit is atomic
// because the whole store is locked while it runs.
package memstore

import (
	"strings"
	"sync"

	"github.com/fekuna/omnipos-sales-service/internal/cart"
	"github.com/fekuna/omnipos-sales-service/internal/model"
)

type Store struct {
	mu sync.RWMutex

	products       map[string]model.Product
	categories     map[string]model.Category
	customers      map[string]model.Customer
	sales          map[string]*model.Sale
	salesByKey     map[string]string
	nextSaleNumber int64
	movements      []model.AccountMovement
	stockMovements []model.StockMovement
	notifications  []model.Notification
	carts          map[string]*cart.Cart
}

func New() *Store {
	return &Store{
		products:       make(map[string]model.Product),
		categories:     make(map[string]model.Category),
		customers:      make(map[string]model.Customer),
		sales:          make(map[string]*model.Sale),
		salesByKey:     make(map[string]string),
		nextSaleNumber: 1,
		carts:          make(map[string]*cart.Cart),
	}
}

func (s *Store) Products() *ProductRepository { return &ProductRepository{s: s} }

func (s *Store) Categories() *CategoryRepository { return &CategoryRepository{s: s} }

func (s *Store) Customers() *CustomerRepository { return &CustomerRepository{s: s} }

func (s *Store) Accounts() *AccountRepository { return &AccountRepository{s: s} }

func (s *Store) Sales() *SaleRepository { return &SaleRepository{s: s} }

func (s *Store) Inventory() *InventoryRepository { return &InventoryRepository{s: s} }

func (s *Store) Notifications() *NotificationRepository { return &NotificationRepository{s: s} }

func (s *Store) Carts() *CartRepository { return &CartRepository{s: s} }

func (s *Store) Reports() *ReportRepository { return &ReportRepository{s: s} }

// page returns the bounds of the requested page over n items; pageSize <= 0 means everything.
func page(n, pageNum, pageSize int) (int, int) {
	if pageSize <= 0 {
		return 0, n
	}
	if pageNum < 1 {
		pageNum = 1
	}
	lo := (pageNum - 1) * pageSize
	if lo > n {
		lo = n
	}
	hi := lo + pageSize
	if hi > n {
		hi = n
	}
	return lo, hi
}

// matches is the in-memory ILIKE '%q%' over any of fields.
func matches(q string, fields ...string) bool {
	q = strings.ToLower(q)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
