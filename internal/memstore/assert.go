package memstore

import (
	"github.com/fekuna/omnipos-sales-service/internal/account"
	"github.com/fekuna/omnipos-sales-service/internal/cart"
	"github.com/fekuna/omnipos-sales-service/internal/category"
	"github.com/fekuna/omnipos-sales-service/internal/customer"
	"github.com/fekuna/omnipos-sales-service/internal/inventory"
	"github.com/fekuna/omnipos-sales-service/internal/notification"
	"github.com/fekuna/omnipos-sales-service/internal/product"
	"github.com/fekuna/omnipos-sales-service/internal/report"
	"github.com/fekuna/omnipos-sales-service/internal/sale"
)

var (
	_ product.Repository      = (*ProductRepository)(nil)
	_ category.Repository     = (*CategoryRepository)(nil)
	_ customer.Repository     = (*CustomerRepository)(nil)
	_ account.Repository      = (*AccountRepository)(nil)
	_ sale.Repository         = (*SaleRepository)(nil)
	_ inventory.Repository    = (*InventoryRepository)(nil)
	_ notification.Repository = (*NotificationRepository)(nil)
	_ cart.SessionRepository  = (*CartRepository)(nil)
	_ report.Repository       = (*ReportRepository)(nil)
)
