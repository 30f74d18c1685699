package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fekuna/omnipos-sales-service/internal/inventory"
	"github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/internal/inventory/usecase"
	"github.com/fekuna/omnipos-sales-service/internal/memstore"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/money"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/logger"
)

type watcherSpy struct {
	mu      sync.Mutex
	changes []model.Product
}

func (w *watcherSpy) StockChanged(_ context.Context, _ model.Business, p *model.Product) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.changes = append(w.changes, *p)
}

func newInventoryUseCase(t *testing.T) (inventory.UseCase, *memstore.Store, *watcherSpy) {
	t.Helper()
	store := memstore.New()
	err := store.Products().Create(context.Background(), &model.Product{
		BaseModel: model.BaseModel{ID: "p1"},
		Business:  model.BusinessBendeckTools,
		Code:      "A",
		Name:      "Taladro",
		SalePrice: money.MustParse("100"),
		Stock:     6,
		MinStock:  3,
		Active:    true,
	})
	if err != nil {
		t.Fatal(err)
	}
	spy := &watcherSpy{}
	return usecase.NewInventoryUseCase(store.Inventory(), cache.NewLocalLocker(), nil, spy, logger.NewNop()), store, spy
}

func adjust(change int) *dto.AdjustStockInput {
	return &dto.AdjustStockInput{
		Business:       model.BusinessBendeckTools,
		ProductID:      "p1",
		QuantityChange: change,
		Reason:         "conteo",
		UserID:         "admin",
	}
}

func TestAdjustStockRecordsMovement(t *testing.T) {
	uc, store, spy := newInventoryUseCase(t)
	ctx := context.Background()

	m, err := uc.AdjustStock(ctx, adjust(-4))
	if err != nil {
		t.Fatal(err)
	}
	if m.QuantityBefore != 6 || m.QuantityAfter != 2 || m.MovementType != model.StockMovementAdjustment {
		t.Fatalf("movement = %+v", m)
	}
	p, _ := store.Products().FindByID(ctx, "p1")
	if p.Stock != 2 {
		t.Fatalf("stock = %d, want 2", p.Stock)
	}
	if len(spy.changes) != 1 || spy.changes[0].Stock != 2 {
		t.Fatalf("watcher saw %+v", spy.changes)
	}

	list, total, err := uc.ListMovements(ctx, &dto.MovementFilters{Business: model.BusinessBendeckTools, ProductID: "p1"})
	if err != nil || total != 1 || list[0].Notes != "conteo" {
		t.Fatalf("ListMovements = %+v, %d, %v", list, total, err)
	}
}

func TestAdjustStockRejects(t *testing.T) {
	uc, store, spy := newInventoryUseCase(t)
	ctx := context.Background()

	otherBusiness := adjust(1)
	otherBusiness.Business = model.BusinessLusqtoff

	tests := []struct {
		name  string
		input *dto.AdjustStockInput
		want  error
	}{
		{"zero change", adjust(0), inventory.ErrZeroAdjustment},
		{"below zero", adjust(-7), inventory.ErrInsufficientStock},
		{"other business", otherBusiness, inventory.ErrProductNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.AdjustStock(ctx, tt.input); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	p, _ := store.Products().FindByID(ctx, "p1")
	if p.Stock != 6 || len(spy.changes) != 0 {
		t.Fatalf("rejected adjustments changed stock to %d", p.Stock)
	}
}
