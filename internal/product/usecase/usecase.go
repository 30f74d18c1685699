package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/money"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/postgres"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/search"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/validate"
	"github.com/fekuna/omnipos-sales-service/internal/product"
	"github.com/fekuna/omnipos-sales-service/internal/product/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	indexName    = "products"
	listCacheTTL = 5 * time.Minute
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"business": { "type": "keyword" },
			"code": { "type": "keyword" },
			"name": { "type": "text" },
			"description": { "type": "text" },
			"active": { "type": "boolean" },
			"stock": { "type": "integer" },
			"sale_price": { "type": "keyword" },
			"created_at": { "type": "date" }
		}
	}
}`

type productUseCase struct {
	repo   product.Repository
	cache  *cache.RedisClient
	es     *search.Client
	logger logger.ZapLogger
}

// NewProductUseCase accepts nil cache and es; the use-case then reads straight from the repository.
func NewProductUseCase(repo product.Repository, cache *cache.RedisClient, es *search.Client, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:   repo,
		cache:  cache,
		es:     es,
		logger: log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if input.SalePrice.IsNegative() || input.PurchasePrice.IsNegative() {
		return nil, &validate.Error{Fields: map[string]string{"SalePrice": "gte"}}
	}

	unique, err := uc.repo.IsCodeUnique(ctx, input.Business, input.Code, "")
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, product.ErrCodeTaken
	}

	now := time.Now()
	p := &model.Product{
		BaseModel:     model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Business:      input.Business,
		CategoryID:    optional(input.CategoryID),
		Code:          input.Code,
		Name:          input.Name,
		Description:   optional(input.Description),
		ImageURL:      optional(input.ImageURL),
		PurchasePrice: money.Round(input.PurchasePrice),
		SalePrice:     money.Round(input.SalePrice),
		Stock:         input.Stock,
		MinStock:      input.MinStock,
		Active:        true,
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, product.ErrCodeTaken
		}
		return nil, err
	}

	go uc.invalidateProductCache(context.Background(), p.Business)
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}
	_ = uc.es.CreateIndex(ctx, indexName, indexMapping)

	if err := uc.es.Index(ctx, indexName, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (uc *productUseCase) GetProduct(ctx context.Context, business model.Business, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.Business != business {
		return nil, product.ErrNotFound
	}
	return p, nil
}

type cachedList struct {
	Products []model.Product
	Count    int
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	cacheKey := ""
	if uc.cache != nil {
		if key, err := uc.generateCacheKey(filters); err == nil {
			cacheKey = key
			if val, err := uc.cache.Get(ctx, cacheKey); err == nil {
				var result cachedList
				if err := json.Unmarshal(val, &result); err == nil {
					return result.Products, result.Count, nil
				}
			}
		}
	}

	if filters.SearchQuery != "" && uc.es != nil {
		products, count, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return products, count, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" {
		if data, err := json.Marshal(cachedList{Products: products, Count: count}); err == nil {
			if err := uc.cache.Set(ctx, cacheKey, data, listCacheTTL); err != nil {
				uc.logger.Warn("failed to cache product list", zap.Error(err))
			}
		}
	}

	return products, count, nil
}

func (uc *productUseCase) searchElastic(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	must := []map[string]interface{}{
		{
			"query_string": map[string]interface{}{
				"query":  fmt.Sprintf("*%s*", escapeQueryString(f.SearchQuery)),
				"fields": []string{"name^3", "code^2", "description"},
			},
		},
		{"term": map[string]interface{}{"business": f.Business}},
	}
	if f.Active != nil {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{"active": *f.Active}})
	}
	if f.CategoryID != "" {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{"category_id": f.CategoryID}})
	}
	if f.InStock {
		must = append(must, map[string]interface{}{"range": map[string]interface{}{"stock": map[string]interface{}{"gt": 0}}})
	}

	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
	}
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		q["from"] = (page - 1) * f.PageSize
		q["size"] = f.PageSize
	}

	res, err := uc.es.Search(ctx, indexName, q)
	if err != nil {
		return nil, 0, err
	}

	products := make([]model.Product, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err == nil {
			products = append(products, p)
		}
	}
	return products, res.Hits.Total.Value, nil
}

func (uc *productUseCase) generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("products:list:%s:%x", filters.Business, md5.Sum(data)), nil
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context, business model.Business) {
	if uc.cache == nil {
		return
	}
	pattern := fmt.Sprintf("products:list:%s:*", business)
	if err := uc.cache.DeletePattern(ctx, pattern); err != nil {
		uc.logger.Warn("failed to invalidate product cache", zap.String("business", string(business)), zap.Error(err))
	}
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if input.SalePrice.IsNegative() || input.PurchasePrice.IsNegative() {
		return nil, &validate.Error{Fields: map[string]string{"SalePrice": "gte"}}
	}

	p, err := uc.GetProduct(ctx, input.Business, input.ID)
	if err != nil {
		return nil, err
	}

	if p.Code != input.Code {
		unique, err := uc.repo.IsCodeUnique(ctx, input.Business, input.Code, p.ID)
		if err != nil {
			return nil, err
		}
		if !unique {
			return nil, product.ErrCodeTaken
		}
	}

	p.CategoryID = optional(input.CategoryID)
	p.Code = input.Code
	p.Name = input.Name
	p.Description = optional(input.Description)
	p.ImageURL = optional(input.ImageURL)
	p.PurchasePrice = money.Round(input.PurchasePrice)
	p.SalePrice = money.Round(input.SalePrice)
	p.MinStock = input.MinStock
	p.Active = input.Active
	p.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	go uc.invalidateProductCache(context.Background(), p.Business)
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, business model.Business, id string) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil || p.Business != business {
		return nil // already gone
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	go uc.invalidateProductCache(context.Background(), p.Business)
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), indexName, id); err != nil {
				uc.logger.Error("failed to delete product from ES", zap.Error(err))
			}
		}()
	}
	return nil
}

func (uc *productUseCase) ListLowStock(ctx context.Context, business model.Business, limit int) ([]model.Product, error) {
	return uc.repo.ListLowStock(ctx, business, limit)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var queryStringReplacer = strings.NewReplacer(
	`\`, `\\`, `+`, `\+`, `-`, `\-`, `=`, `\=`, `&`, `\&`, `|`, `\|`, `!`, `\!`,
	`(`, `\(`, `)`, `\)`, `{`, `\{`, `}`, `\}`, `[`, `\[`, `]`, `\]`, `^`, `\^`,
	`"`, `\"`, `~`, `\~`, `*`, `\*`, `?`, `\?`, `:`, `\:`, `/`, `\/`, `<`, ``, `>`, ``,
)

// escapeQueryString neutralises query_string syntax in user input. < and > cannot be escaped and are dropped.
func escapeQueryString(s string) string {
	return queryStringReplacer.Replace(strings.TrimSpace(s))
}
