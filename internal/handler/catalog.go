package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"korecatalog/internal/apierror"
	"korecatalog/internal/dto"
	"korecatalog/internal/infra"
	"korecatalog/internal/model"
	"korecatalog/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CatalogHandler serves the public, unauthenticated product surface.
// Read-only — no side effects whatsoever. Hot paths are cached in Redis;
// the cache worker drops the keys whenever an owner edits their catalog.
type CatalogHandler struct {
	repo repository.ProductRepository
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCatalogHandler(repo repository.ProductRepository, rdb *redis.Client, ttl time.Duration) *CatalogHandler {
	return &CatalogHandler{repo: repo, rdb: rdb, ttl: ttl}
}

// List godoc
// @Summary Browse public products (no authentication)
// @Tags catalog
// @Produce json
// @Param owner query string false "Filter by owner username"
// @Success 200 {object} dto.CatalogListResponse
// @Router /v1/catalog [get]
func (h *CatalogHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	owner := c.Query("owner")
	ctx := c.Request.Context()

	// Only the default first page is cached — filtered reads go to the DB.
	cacheKey := infra.CatalogCacheKey(owner)
	if isDefaultCatalogFilter(filter) {
		if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp dto.CatalogListResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	products, total, err := h.repo.ListPublic(ctx, owner, filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	items := make([]dto.CatalogProductResponse, 0, len(products))
	for i := range products {
		items = append(items, catalogProductToResponse(&products[i]))
	}
	resp := dto.CatalogListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}

	if isDefaultCatalogFilter(filter) {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = h.rdb.Set(context.Background(), cacheKey, b, h.ttl).Err()
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Get serves the public detail for one product. Private products are
// indistinguishable from missing ones.
func (h *CatalogHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	ctx := c.Request.Context()
	cacheKey := infra.CatalogProductCacheKey(id.String())

	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.CatalogProductResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	product, err := h.repo.FindByID(ctx, id)
	if err != nil || !product.Public {
		c.JSON(http.StatusNotFound, apierror.New("product not found"))
		return
	}

	resp := catalogProductToResponse(product)
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, h.ttl).Err()
	}

	c.JSON(http.StatusOK, resp)
}

func isDefaultCatalogFilter(filter dto.ProductFilter) bool {
	return filter.Query == "" && filter.Category == "" &&
		filter.MinPrice == "" && filter.MaxPrice == "" &&
		filter.MinStock == nil && filter.MaxStock == nil &&
		filter.Sort == "" && (filter.Page == 0 || filter.Page == 1)
}

func catalogProductToResponse(p *model.Product) dto.CatalogProductResponse {
	cats := make([]dto.CategoryResponse, 0, len(p.Categories))
	for i := range p.Categories {
		cats = append(cats, dto.CategoryResponse{
			ID:          p.Categories[i].ID.String(),
			Name:        p.Categories[i].Name,
			Slug:        p.Categories[i].Slug,
			Description: p.Categories[i].Description,
			Color:       p.Categories[i].Color,
		})
	}
	resp := dto.CatalogProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Categories:  cats,
	}
	if p.Owner != nil {
		resp.Owner = p.Owner.Username
	}
	return resp
}
