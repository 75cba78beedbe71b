package handler

import (
	"net/http"

	"korecatalog/internal/apierror"
	"korecatalog/internal/dto"
	"korecatalog/internal/middleware"
	"korecatalog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductsHandler struct {
	svc     service.ProductService
	ledger  service.LedgerService
	history service.PriceHistoryService
}

func NewProductsHandler(svc service.ProductService, ledger service.LedgerService, history service.PriceHistoryService) *ProductsHandler {
	return &ProductsHandler{svc: svc, ledger: ledger, history: history}
}

func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), middleware.UserID(c), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get returns the product together with its recent price history and
// movement trail.
func (h *ProductsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	userID := middleware.UserID(c)

	product, err := h.svc.Get(c.Request.Context(), userID, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	history, err := h.history.ListByProduct(c.Request.Context(), userID, id, dto.HistoryFilter{Page: 1, Limit: 50})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	movements, err := h.ledger.ListMovements(c.Request.Context(), userID, dto.MovementFilter{
		ProductID: id.String(), Page: 1, Limit: 50,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProductDetailResponse{
		ProductResponse: *product,
		PriceHistory:    history.Data,
		Movements:       movements.Data,
	})
}

func (h *ProductsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
