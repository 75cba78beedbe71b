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

type PriceHistoryHandler struct{ svc service.PriceHistoryService }

func NewPriceHistoryHandler(svc service.PriceHistoryService) *PriceHistoryHandler {
	return &PriceHistoryHandler{svc: svc}
}

// ListByProduct returns the price trail for one owned product, newest first.
func (h *PriceHistoryHandler) ListByProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var filter dto.HistoryFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.ListByProduct(c.Request.Context(), middleware.UserID(c), id, filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Dashboard godoc
// @Summary Cross-product price report for the authenticated user
// @Tags price-history
// @Produce json
// @Success 200 {object} dto.PriceDashboardResponse
// @Router /v1/price-history/dashboard [get]
func (h *PriceHistoryHandler) Dashboard(c *gin.Context) {
	resp, err := h.svc.Dashboard(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
