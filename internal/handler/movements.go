package handler

import (
	"fmt"
	"net/http"
	"time"

	"korecatalog/internal/apierror"
	"korecatalog/internal/dto"
	"korecatalog/internal/middleware"
	"korecatalog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MovementsHandler exposes the stock-movement ledger: applying movements,
// reading the trail, totals, and the printable PDF export.
type MovementsHandler struct{ svc service.LedgerService }

func NewMovementsHandler(svc service.LedgerService) *MovementsHandler {
	return &MovementsHandler{svc: svc}
}

// Apply godoc
// @Summary Apply a stock movement to a product
// @Tags movements
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param movement body dto.ApplyMovementRequest true "Movement"
// @Success 201 {object} dto.MovementResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.InsufficientStock
// @Router /v1/products/{id}/movements [post]
func (h *MovementsHandler) Apply(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.ApplyMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ApplyMovement(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *MovementsHandler) List(c *gin.Context) {
	var filter dto.MovementFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), middleware.UserID(c), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MovementsHandler) Summary(c *gin.Context) {
	var filter dto.MovementFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.Summary(c.Request.Context(), middleware.UserID(c), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportPDF streams the filtered ledger as a PDF attachment.
func (h *MovementsHandler) ExportPDF(c *gin.Context) {
	var filter dto.MovementFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	pdf, err := h.svc.ExportPDF(c.Request.Context(), middleware.UserID(c), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("movements-%s.pdf", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
