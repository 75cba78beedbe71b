package handler

import (
	"net/http"

	"korecatalog/internal/dto"
	"korecatalog/internal/middleware"
	"korecatalog/internal/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct{ svc service.ProfileService }

func NewProfileHandler(svc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProfileHandler) ToggleTheme(c *gin.Context) {
	resp, err := h.svc.ToggleTheme(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProfileHandler) SetViewMode(c *gin.Context) {
	var req dto.SetViewModeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SetViewMode(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
