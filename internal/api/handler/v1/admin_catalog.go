package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bikerent/bikerent-api/internal/api/handler/v1/request"
	"github.com/bikerent/bikerent-api/internal/api/handler/v1/response"
	"github.com/bikerent/bikerent-api/internal/domain"
	"github.com/bikerent/bikerent-api/internal/service"
)

type ManufacturerAdminService interface {
	List(ctx context.Context) ([]domain.Manufacturer, error)
	Get(ctx context.Context, id uint) (domain.Manufacturer, error)
	Create(ctx context.Context, name string) (domain.Manufacturer, error)
	Rename(ctx context.Context, id uint, name string) (domain.Manufacturer, error)
	Delete(ctx context.Context, id uint) error
}

type AdminManufacturerHandler struct {
	svc ManufacturerAdminService
}

func NewAdminManufacturerHandler(svc ManufacturerAdminService) *AdminManufacturerHandler {
	return &AdminManufacturerHandler{
		svc: svc,
	}
}

// HandleListManufacturers godoc
// @Summary      Manufacturer grid
// @Tags         admin
// @Produce      json
// @Success      200      {array}    domain.Manufacturer
// @Failure      500      {object}   response.Err
// @Router       /admin/manufacturers [get]
// @Security BearerAuth
func (h *AdminManufacturerHandler) HandleListManufacturers(ctx *gin.Context) {
	items, err := h.svc.List(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListManufacturers -> h.svc.List -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, items)
}

// HandleGetManufacturer godoc
// @Summary      Get a manufacturer
// @Tags         admin
// @Produce      json
// @Param        manufacturerID   path      int  true  "manufacturer ID"
// @Success      200      {object}   domain.Manufacturer
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/manufacturers/{manufacturerID} [get]
// @Security BearerAuth
func (h *AdminManufacturerHandler) HandleGetManufacturer(ctx *gin.Context) {
	id, ok := parseID(ctx, "manufacturerID")
	if !ok {
		return
	}

	item, err := h.svc.Get(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrManufacturerNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("manufacturer", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleGetManufacturer -> h.svc.Get -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, item)
}

// HandleCreateManufacturer godoc
// @Summary      Create a manufacturer
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request   body      request.NameRequest true "request body"
// @Success      201      {object}   domain.Manufacturer
// @Failure      400      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/manufacturers [post]
// @Security BearerAuth
func (h *AdminManufacturerHandler) HandleCreateManufacturer(ctx *gin.Context) {
	var req request.NameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	item, err := h.svc.Create(ctx.Request.Context(), req.Name)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateManufacturer -> h.svc.Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, item)
}

// HandleRenameManufacturer godoc
// @Summary      Rename a manufacturer
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        manufacturerID   path      int  true  "manufacturer ID"
// @Param        request   body      request.NameRequest true "request body"
// @Success      200      {object}   domain.Manufacturer
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/manufacturers/{manufacturerID} [put]
// @Security BearerAuth
func (h *AdminManufacturerHandler) HandleRenameManufacturer(ctx *gin.Context) {
	id, ok := parseID(ctx, "manufacturerID")
	if !ok {
		return
	}

	var req request.NameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	item, err := h.svc.Rename(ctx.Request.Context(), id, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrManufacturerNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("manufacturer", "ID", id))
			return
		}

		renderServiceErr(ctx, "v1.HandleRenameManufacturer -> h.svc.Rename", err)
		return
	}

	ctx.JSON(http.StatusOK, item)
}

// HandleDeleteManufacturer godoc
// @Summary      Delete a manufacturer
// @Description  Fails with 409 while bikes still use it
// @Tags         admin
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/manufacturers/{manufacturerID} [delete]
// @Security BearerAuth
func (h *AdminManufacturerHandler) HandleDeleteManufacturer(ctx *gin.Context) {
	id, ok := parseID(ctx, "manufacturerID")
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), id); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteManufacturer -> h.svc.Delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

type UsageAdminService interface {
	List(ctx context.Context) ([]domain.BikeUsage, error)
	Get(ctx context.Context, id uint) (domain.BikeUsage, error)
	Create(ctx context.Context, name string) (domain.BikeUsage, error)
	Rename(ctx context.Context, id uint, name string) (domain.BikeUsage, error)
	Delete(ctx context.Context, id uint) error
}

type AdminUsageHandler struct {
	svc UsageAdminService
}

func NewAdminUsageHandler(svc UsageAdminService) *AdminUsageHandler {
	return &AdminUsageHandler{
		svc: svc,
	}
}

// HandleListUsages godoc
// @Summary      Usage grid
// @Tags         admin
// @Produce      json
// @Success      200      {array}    domain.BikeUsage
// @Failure      500      {object}   response.Err
// @Router       /admin/usages [get]
// @Security BearerAuth
func (h *AdminUsageHandler) HandleListUsages(ctx *gin.Context) {
	items, err := h.svc.List(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListUsages -> h.svc.List -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, items)
}

// HandleGetUsage godoc
// @Summary      Get a usage
// @Tags         admin
// @Produce      json
// @Param        usageID   path      int  true  "usage ID"
// @Success      200      {object}   domain.BikeUsage
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/usages/{usageID} [get]
// @Security BearerAuth
func (h *AdminUsageHandler) HandleGetUsage(ctx *gin.Context) {
	id, ok := parseID(ctx, "usageID")
	if !ok {
		return
	}

	item, err := h.svc.Get(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUsageNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("usage", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleGetUsage -> h.svc.Get -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, item)
}

// HandleCreateUsage godoc
// @Summary      Create a usage
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request   body      request.NameRequest true "request body"
// @Success      201      {object}   domain.BikeUsage
// @Failure      400      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/usages [post]
// @Security BearerAuth
func (h *AdminUsageHandler) HandleCreateUsage(ctx *gin.Context) {
	var req request.NameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	item, err := h.svc.Create(ctx.Request.Context(), req.Name)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateUsage -> h.svc.Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, item)
}

// HandleRenameUsage godoc
// @Summary      Rename a usage
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        usageID   path      int  true  "usage ID"
// @Param        request   body      request.NameRequest true "request body"
// @Success      200      {object}   domain.BikeUsage
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/usages/{usageID} [put]
// @Security BearerAuth
func (h *AdminUsageHandler) HandleRenameUsage(ctx *gin.Context) {
	id, ok := parseID(ctx, "usageID")
	if !ok {
		return
	}

	var req request.NameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	item, err := h.svc.Rename(ctx.Request.Context(), id, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrUsageNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("usage", "ID", id))
			return
		}

		renderServiceErr(ctx, "v1.HandleRenameUsage -> h.svc.Rename", err)
		return
	}

	ctx.JSON(http.StatusOK, item)
}

// HandleDeleteUsage godoc
// @Summary      Delete a usage
// @Description  Fails with 409 while bikes still use it
// @Tags         admin
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/usages/{usageID} [delete]
// @Security BearerAuth
func (h *AdminUsageHandler) HandleDeleteUsage(ctx *gin.Context) {
	id, ok := parseID(ctx, "usageID")
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), id); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteUsage -> h.svc.Delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
