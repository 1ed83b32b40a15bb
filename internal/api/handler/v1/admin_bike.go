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

type BikeAdminService interface {
	ListBikes(ctx context.Context) ([]domain.Bike, error)
	GetBike(ctx context.Context, id uint) (domain.Bike, error)
	CreateBike(ctx context.Context, in service.BikeInput) (domain.Bike, error)
	UpdateBike(ctx context.Context, id uint, in service.BikeInput) (domain.Bike, error)
	DeleteBike(ctx context.Context, id uint) error
}

type AdminBikeHandler struct {
	svc BikeAdminService
}

func NewAdminBikeHandler(svc BikeAdminService) *AdminBikeHandler {
	return &AdminBikeHandler{
		svc: svc,
	}
}

func bikeInput(req request.BikeRequest) service.BikeInput {
	return service.BikeInput{
		ManufacturerID: req.ManufacturerID,
		Name:           req.Name,
		UsageID:        req.UsageID,
		GalleryID:      req.GalleryID,
		FrameMaterial:  req.FrameMaterial,
		FrameSize:      req.FrameSize,
		WheelSize:      req.WheelSize,
		ForkTravel:     req.ForkTravel,
		ShockTravel:    req.ShockTravel,
		Speeds:         req.Speeds,
		Price:          req.Price,
	}
}

// HandleListBikes godoc
// @Summary      Bike grid
// @Tags         admin
// @Produce      json
// @Success      200      {array}    domain.Bike
// @Failure      500      {object}   response.Err
// @Router       /admin/bikes [get]
// @Security BearerAuth
func (h *AdminBikeHandler) HandleListBikes(ctx *gin.Context) {
	bikes, err := h.svc.ListBikes(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListBikes -> h.svc.ListBikes -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, bikes)
}

// HandleGetBike godoc
// @Summary      Get a bike
// @Tags         admin
// @Produce      json
// @Param        bikeID   path      int  true  "bike ID"
// @Success      200      {object}   domain.Bike
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/bikes/{bikeID} [get]
// @Security BearerAuth
func (h *AdminBikeHandler) HandleGetBike(ctx *gin.Context) {
	id, ok := parseID(ctx, "bikeID")
	if !ok {
		return
	}

	bike, err := h.svc.GetBike(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrBikeNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("bike", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleGetBike -> h.svc.GetBike -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, bike)
}

// HandleCreateBike godoc
// @Summary      Create a bike
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request   body      request.BikeRequest true "request body"
// @Success      201      {object}   domain.Bike
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/bikes [post]
// @Security BearerAuth
func (h *AdminBikeHandler) HandleCreateBike(ctx *gin.Context) {
	var req request.BikeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	bike, err := h.svc.CreateBike(ctx.Request.Context(), bikeInput(req))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateBike -> h.svc.CreateBike", err)
		return
	}

	ctx.JSON(http.StatusCreated, bike)
}

// HandleUpdateBike godoc
// @Summary      Edit a bike
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        bikeID   path      int  true  "bike ID"
// @Param        request   body      request.BikeRequest true "request body"
// @Success      200      {object}   domain.Bike
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/bikes/{bikeID} [put]
// @Security BearerAuth
func (h *AdminBikeHandler) HandleUpdateBike(ctx *gin.Context) {
	id, ok := parseID(ctx, "bikeID")
	if !ok {
		return
	}

	var req request.BikeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	bike, err := h.svc.UpdateBike(ctx.Request.Context(), id, bikeInput(req))
	if err != nil {
		if errors.Is(err, service.ErrBikeNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("bike", "ID", id))
			return
		}

		renderServiceErr(ctx, "v1.HandleUpdateBike -> h.svc.UpdateBike", err)
		return
	}

	ctx.JSON(http.StatusOK, bike)
}

// HandleDeleteBike godoc
// @Summary      Delete a bike
// @Tags         admin
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/bikes/{bikeID} [delete]
// @Security BearerAuth
func (h *AdminBikeHandler) HandleDeleteBike(ctx *gin.Context) {
	id, ok := parseID(ctx, "bikeID")
	if !ok {
		return
	}

	if err := h.svc.DeleteBike(ctx.Request.Context(), id); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteBike -> h.svc.DeleteBike", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
