package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/bikerent/bikerent-api/internal/api/handler/v1/request"
	"github.com/bikerent/bikerent-api/internal/api/handler/v1/response"
	"github.com/bikerent/bikerent-api/internal/domain"
	"github.com/bikerent/bikerent-api/internal/service"
)

type CatalogService interface {
	ListBikes(ctx context.Context) ([]domain.Bike, error)
	GetBike(ctx context.Context, id uint) (domain.Bike, error)
	BikesByIDs(ctx context.Context, ids []uint) ([]domain.Bike, error)
	Filter(ctx context.Context, in service.FilterInput, cart service.FilterCart) (service.FilterResult, error)
	FilterOptions(ctx context.Context) (domain.FilterOptions, error)
}

type ProductHandler struct {
	svc CatalogService
}

func NewProductHandler(svc CatalogService) *ProductHandler {
	return &ProductHandler{
		svc: svc,
	}
}

func (h *ProductHandler) cart(ctx *gin.Context) *service.CartService {
	return service.NewCartService(sessions.Default(ctx), h.svc)
}

func toDateRange(r service.DateRange) response.DateRange {
	return response.DateRange{From: r.From, To: r.To}
}

// HandleListProducts godoc
// @Summary      List bikes
// @Description  Lists every bike together with the dates held in the cart
// @Tags         storefront
// @Produce      json
// @Success      200      {object}   response.Products
// @Failure      500      {object}   response.Err
// @Router       /products [get]
func (h *ProductHandler) HandleListProducts(ctx *gin.Context) {
	bikes, err := h.svc.ListBikes(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListProducts -> h.svc.ListBikes -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Products{
		Bikes:     bikes,
		DateRange: toDateRange(h.cart(ctx).DateRange()),
	})
}

// HandleFilterProducts godoc
// @Summary      Filter bikes
// @Description  Filters bikes by usage, wheel size and frame size and stores the dates in the cart
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Param        request   body      request.FilterRequest true "request body"
// @Success      200      {object}   response.Products
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /products/filter [post]
func (h *ProductHandler) HandleFilterProducts(ctx *gin.Context) {
	var req request.FilterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	res, err := h.svc.Filter(ctx.Request.Context(), service.FilterInput{
		FromDate:   req.FromDate,
		ToDate:     req.ToDate,
		UsageIDs:   req.UsageIDs,
		WheelSizes: req.WheelSizes,
		FrameSizes: req.FrameSizes,
	}, h.cart(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleFilterProducts -> h.svc.Filter -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Products{
		Bikes:     res.Bikes,
		DateRange: toDateRange(res.DateRange),
	})
}

// HandleFilterOptions godoc
// @Summary      Filter choices
// @Tags         storefront
// @Produce      json
// @Success      200      {object}   domain.FilterOptions
// @Failure      500      {object}   response.Err
// @Router       /products/filter-options [get]
func (h *ProductHandler) HandleFilterOptions(ctx *gin.Context) {
	opts, err := h.svc.FilterOptions(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleFilterOptions -> h.svc.FilterOptions -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, opts)
}

// HandleGetProduct godoc
// @Summary      Get a bike
// @Tags         storefront
// @Produce      json
// @Param        bikeID   path      int  true  "bike ID"
// @Success      200      {object}   domain.Bike
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /products/{bikeID} [get]
func (h *ProductHandler) HandleGetProduct(ctx *gin.Context) {
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

		err = fmt.Errorf("v1.HandleGetProduct -> h.svc.GetBike -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, bike)
}
