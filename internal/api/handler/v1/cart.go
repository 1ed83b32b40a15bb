package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/bikerent/bikerent-api/internal/api/handler/v1/request"
	"github.com/bikerent/bikerent-api/internal/api/handler/v1/response"
	"github.com/bikerent/bikerent-api/internal/api/middleware"
	"github.com/bikerent/bikerent-api/internal/domain"
	"github.com/bikerent/bikerent-api/internal/service"
)

type CheckoutService interface {
	Checkout(ctx context.Context, in service.CheckoutInput, cart service.CheckoutCart) (domain.Reservation, error)
	EffectiveState(res domain.Reservation) domain.DisplayState
}

type CartHandler struct {
	bikes       service.CartBikeLookup
	reservation CheckoutService
}

func NewCartHandler(bikes service.CartBikeLookup, reservation CheckoutService) *CartHandler {
	return &CartHandler{
		bikes:       bikes,
		reservation: reservation,
	}
}

func (h *CartHandler) cart(ctx *gin.Context) *service.CartService {
	return service.NewCartService(sessions.Default(ctx), h.bikes)
}

func (h *CartHandler) renderCart(ctx *gin.Context, status int, cart *service.CartService) {
	bikes, err := cart.Content(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.renderCart -> cart.Content -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(status, response.Cart{
		Bikes:     bikes,
		Price:     cart.Price(),
		DateRange: toDateRange(cart.DateRange()),
	})
}

// HandleGetCart godoc
// @Summary      Show the cart
// @Description  Price is the sum of the daily prices seen when the bikes were added
// @Tags         cart
// @Produce      json
// @Success      200      {object}   response.Cart
// @Failure      500      {object}   response.Err
// @Router       /cart [get]
func (h *CartHandler) HandleGetCart(ctx *gin.Context) {
	h.renderCart(ctx, http.StatusOK, h.cart(ctx))
}

// HandleAddItem godoc
// @Summary      Add a bike to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request   body      request.AddCartItemRequest true "request body"
// @Success      200      {object}   response.Cart
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /cart/items [post]
func (h *CartHandler) HandleAddItem(ctx *gin.Context) {
	var req request.AddCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	cart := h.cart(ctx)
	if err := cart.Add(ctx.Request.Context(), req.BikeID); err != nil {
		if errors.Is(err, service.ErrBikeNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("bike", "ID", req.BikeID))
			return
		}

		err = fmt.Errorf("v1.HandleAddItem -> cart.Add -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	h.renderCart(ctx, http.StatusOK, cart)
}

// HandleRemoveItem godoc
// @Summary      Remove a bike from the cart
// @Tags         cart
// @Produce      json
// @Param        bikeID   path      int  true  "bike ID"
// @Success      200      {object}   response.Cart
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /cart/items/{bikeID} [delete]
func (h *CartHandler) HandleRemoveItem(ctx *gin.Context) {
	id, ok := parseID(ctx, "bikeID")
	if !ok {
		return
	}

	cart := h.cart(ctx)
	if err := cart.Remove(id); err != nil {
		err = fmt.Errorf("v1.HandleRemoveItem -> cart.Remove -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	h.renderCart(ctx, http.StatusOK, cart)
}

// HandleSetDateRange godoc
// @Summary      Set the rental dates
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request   body      request.DateRangeRequest true "request body"
// @Success      200      {object}   response.Cart
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /cart/date-range [put]
func (h *CartHandler) HandleSetDateRange(ctx *gin.Context) {
	var req request.DateRangeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	// Both dates passed validation.
	from, _ := time.Parse(domain.DateLayout, req.FromDate)
	to, _ := time.Parse(domain.DateLayout, req.ToDate)

	cart := h.cart(ctx)
	if err := cart.SetDateRange(&from, &to); err != nil {
		err = fmt.Errorf("v1.HandleSetDateRange -> cart.SetDateRange -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	h.renderCart(ctx, http.StatusOK, cart)
}

// HandleCheckout godoc
// @Summary      Book the cart
// @Description  Guests give their contact details; an unknown email gets a blocked customer account
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request   body      request.CheckoutRequest true "request body"
// @Success      201      {object}   response.Reservation
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /cart/checkout [post]
func (h *CartHandler) HandleCheckout(ctx *gin.Context) {
	identity, signedIn := middleware.IdentityFrom(ctx)

	var req request.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(!signedIn); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	in := service.CheckoutInput{
		FromDate:       req.FromDate,
		ToDate:         req.ToDate,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		TermsAgreement: req.TermsAgreement,
	}
	if signedIn {
		in.UserID = &identity.ID
	}

	res, err := h.reservation.Checkout(ctx.Request.Context(), in, h.cart(ctx))
	if err != nil {
		var dup *domain.DuplicateNameError

		switch {
		case errors.Is(err, service.ErrTermsNotAccepted),
			errors.Is(err, service.ErrInvalidDateRange),
			errors.Is(err, service.ErrEmptyBikeSet),
			errors.Is(err, service.ErrContactRequired),
			errors.Is(err, service.ErrBikeNotFound):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.As(err, &dup):
			response.RenderErr(ctx, response.ErrConflict(dup))
		default:
			err = fmt.Errorf("v1.HandleCheckout -> h.reservation.Checkout -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, response.NewReservation(res, h.reservation.EffectiveState(res)))
}
