package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bikerent/bikerent-api/internal/api/handler/v1/request"
	"github.com/bikerent/bikerent-api/internal/api/handler/v1/response"
	"github.com/bikerent/bikerent-api/internal/domain"
	"github.com/bikerent/bikerent-api/internal/repository"
	"github.com/bikerent/bikerent-api/internal/service"
)

type ReservationAdminService interface {
	Get(ctx context.Context, id uint) (domain.Reservation, error)
	List(ctx context.Context, filter repository.ReservationFilter) ([]domain.Reservation, error)
	Create(ctx context.Context, in service.ReservationInput) (domain.Reservation, error)
	Update(ctx context.Context, id uint, in service.ReservationInput) (domain.Reservation, error)
	ChangeState(ctx context.Context, id uint, newState string) (bool, error)
	EffectiveState(res domain.Reservation) domain.DisplayState
}

type AdminReservationHandler struct {
	svc ReservationAdminService
}

func NewAdminReservationHandler(svc ReservationAdminService) *AdminReservationHandler {
	return &AdminReservationHandler{
		svc: svc,
	}
}

func (h *AdminReservationHandler) render(ctx *gin.Context, status int, res domain.Reservation) {
	ctx.JSON(status, response.NewReservation(res, h.svc.EffectiveState(res)))
}

func (h *AdminReservationHandler) bind(ctx *gin.Context) (service.ReservationInput, bool) {
	var req request.ReservationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return service.ReservationInput{}, false
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return service.ReservationInput{}, false
	}

	// Both dates passed validation.
	from, _ := time.Parse(domain.DateLayout, req.FromDate)
	to, _ := time.Parse(domain.DateLayout, req.ToDate)

	return service.ReservationInput{
		CustomerID:  req.CustomerID,
		CreatedByID: currentIdentity(ctx).ID,
		FromDate:    from,
		ToDate:      to,
		BikeIDs:     req.BikeIDs,
		State:       domain.ReservationState(req.State),
	}, true
}

// HandleListReservations godoc
// @Summary      Reservation grid
// @Tags         admin
// @Produce      json
// @Param        customer_id   query     int  false  "customer ID"
// @Param        state         query     int  false  "stored state"
// @Success      200      {array}    response.Reservation
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/reservations [get]
// @Security BearerAuth
func (h *AdminReservationHandler) HandleListReservations(ctx *gin.Context) {
	var filter repository.ReservationFilter

	if v := ctx.Query("customer_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid customer_id: %w", err)))
			return
		}
		customerID := uint(id)
		filter.CustomerID = &customerID
	}
	if v := ctx.Query("state"); v != "" {
		state, err := domain.ParseReservationState(v)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
		filter.State = &state
	}

	rs, err := h.svc.List(ctx.Request.Context(), filter)
	if err != nil {
		err = fmt.Errorf("v1.HandleListReservations -> h.svc.List -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	out := make([]response.Reservation, 0, len(rs))
	for _, res := range rs {
		out = append(out, response.NewReservation(res, h.svc.EffectiveState(res)))
	}

	ctx.JSON(http.StatusOK, out)
}

// HandleGetReservation godoc
// @Summary      Get a reservation
// @Tags         admin
// @Produce      json
// @Param        reservationID   path      int  true  "reservation ID"
// @Success      200      {object}   response.Reservation
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/reservations/{reservationID} [get]
// @Security BearerAuth
func (h *AdminReservationHandler) HandleGetReservation(ctx *gin.Context) {
	id, ok := parseID(ctx, "reservationID")
	if !ok {
		return
	}

	res, err := h.svc.Get(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrReservationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("reservation", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleGetReservation -> h.svc.Get -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	h.render(ctx, http.StatusOK, res)
}

// HandleCreateReservation godoc
// @Summary      Create a reservation
// @Description  The price is computed from the bikes and the number of days
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request   body      request.ReservationRequest true "request body"
// @Success      201      {object}   response.Reservation
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/reservations [post]
// @Security BearerAuth
func (h *AdminReservationHandler) HandleCreateReservation(ctx *gin.Context) {
	in, ok := h.bind(ctx)
	if !ok {
		return
	}

	res, err := h.svc.Create(ctx.Request.Context(), in)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateReservation -> h.svc.Create", err)
		return
	}

	h.render(ctx, http.StatusCreated, res)
}

// HandleUpdateReservation godoc
// @Summary      Edit a reservation
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        reservationID   path      int  true  "reservation ID"
// @Param        request   body      request.ReservationRequest true "request body"
// @Success      200      {object}   response.Reservation
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/reservations/{reservationID} [put]
// @Security BearerAuth
func (h *AdminReservationHandler) HandleUpdateReservation(ctx *gin.Context) {
	id, ok := parseID(ctx, "reservationID")
	if !ok {
		return
	}

	in, ok := h.bind(ctx)
	if !ok {
		return
	}

	res, err := h.svc.Update(ctx.Request.Context(), id, in)
	if err != nil {
		if errors.Is(err, service.ErrReservationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("reservation", "ID", id))
			return
		}

		renderServiceErr(ctx, "v1.HandleUpdateReservation -> h.svc.Update", err)
		return
	}

	h.render(ctx, http.StatusOK, res)
}

// HandleChangeReservationState godoc
// @Summary      Quick state change
// @Description  The delayed state (4) cannot be set and leaves the reservation unchanged.
// @Description  Requests sent with X-Requested-With: XMLHttpRequest are told to reload the grid.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        reservationID   path      int  true  "reservation ID"
// @Param        request   body      request.StateRequest true "request body"
// @Success      200      {object}   response.StateChange
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/reservations/{reservationID}/state [patch]
// @Security BearerAuth
func (h *AdminReservationHandler) HandleChangeReservationState(ctx *gin.Context) {
	id, ok := parseID(ctx, "reservationID")
	if !ok {
		return
	}

	var req request.StateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	changed, err := h.svc.ChangeState(ctx.Request.Context(), id, req.State)
	if err != nil {
		if errors.Is(err, service.ErrReservationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("reservation", "ID", id))
			return
		}

		renderServiceErr(ctx, "v1.HandleChangeReservationState -> h.svc.ChangeState", err)
		return
	}

	ctx.JSON(http.StatusOK, response.StateChange{
		Changed: changed,
		Reload:  changed && ctx.GetHeader("X-Requested-With") == "XMLHttpRequest",
	})
}
