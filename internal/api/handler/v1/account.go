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
	"github.com/bikerent/bikerent-api/internal/repository"
	"github.com/bikerent/bikerent-api/internal/service"
)

type AccountService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	UpdateProfile(ctx context.Context, id uint, in service.ProfileInput) (domain.User, error)
}

type AccountReservations interface {
	List(ctx context.Context, filter repository.ReservationFilter) ([]domain.Reservation, error)
	EffectiveState(res domain.Reservation) domain.DisplayState
}

type AccountHandler struct {
	users        AccountService
	reservations AccountReservations
}

func NewAccountHandler(users AccountService, reservations AccountReservations) *AccountHandler {
	return &AccountHandler{
		users:        users,
		reservations: reservations,
	}
}

// HandleGetAccount godoc
// @Summary      Show the signed-in account
// @Tags         account
// @Produce      json
// @Success      200      {object}   domain.User
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /account [get]
// @Security BearerAuth
func (h *AccountHandler) HandleGetAccount(ctx *gin.Context) {
	identity := currentIdentity(ctx)

	user, err := h.users.GetUser(ctx.Request.Context(), identity.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetAccount -> h.users.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleUpdateAccount godoc
// @Summary      Edit the signed-in account
// @Description  The session ends after a successful edit; sign in again with the new details
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        request   body      request.ProfileRequest true "request body"
// @Success      200      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /account [put]
// @Security BearerAuth
func (h *AccountHandler) HandleUpdateAccount(ctx *gin.Context) {
	identity := currentIdentity(ctx)

	var req request.ProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.users.UpdateProfile(ctx.Request.Context(), identity.ID, service.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		var dup *domain.DuplicateNameError
		if errors.As(err, &dup) {
			response.RenderErr(ctx, response.ErrConflict(dup))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateAccount -> h.users.UpdateProfile -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if err := signOut(ctx); err != nil {
		err = fmt.Errorf("v1.HandleUpdateAccount -> signOut -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleListAccountReservations godoc
// @Summary      Reservations of the signed-in customer
// @Tags         account
// @Produce      json
// @Success      200      {array}    response.Reservation
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /account/reservations [get]
// @Security BearerAuth
func (h *AccountHandler) HandleListAccountReservations(ctx *gin.Context) {
	identity := currentIdentity(ctx)

	rs, err := h.reservations.List(ctx.Request.Context(), repository.ReservationFilter{CustomerID: &identity.ID})
	if err != nil {
		err = fmt.Errorf("v1.HandleListAccountReservations -> h.reservations.List -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	out := make([]response.Reservation, 0, len(rs))
	for _, res := range rs {
		out = append(out, response.NewReservation(res, h.reservations.EffectiveState(res)))
	}

	ctx.JSON(http.StatusOK, out)
}
