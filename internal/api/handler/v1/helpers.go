package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/bikerent/bikerent-api/internal/api/handler/v1/response"
	"github.com/bikerent/bikerent-api/internal/api/middleware"
	"github.com/bikerent/bikerent-api/internal/domain"
	"github.com/bikerent/bikerent-api/internal/service"
)

// HandleHealthcheck godoc
// @Summary      Healthcheck
// @Tags         health
// @Produce      json
// @Success      200      {object}   response.Message
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.Message{Message: "ok"})
}

func parseID(ctx *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(param), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid %v: %w", param, err)))
		return 0, false
	}

	return uint(id), true
}

// renderServiceErr maps the errors shared by every back office form. op names
// the failed call in the logged error.
func renderServiceErr(ctx *gin.Context, op string, err error) {
	var dup *domain.DuplicateNameError

	switch {
	case errors.As(err, &dup):
		response.RenderErr(ctx, response.ErrConflict(dup))
	case errors.Is(err, service.ErrReferenced):
		response.RenderErr(ctx, response.ErrConflict(errors.New("the record is still in use")))
	case errors.Is(err, service.ErrBikeNotFound):
		response.RenderErr(ctx, response.ErrBadRequest(service.ErrBikeNotFound))
	case errors.Is(err, service.ErrManufacturerNotFound),
		errors.Is(err, service.ErrUsageNotFound),
		errors.Is(err, service.ErrGalleryNotFound),
		errors.Is(err, service.ErrUserNotFound):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	case errors.Is(err, service.ErrInvalidBike),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidUserState),
		errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrEmptyBikeSet),
		errors.Is(err, service.ErrInvalidImage),
		errors.Is(err, service.ErrImageRequired),
		errors.Is(err, service.ErrPasswordRequired):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%v -> %w", op, err)))
	}
}

// signOut drops the session identity. Bearer tokens stay valid until they
// expire.
func signOut(ctx *gin.Context) error {
	session := sessions.Default(ctx)
	session.Delete(middleware.SessionUserKey)

	return session.Save()
}

func currentIdentity(ctx *gin.Context) domain.Identity {
	identity, _ := middleware.IdentityFrom(ctx)

	return identity
}
