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

type UserAdminService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	ListActivated(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, in service.UserInput) (domain.User, error)
	UpdateUser(ctx context.Context, id uint, in service.UserInput) (domain.User, error)
	DeleteUser(ctx context.Context, id uint) error
	ChangeRole(ctx context.Context, id uint, role string) error
	ChangeState(ctx context.Context, id uint, state string) error
}

type AdminUserHandler struct {
	svc UserAdminService
}

func NewAdminUserHandler(svc UserAdminService) *AdminUserHandler {
	return &AdminUserHandler{
		svc: svc,
	}
}

func userInput(req request.UserRequest) service.UserInput {
	return service.UserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      domain.Role(req.Role),
		State:     domain.UserState(req.State),
	}
}

// signOutIfSelf ends the session when the acting user changed their own
// account.
func signOutIfSelf(ctx *gin.Context, id uint) error {
	if currentIdentity(ctx).ID != id {
		return nil
	}

	return signOut(ctx)
}

// HandleListUsers godoc
// @Summary      User grid
// @Description  With activated=true only the users that can be picked as a customer are listed
// @Tags         admin
// @Produce      json
// @Param        activated   query     bool  false  "only activated users"
// @Success      200      {array}    domain.User
// @Failure      500      {object}   response.Err
// @Router       /admin/users [get]
// @Security BearerAuth
func (h *AdminUserHandler) HandleListUsers(ctx *gin.Context) {
	list := h.svc.ListUsers
	if ctx.Query("activated") == "true" {
		list = h.svc.ListActivated
	}

	users, err := list(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListUsers -> h.svc.ListUsers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, users)
}

// HandleGetUser godoc
// @Summary      Get a user
// @Tags         admin
// @Produce      json
// @Param        userID   path      int  true  "user ID"
// @Success      200      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/users/{userID} [get]
// @Security BearerAuth
func (h *AdminUserHandler) HandleGetUser(ctx *gin.Context) {
	id, ok := parseID(ctx, "userID")
	if !ok {
		return
	}

	user, err := h.svc.GetUser(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleGetUser -> h.svc.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleCreateUser godoc
// @Summary      Create a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request   body      request.UserRequest true "request body"
// @Success      201      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/users [post]
// @Security BearerAuth
func (h *AdminUserHandler) HandleCreateUser(ctx *gin.Context) {
	var req request.UserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(true); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.CreateUser(ctx.Request.Context(), userInput(req))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateUser -> h.svc.CreateUser", err)
		return
	}

	ctx.JSON(http.StatusCreated, user)
}

// HandleUpdateUser godoc
// @Summary      Edit a user
// @Description  The password cannot be changed here. Editing your own account ends your session.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        userID   path      int  true  "user ID"
// @Param        request   body      request.UserRequest true "request body"
// @Success      200      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/users/{userID} [put]
// @Security BearerAuth
func (h *AdminUserHandler) HandleUpdateUser(ctx *gin.Context) {
	id, ok := parseID(ctx, "userID")
	if !ok {
		return
	}

	var req request.UserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(false); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.UpdateUser(ctx.Request.Context(), id, userInput(req))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", id))
			return
		}

		renderServiceErr(ctx, "v1.HandleUpdateUser -> h.svc.UpdateUser", err)
		return
	}

	if err := signOutIfSelf(ctx, id); err != nil {
		err = fmt.Errorf("v1.HandleUpdateUser -> signOutIfSelf -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleDeleteUser godoc
// @Summary      Delete a user
// @Description  Users with reservations cannot be deleted. Deleting yourself ends your session.
// @Tags         admin
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/users/{userID} [delete]
// @Security BearerAuth
func (h *AdminUserHandler) HandleDeleteUser(ctx *gin.Context) {
	id, ok := parseID(ctx, "userID")
	if !ok {
		return
	}

	if err := h.svc.DeleteUser(ctx.Request.Context(), id); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteUser -> h.svc.DeleteUser", err)
		return
	}

	if err := signOutIfSelf(ctx, id); err != nil {
		err = fmt.Errorf("v1.HandleDeleteUser -> signOutIfSelf -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleChangeUserRole godoc
// @Summary      Quick role change
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        userID   path      int  true  "user ID"
// @Param        request   body      request.RoleRequest true "request body"
// @Success      200      {object}   response.Message
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/users/{userID}/role [patch]
// @Security BearerAuth
func (h *AdminUserHandler) HandleChangeUserRole(ctx *gin.Context) {
	id, ok := parseID(ctx, "userID")
	if !ok {
		return
	}

	var req request.RoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.ChangeRole(ctx.Request.Context(), id, req.Role); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", id))
			return
		}

		renderServiceErr(ctx, "v1.HandleChangeUserRole -> h.svc.ChangeRole", err)
		return
	}

	ctx.JSON(http.StatusOK, response.Message{Message: "role changed"})
}

// HandleChangeUserState godoc
// @Summary      Quick state change
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        userID   path      int  true  "user ID"
// @Param        request   body      request.StateRequest true "request body"
// @Success      200      {object}   response.Message
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/users/{userID}/state [patch]
// @Security BearerAuth
func (h *AdminUserHandler) HandleChangeUserState(ctx *gin.Context) {
	id, ok := parseID(ctx, "userID")
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

	if err := h.svc.ChangeState(ctx.Request.Context(), id, req.State); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", id))
			return
		}

		renderServiceErr(ctx, "v1.HandleChangeUserState -> h.svc.ChangeState", err)
		return
	}

	ctx.JSON(http.StatusOK, response.Message{Message: "state changed"})
}
