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
	"github.com/bikerent/bikerent-api/internal/api/middleware"
	"github.com/bikerent/bikerent-api/internal/config"
	"github.com/bikerent/bikerent-api/internal/domain"
	"github.com/bikerent/bikerent-api/internal/pkg/jwthelper"
	"github.com/bikerent/bikerent-api/internal/service"
)

type AuthService interface {
	SignUp(ctx context.Context, in service.SignUpInput) (domain.User, error)
	Authenticate(ctx context.Context, email, password string) (domain.Identity, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}

type AuthHandler struct {
	conf *config.APIConfig
	svc  AuthService
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService) *AuthHandler {
	return &AuthHandler{
		conf: conf,
		svc:  svc,
	}
}

// HandleSignUp godoc
// @Summary      Sign up a new customer
// @Tags         sign
// @Accept       json
// @Produce      json
// @Param        request   body      request.SignUpRequest true "request body"
// @Success      201      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /sign/up [post]
func (h *AuthHandler) HandleSignUp(ctx *gin.Context) {
	var req request.SignUpRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.SignUp(ctx.Request.Context(), service.SignUpInput{
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

		err = fmt.Errorf("v1.HandleSignUp -> h.svc.SignUp -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, user)
}

// HandleLogin godoc
// @Summary      Sign in
// @Description  Starts a session and returns a bearer token for API clients
// @Tags         sign
// @Accept       json
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.LoginResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /sign/in [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	identity, err := h.svc.Authenticate(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		var authErr *domain.AuthenticationError
		if errors.As(err, &authErr) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))
			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Authenticate -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	token, err := jwthelper.GenerateToken([]byte(h.conf.JWTSigningKey), identity.ID, ctx.Request.UserAgent())
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> jwthelper.GenerateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	session := sessions.Default(ctx)
	session.Set(middleware.SessionUserKey, identity.ID)
	if err := session.Save(); err != nil {
		err = fmt.Errorf("v1.HandleLogin -> session.Save -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token: token,
		User:  identity,
	})
}

// HandleLogout godoc
// @Summary      Sign out
// @Tags         sign
// @Produce      json
// @Success      200      {object}   response.Message
// @Failure      500      {object}   response.Err
// @Router       /sign/out [post]
func (h *AuthHandler) HandleLogout(ctx *gin.Context) {
	if err := signOut(ctx); err != nil {
		err = fmt.Errorf("v1.HandleLogout -> signOut -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Message{Message: "signed out"})
}

// HandleResetRequest godoc
// @Summary      Ask for a password reset link
// @Description  Always answers 202 so addresses cannot be enumerated
// @Tags         sign
// @Accept       json
// @Produce      json
// @Param        request   body      request.ResetRequest true "request body"
// @Success      202      {object}   response.Message
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /sign/reset [post]
func (h *AuthHandler) HandleResetRequest(ctx *gin.Context) {
	var req request.ResetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.RequestPasswordReset(ctx.Request.Context(), req.Email); err != nil {
		err = fmt.Errorf("v1.HandleResetRequest -> h.svc.RequestPasswordReset -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusAccepted, response.Message{Message: "if the address is known, a reset link was sent"})
}

// HandleResetConfirm godoc
// @Summary      Choose a new password
// @Tags         sign
// @Accept       json
// @Produce      json
// @Param        request   body      request.ResetConfirmRequest true "request body"
// @Success      200      {object}   response.Message
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /sign/reset/confirm [post]
func (h *AuthHandler) HandleResetConfirm(ctx *gin.Context) {
	var req request.ResetConfirmRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.ResetPassword(ctx.Request.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, service.ErrInvalidResetToken) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleResetConfirm -> h.svc.ResetPassword -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Message{Message: "password changed"})
}
