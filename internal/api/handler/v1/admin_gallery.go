package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bikerent/bikerent-api/internal/api/handler/v1/request"
	"github.com/bikerent/bikerent-api/internal/api/handler/v1/response"
	"github.com/bikerent/bikerent-api/internal/domain"
	"github.com/bikerent/bikerent-api/internal/service"
)

const galleryImageField = "image"

type GalleryAdminService interface {
	List(ctx context.Context) ([]domain.Gallery, error)
	Get(ctx context.Context, id uint) (domain.Gallery, error)
	Create(ctx context.Context, name string, image io.Reader) (domain.Gallery, error)
	Update(ctx context.Context, id uint, name string, image io.Reader) (domain.Gallery, error)
	Delete(ctx context.Context, id uint) error
}

type AdminGalleryHandler struct {
	svc GalleryAdminService
}

func NewAdminGalleryHandler(svc GalleryAdminService) *AdminGalleryHandler {
	return &AdminGalleryHandler{
		svc: svc,
	}
}

// bindGalleryForm reads the name field and the optional image upload. The
// returned closer must be called when the image is set.
func bindGalleryForm(ctx *gin.Context) (request.NameRequest, io.ReadCloser, bool) {
	var req request.NameRequest
	if err := ctx.ShouldBind(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return req, nil, false
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return req, nil, false
	}

	header, err := ctx.FormFile(galleryImageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return req, nil, true
		}

		response.RenderErr(ctx, response.ErrBadRequest(err))
		return req, nil, false
	}

	file, err := header.Open()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return req, nil, false
	}

	return req, file, true
}

// HandleListGalleries godoc
// @Summary      Gallery grid
// @Tags         admin
// @Produce      json
// @Success      200      {array}    domain.Gallery
// @Failure      500      {object}   response.Err
// @Router       /admin/galleries [get]
// @Security BearerAuth
func (h *AdminGalleryHandler) HandleListGalleries(ctx *gin.Context) {
	gs, err := h.svc.List(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListGalleries -> h.svc.List -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gs)
}

// HandleGetGallery godoc
// @Summary      Get a gallery
// @Tags         admin
// @Produce      json
// @Param        galleryID   path      int  true  "gallery ID"
// @Success      200      {object}   domain.Gallery
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/galleries/{galleryID} [get]
// @Security BearerAuth
func (h *AdminGalleryHandler) HandleGetGallery(ctx *gin.Context) {
	id, ok := parseID(ctx, "galleryID")
	if !ok {
		return
	}

	g, err := h.svc.Get(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrGalleryNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("gallery", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleGetGallery -> h.svc.Get -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, g)
}

// HandleCreateGallery godoc
// @Summary      Upload a gallery picture
// @Description  The image is cropped to 1600x900 and stored as PNG
// @Tags         admin
// @Accept       multipart/form-data
// @Produce      json
// @Param        name    formData  string  true  "gallery name"
// @Param        image   formData  file    true  "picture"
// @Success      201      {object}   domain.Gallery
// @Failure      400      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/galleries [post]
// @Security BearerAuth
func (h *AdminGalleryHandler) HandleCreateGallery(ctx *gin.Context) {
	req, file, ok := bindGalleryForm(ctx)
	if !ok {
		return
	}

	var image io.Reader
	if file != nil {
		defer file.Close()
		image = file
	}

	g, err := h.svc.Create(ctx.Request.Context(), req.Name, image)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateGallery -> h.svc.Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, g)
}

// HandleUpdateGallery godoc
// @Summary      Edit a gallery
// @Description  Without an image only the name changes
// @Tags         admin
// @Accept       multipart/form-data
// @Produce      json
// @Param        galleryID   path      int  true  "gallery ID"
// @Param        name    formData  string  true   "gallery name"
// @Param        image   formData  file    false  "new picture"
// @Success      200      {object}   domain.Gallery
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/galleries/{galleryID} [put]
// @Security BearerAuth
func (h *AdminGalleryHandler) HandleUpdateGallery(ctx *gin.Context) {
	id, ok := parseID(ctx, "galleryID")
	if !ok {
		return
	}

	req, file, ok := bindGalleryForm(ctx)
	if !ok {
		return
	}

	var image io.Reader
	if file != nil {
		defer file.Close()
		image = file
	}

	g, err := h.svc.Update(ctx.Request.Context(), id, req.Name, image)
	if err != nil {
		if errors.Is(err, service.ErrGalleryNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("gallery", "ID", id))
			return
		}

		renderServiceErr(ctx, "v1.HandleUpdateGallery -> h.svc.Update", err)
		return
	}

	ctx.JSON(http.StatusOK, g)
}

// HandleDeleteGallery godoc
// @Summary      Delete a gallery
// @Description  Bikes showing the picture keep working without one
// @Tags         admin
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/galleries/{galleryID} [delete]
// @Security BearerAuth
func (h *AdminGalleryHandler) HandleDeleteGallery(ctx *gin.Context) {
	id, ok := parseID(ctx, "galleryID")
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), id); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteGallery -> h.svc.Delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
