package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bikerent/bikerent-api/internal/domain"
)

type CompanyHandler struct {
	company domain.Company
}

func NewCompanyHandler(company domain.Company) *CompanyHandler {
	return &CompanyHandler{
		company: company,
	}
}

// HandleGetCompany godoc
// @Summary      Company contact details
// @Tags         storefront
// @Produce      json
// @Success      200      {object}   domain.Company
// @Router       /company [get]
func (h *CompanyHandler) HandleGetCompany(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.company)
}
