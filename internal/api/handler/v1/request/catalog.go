package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/bikerent/bikerent-api/internal/domain"
)

// FilterRequest narrows the product list. Unparsable dates are not an error:
// the cart's dates are used instead.
type FilterRequest struct {
	FromDate   string   `json:"from_date"`
	ToDate     string   `json:"to_date"`
	UsageIDs   []uint   `json:"usage_ids"`
	WheelSizes []string `json:"wheel_sizes"`
	FrameSizes []string `json:"frame_sizes"`
}

type NameRequest struct {
	Name string `json:"name" form:"name"`
}

func (req *NameRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 255)),
	)
}

type BikeRequest struct {
	ManufacturerID uint   `json:"manufacturer_id"`
	Name           string `json:"name"`
	UsageID        uint   `json:"usage_id"`
	GalleryID      *uint  `json:"gallery_id"`
	FrameMaterial  string `json:"frame_material"`
	FrameSize      string `json:"frame_size"`
	WheelSize      string `json:"wheel_size"`
	ForkTravel     *int   `json:"fork_travel"`
	ShockTravel    *int   `json:"shock_travel"`
	Speeds         string `json:"speeds"`
	Price          int    `json:"price"`
}

func (req *BikeRequest) Validate() error {
	materials := make([]interface{}, 0, len(domain.FrameMaterials))
	for _, m := range domain.FrameMaterials {
		materials = append(materials, string(m))
	}

	return validation.ValidateStruct(
		req,
		validation.Field(&req.ManufacturerID, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.UsageID, validation.Required),
		validation.Field(&req.FrameMaterial, validation.Required, validation.In(materials...)),
		validation.Field(&req.FrameSize, validation.Required),
		validation.Field(&req.WheelSize, validation.Required),
		validation.Field(&req.Speeds, validation.Required),
		validation.Field(&req.ForkTravel, validation.Min(0)),
		validation.Field(&req.ShockTravel, validation.Min(0)),
		validation.Field(&req.Price, validation.Min(0)),
	)
}
