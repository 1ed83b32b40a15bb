package domain

import (
	"fmt"
	"time"
)

type FrameMaterial string

const (
	FrameAluminium FrameMaterial = "Al"
	FrameCarbon    FrameMaterial = "Carbon"
)

var FrameMaterials = []FrameMaterial{FrameAluminium, FrameCarbon}

func ParseFrameMaterial(s string) (FrameMaterial, error) {
	for _, m := range FrameMaterials {
		if string(m) == s {
			return m, nil
		}
	}

	return "", fmt.Errorf("unknown frame material %q", s)
}

type Bike struct {
	ID             uint          `json:"id"`
	ManufacturerID uint          `json:"manufacturer_id"`
	Manufacturer   *Manufacturer `json:"manufacturer,omitempty"`
	Name           string        `json:"name"`
	UsageID        uint          `json:"usage_id"`
	Usage          *BikeUsage    `json:"usage,omitempty"`
	GalleryID      *uint         `json:"gallery_id"`
	Gallery        *Gallery      `json:"gallery,omitempty"`
	FrameMaterial  FrameMaterial `json:"frame_material"`
	FrameSize      string        `json:"frame_size"`
	WheelSize      string        `json:"wheel_size"`
	ForkTravel     *int          `json:"fork_travel"`
	ShockTravel    *int          `json:"shock_travel"`
	Speeds         string        `json:"speeds"`
	// Price is the rental price for one day.
	Price     int       `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName is the manufacturer name followed by the model name. It falls back
// to the model name alone when the manufacturer was not loaded.
func (b Bike) FullName() string {
	if b.Manufacturer == nil {
		return b.Name
	}

	return b.Manufacturer.Name + " " + b.Name
}

// BikeFilter matches bikes whose field is in the given list. Empty lists are
// ignored; non-empty ones are combined with AND.
type BikeFilter struct {
	UsageIDs   []uint
	WheelSizes []string
	FrameSizes []string
}

func (f BikeFilter) IsEmpty() bool {
	return len(f.UsageIDs) == 0 && len(f.WheelSizes) == 0 && len(f.FrameSizes) == 0
}

type FilterOptions struct {
	WheelSizes []string    `json:"wheel_sizes"`
	FrameSizes []string    `json:"frame_sizes"`
	Usages     []BikeUsage `json:"usages"`
}
