package domain

import "time"

type Manufacturer struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BikeUsage struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Gallery is a stored bike picture. URL is the public path of the image file.
type Gallery struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Company is the static contact block shown on the storefront.
type Company struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Email     string  `json:"email"`
	Telephone string  `json:"telephone"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
