package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/bikerent/bikerent-api/cmd/app"
)

// @contact.name   Bike Rental
// @contact.email  info@example.com
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
