package main

import (
	"os"

	"partnershipintake/cmd"
)

// @title Partnership Intake API
// @version 1.0
// @description Public partnership request intake and the staff review dashboard API.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
