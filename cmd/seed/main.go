// Command seed creates an admin account or resets the credentials of an existing one.
package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/vermakhushbu723/Laundry-Backend/internal/config"
	"github.com/vermakhushbu723/Laundry-Backend/internal/database"
	"github.com/vermakhushbu723/Laundry-Backend/internal/logger"
	"github.com/vermakhushbu723/Laundry-Backend/internal/models"
	"github.com/vermakhushbu723/Laundry-Backend/internal/services"
)

func main() {
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password (min 8 characters)")
	name := flag.String("name", "Administrator", "display name")
	role := flag.String("role", models.RoleAdmin, "admin or super-admin")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogPretty)

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer database.Close(db)

	// seeding never dispatches OTPs
	auth := services.NewAuthService(db, cfg, services.NewLogSender(log), log)

	admin, err := auth.SeedAdmin(context.Background(), *email, *password, *name, *role)
	if err != nil {
		log.Fatal(fmt.Sprintf("seed admin: %v", err))
	}

	log.WithFields(map[string]interface{}{
		"admin_id": admin.ID,
		"email":    admin.Email,
		"role":     admin.Role,
	}).Info("admin ready")
}
