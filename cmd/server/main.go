package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/vermakhushbu723/Laundry-Backend/internal/config"
	"github.com/vermakhushbu723/Laundry-Backend/internal/database"
	"github.com/vermakhushbu723/Laundry-Backend/internal/logger"
	"github.com/vermakhushbu723/Laundry-Backend/internal/middleware"
	"github.com/vermakhushbu723/Laundry-Backend/internal/routes"
	"github.com/vermakhushbu723/Laundry-Backend/internal/services"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogPretty)

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn(fmt.Sprintf("failed to close database: %v", err))
		}
	}()

	sender, err := services.NewOTPSender(cfg, log)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer sender.Close()

	app := fiber.New(fiber.Config{
		AppName:      "Laundry Backend",
		ErrorHandler: middleware.ErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	routes.Register(app, db, cfg, sender, log)

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs
		log.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Error(fmt.Sprintf("shutdown failed: %v", err))
		}
	}()

	log.WithFields(map[string]interface{}{
		"port":       cfg.AppPort,
		"env":        cfg.Environment,
		"otp_sender": cfg.OTPSender,
	}).Info("starting server")
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Error(fmt.Sprintf("fiber.Listen error: %v", err))
	}
}
