package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/vermakhushbu723/Laundry-Backend/internal/config"
	"github.com/vermakhushbu723/Laundry-Backend/internal/handlers"
	"github.com/vermakhushbu723/Laundry-Backend/internal/logger"
	"github.com/vermakhushbu723/Laundry-Backend/internal/middleware"
	"github.com/vermakhushbu723/Laundry-Backend/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, sender services.OTPSender, log logger.Logger) {
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat, log)

	authService := services.NewAuthService(db, cfg, sender, log)
	userService := services.NewUserService(db)
	catalogService := services.NewCatalogService(db)
	orderService := services.NewOrderService(db)
	contactService := services.NewContactService(db, cfg.PhoneDefaultRegion)
	smsService := services.NewSmsService(db)

	guard := middleware.NewGuard(db, cfg.JWTSecret)
	requireUser := guard.RequireUser()
	requireAdmin := guard.RequireAdmin()

	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(userService, orderService)
	adminHandler := handlers.NewAdminHandler(userService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	orderHandler := handlers.NewOrderHandler(orderService, telegramService, log)
	contactHandler := handlers.NewContactHandler(contactService)
	smsHandler := handlers.NewSmsHandler(smsService)

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "status": "ok"})
	})

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/verify-otp", authHandler.VerifyOTP)
	auth.Post("/resend-otp", authHandler.ResendOTP)
	auth.Post("/admin/login", authHandler.AdminLogin)
	auth.Get("/admin/me", requireAdmin, authHandler.AdminProfile)

	// User routes; static paths before /:id
	user := api.Group("/user")
	user.Get("/profile", requireUser, profileHandler.GetProfile)
	user.Put("/profile", requireUser, profileHandler.UpdateProfile)
	user.Get("/dashboard", requireUser, profileHandler.Dashboard)
	user.Get("/all", requireAdmin, adminHandler.ListAllUsers)
	user.Get("/:id", requireAdmin, adminHandler.GetUser)
	user.Put("/:id", requireAdmin, adminHandler.UpdateUser)
	user.Delete("/:id", requireAdmin, adminHandler.DeleteUser)

	// Catalog routes
	catalog := api.Group("/services")
	catalog.Get("/", catalogHandler.ListServices)
	catalog.Get("/:id", catalogHandler.GetService)
	catalog.Post("/", requireAdmin, catalogHandler.CreateService)
	catalog.Put("/:id", requireAdmin, catalogHandler.UpdateService)
	catalog.Delete("/:id", requireAdmin, catalogHandler.DeleteService)
	catalog.Delete("/:id/permanent", requireAdmin, catalogHandler.PermanentDeleteService)
	catalog.Patch("/:id/toggle", requireAdmin, catalogHandler.ToggleService)

	// Orders
	orders := api.Group("/orders")
	orders.Get("/all", requireAdmin, orderHandler.ListAllOrders)
	orders.Get("/stats", requireAdmin, orderHandler.OrderStats)
	orders.Post("/", requireUser, orderHandler.CreateOrder)
	orders.Get("/", requireUser, orderHandler.ListOrders)
	orders.Get("/:id", requireUser, orderHandler.GetOrder)
	orders.Patch("/:id/cancel", requireUser, orderHandler.CancelOrder)
	orders.Patch("/:id/status", requireAdmin, orderHandler.UpdateOrderStatus)

	// Bookings
	bookings := api.Group("/bookings")
	bookings.Post("/", requireUser, orderHandler.CreateBooking)
	bookings.Get("/user", requireUser, orderHandler.ListOrders)
	bookings.Get("/all", requireAdmin, orderHandler.ListAllOrders)
	bookings.Put("/:orderId", requireUser, orderHandler.RescheduleBooking)

	// Contacts
	contacts := api.Group("/contacts")
	contacts.Post("/sync", requireUser, contactHandler.SyncContacts)
	contacts.Get("/my-contacts", requireUser, contactHandler.GetMyContacts)
	contacts.Delete("/my-contacts", requireUser, contactHandler.DeleteMyContacts)
	contacts.Get("/all", requireAdmin, contactHandler.GetAllContacts)

	// SMS
	sms := api.Group("/sms")
	sms.Post("/sync", requireUser, smsHandler.SyncSms)
	sms.Post("/sync-batch", requireUser, smsHandler.SyncSmsBatch)
	sms.Get("/all", requireAdmin, smsHandler.GetAllSms)
	sms.Get("/statistics", requireAdmin, smsHandler.GetSmsStatistics)
	sms.Get("/user/:userId", requireUser, smsHandler.GetUserSms)
	sms.Delete("/user/:userId", requireUser, smsHandler.DeleteUserSms)
}
