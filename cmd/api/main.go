package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-konveksi-orders/internal/handler"
	"go-konveksi-orders/internal/middleware"
	"go-konveksi-orders/internal/model"
	"go-konveksi-orders/internal/repository"
	"go-konveksi-orders/internal/service"
	"go-konveksi-orders/internal/ws"
	"go-konveksi-orders/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(&model.Order{}, &model.OrderItem{}, &model.OrderHistory{}, &model.User{})

	// 3. Seed default admin user
	seedAdmin(db)

	// 4. Setup WebSocket Hub (change feed untuk dashboard)
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	orderRepo := repository.NewOrderRepo(db)
	historyRepo := repository.NewHistoryRepo(db)
	userRepo := repository.NewUserRepo(db)

	orderService := service.NewOrderService(orderRepo, historyRepo, db, wsHub)
	dashService := service.NewDashboardService(orderRepo)
	authService := service.NewAuthService(userRepo)

	orderHandler := handler.NewOrderHandler(orderService)
	dashHandler := handler.NewDashboardHandler(dashService)
	trackingHandler := handler.NewTrackingHandler(orderService)
	authHandler := handler.NewAuthHandler(authService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Konveksi Order Pro v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// Public tracking (customer-facing, no auth)
	api.Get("/tracking/:orderParam", trackingHandler.Track)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Order listing & dashboard
	protected.Get("/orders", dashHandler.GetOrders)
	protected.Get("/orders/:orderNumber", orderHandler.GetOrder)
	protected.Get("/dashboard/stats", dashHandler.GetStats)
	protected.Get("/dashboard/analytics", dashHandler.GetAnalytics)

	// Order lifecycle
	protected.Post("/orders", orderHandler.CreateOrder)
	protected.Put("/orders/:orderNumber", orderHandler.UpdateOrder)
	protected.Patch("/orders/:orderNumber/status", orderHandler.ChangeStatus)
	protected.Post("/orders/:orderNumber/payoff", orderHandler.PayOff)
	protected.Delete("/orders/:id", orderHandler.DeleteOrder)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedAdmin creates the default dashboard admin if it doesn't exist yet
func seedAdmin(db *gorm.DB) {
	userRepo := repository.NewUserRepo(db)

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	if _, err := userRepo.FindByEmail(email); err == nil {
		return
	}

	admin := &model.User{
		Email:    email,
		FullName: "Administrator",
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"

	if err := admin.SetPassword(password); err != nil {
		log.Printf("Warning: Failed to hash admin password: %v", err)
		return
	}

	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
	} else {
		log.Printf("✅ Admin user created: %s", email)
	}
}
