package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/redis/go-redis/v9"

	"github.com/kobuai/kobu-ai-be/internal/core/auth"
	"github.com/kobuai/kobu-ai-be/internal/core/llm"
	"github.com/kobuai/kobu-ai-be/internal/core/payment"
	"github.com/kobuai/kobu-ai-be/internal/core/realtime"
	"github.com/kobuai/kobu-ai-be/internal/core/session"
	"github.com/kobuai/kobu-ai-be/internal/core/sweeper"
	"github.com/kobuai/kobu-ai-be/internal/handlers"
	"github.com/kobuai/kobu-ai-be/internal/repositories"
	"github.com/kobuai/kobu-ai-be/internal/services"
	"github.com/kobuai/kobu-ai-be/internal/shared/config"
	"github.com/kobuai/kobu-ai-be/internal/shared/database"
	"github.com/kobuai/kobu-ai-be/internal/shared/utils"
)

func main() {
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env)

	db := database.NewDB(cfg.DatabaseURL)
	defer db.Close()

	relay := newRelay(cfg.RedisURL)

	// Repositories
	domainRepo := repositories.NewDomainRepo(db.GORM)
	customerRepo := repositories.NewCustomerRepo(db.GORM)
	chatRoomRepo := repositories.NewChatRoomRepo(db.GORM)
	chatMessageRepo := repositories.NewChatMessageRepo(db.GORM)
	bookingRepo := repositories.NewBookingRepo(db.GORM)
	productRepo := repositories.NewProductRepo(db.GORM)
	helpDeskRepo := repositories.NewHelpDeskRepo(db.GORM)

	// Core
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL)
	authService := auth.NewService(db.GORM, cfg.JWTSecret)
	responder := llm.NewClient(cfg.OpenAIKey)
	gateway, err := payment.NewGateway(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to configure payment gateway: %v", err)
	}

	// Services
	chatService := services.NewChatService(sessions, domainRepo, customerRepo, chatRoomRepo, chatMessageRepo, productRepo, responder, relay)
	inboxService := services.NewInboxService(chatRoomRepo, chatMessageRepo, relay)
	bookingService := services.NewBookingService(bookingRepo)
	checkoutService := services.NewCheckoutService(sessions, customerRepo, productRepo, gateway)

	// Handlers
	authHandler := auth.NewHandler(authService)
	widgetHandler := handlers.NewWidgetHandler(chatService, bookingService, checkoutService, sessions, domainRepo, customerRepo, productRepo)
	wsHandler := handlers.NewWSHandler(sessions, authService, customerRepo, chatRoomRepo, relay)
	conversationHandler := handlers.NewConversationHandler(inboxService, domainRepo, chatRoomRepo)
	domainHandler := handlers.NewDomainHandler(domainRepo, customerRepo, cfg.WidgetBaseURL)
	productHandler := handlers.NewProductHandler(productRepo, domainRepo)
	helpDeskHandler := handlers.NewHelpDeskHandler(helpDeskRepo, domainRepo)
	bookingHandler := handlers.NewBookingHandler(bookingService, domainRepo, bookingRepo)
	healthHandler := handlers.NewHealthHandler(db)

	roomSweeper := sweeper.NewSweeper(chatRoomRepo, cfg.RoomIdleTTL)
	if err := roomSweeper.Start(); err != nil {
		log.Fatalf("❌ Failed to start room sweeper: %v", err)
	}
	defer roomSweeper.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "kobu-ai-be",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})
	app.Use(cors.New())

	registerRoutes(app, authService, authHandler, widgetHandler, wsHandler, conversationHandler, domainHandler, productHandler, helpDeskHandler, bookingHandler, healthHandler)

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down...")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	log.Printf("🚀 API listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Server stopped: %v", err)
	}
}

// newRelay connects to Redis when it is reachable and falls back to the
// in-process hub otherwise. The hub only reaches widgets connected to
// this instance.
func newRelay(redisURL string) realtime.Relay {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("⚠️ Invalid REDIS_URL, using in-process relay: %v", err)
		return realtime.NewHubRelay()
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ Redis unreachable, using in-process relay: %v", err)
		return realtime.NewHubRelay()
	}

	log.Println("📡 Redis relay connected")
	return realtime.NewRedisRelay(client)
}

func registerRoutes(
	app *fiber.App,
	authService *auth.Service,
	authHandler *auth.Handler,
	widgetHandler *handlers.WidgetHandler,
	wsHandler *handlers.WSHandler,
	conversationHandler *handlers.ConversationHandler,
	domainHandler *handlers.DomainHandler,
	productHandler *handlers.ProductHandler,
	helpDeskHandler *handlers.HelpDeskHandler,
	bookingHandler *handlers.BookingHandler,
	healthHandler *handlers.HealthHandler,
) {
	app.Get("/health", healthHandler.Check)

	api := app.Group("/api/v1")

	// Public auth surface
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)

	// Public widget surface, authenticated per-request by session token
	widget := api.Group("/widget")
	widget.Post("/session", widgetHandler.StartSession)
	widget.Post("/chat", widgetHandler.SendMessage)
	widget.Get("/chat/history", widgetHandler.History)
	widget.Post("/booking", widgetHandler.CreateBooking)
	widget.Get("/bookings", widgetHandler.ListBookings)
	widget.Post("/checkout", widgetHandler.Checkout)
	widget.Get("/:hostname/config", widgetHandler.GetConfig)
	widget.Get("/:hostname/slots", widgetHandler.AvailableSlots)
	widget.Get("/:hostname/products", widgetHandler.ListProducts)
	widget.Get("/ws/:roomID", wsHandler.Upgrade, wsHandler.Serve())

	// Dashboard surface behind bearer auth
	dashboard := api.Group("", auth.Middleware(authService))
	dashboard.Get("/auth/me", authHandler.Me)

	dashboard.Post("/domains", domainHandler.Create)
	dashboard.Get("/domains", domainHandler.List)
	dashboard.Get("/domains/:id", domainHandler.Get)
	dashboard.Put("/domains/:id", domainHandler.Update)
	dashboard.Delete("/domains/:id", domainHandler.Delete)
	dashboard.Get("/domains/:id/qr", domainHandler.InstallQR)
	dashboard.Get("/domains/:id/customers", domainHandler.ListCustomers)

	dashboard.Get("/domains/:domainID/products", productHandler.List)
	dashboard.Post("/domains/:domainID/products", productHandler.Create)
	dashboard.Put("/domains/:domainID/products/:id", productHandler.Update)
	dashboard.Delete("/domains/:domainID/products/:id", productHandler.Delete)

	dashboard.Get("/domains/:domainID/helpdesk", helpDeskHandler.ListQuestions)
	dashboard.Post("/domains/:domainID/helpdesk", helpDeskHandler.CreateQuestion)
	dashboard.Delete("/domains/:domainID/helpdesk/:id", helpDeskHandler.DeleteQuestion)
	dashboard.Get("/domains/:domainID/filter-questions", helpDeskHandler.ListFilterQuestions)
	dashboard.Post("/domains/:domainID/filter-questions", helpDeskHandler.CreateFilterQuestion)
	dashboard.Delete("/domains/:domainID/filter-questions/:id", helpDeskHandler.DeleteFilterQuestion)

	dashboard.Get("/domains/:domainID/bookings", bookingHandler.List)
	dashboard.Put("/domains/:domainID/schedule", bookingHandler.UpsertSchedule)

	dashboard.Get("/conversations/:domainID", conversationHandler.ListRooms)
	dashboard.Get("/conversations/rooms/:roomID/messages", conversationHandler.Transcript)
	dashboard.Post("/conversations/rooms/:roomID/messages", conversationHandler.SendMessage)
	dashboard.Post("/conversations/rooms/:roomID/toggle-live", conversationHandler.ToggleLive)
	dashboard.Post("/conversations/rooms/:roomID/seen", conversationHandler.MarkSeen)
	dashboard.Post("/conversations/rooms/:roomID/favorite", conversationHandler.SetFavorite)
}
