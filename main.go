package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/configs"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/auth"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/db"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/events"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/handlers"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/payments"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/worker"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	db.Init()
	auth.Init()

	registry := payments.NewRegistry()

	natsCfg := config.LoadNATSConfig()
	publisher, err := events.NewPublisher(natsCfg.URL)
	if err != nil {
		log.Printf("NATS unavailable, realtime staff alerts disabled: %v", err)
		publisher = nil
	} else {
		defer publisher.Close()
	}

	var subscriber *events.Subscriber
	if publisher != nil {
		subscriber, err = events.NewSubscriber(natsCfg.URL)
		if err != nil {
			log.Printf("NATS subscribe connection failed, dashboard event stream disabled: %v", err)
			subscriber = nil
		} else {
			defer subscriber.Close()
		}
	}

	handlers.Init(registry, publisher, subscriber)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reconciler := worker.NewReconciler(db.DB, registry, config.LoadReconcilerConfig())
	reconciler.Start(ctx)

	r := gin.Default()

	// ── session store ──
	store := cookie.NewStore([]byte(getEnv("SESSION_SECRET", "change-me")))
	r.Use(sessions.Sessions("menuhubsess", store))

	// ── public endpoints ──
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/auth/login", auth.Login)
	r.GET("/auth/callback", auth.Callback)

	r.GET("/menu/:slug", handlers.GetPublicMenu)

	// ── customer API ──
	api := r.Group("/api")
	{
		carts := api.Group("/carts/:restaurant_id")
		{
			carts.GET("", handlers.GetCart)
			carts.DELETE("", handlers.ResetCart)
			carts.POST("/items", handlers.AddCartItem)
			carts.PATCH("/items/:item_id", handlers.UpdateCartItem)
			carts.DELETE("/items/:item_id", handlers.RemoveCartItem)
			carts.POST("/validate", handlers.ValidateCart)
		}

		api.POST("/checkout/:restaurant_id", handlers.Checkout)
		api.POST("/payments/confirm-manual", handlers.ConfirmManualPayment)
		api.GET("/orders/track", handlers.TrackOrder)
		api.POST("/waiter-calls/:restaurant_id", handlers.CreateWaiterCall)
		api.POST("/leads", handlers.CreateLead)

		// Gateway callbacks (unauthenticated, provider-facing).
		api.GET("/payments/pesapal/callback", handlers.PesapalCallback)
		api.POST("/payments/daraja/callback", handlers.DarajaCallback)
	}

	// ── dashboard API (restaurant staff) ──
	dashboard := r.Group("/api/dashboard")
	dashboard.Use(auth.RequireAuth())
	{
		dashboard.POST("/categories", handlers.CreateCategory)
		dashboard.PATCH("/categories/:id", handlers.UpdateCategory)
		dashboard.DELETE("/categories/:id", handlers.DeleteCategory)
		dashboard.POST("/menu-items", handlers.CreateMenuItem)
		dashboard.PATCH("/menu-items/:id", handlers.UpdateMenuItem)
		dashboard.DELETE("/menu-items/:id", handlers.DeleteMenuItem)

		dashboard.GET("/orders", handlers.ListOrders)
		dashboard.PATCH("/orders/:id/status", handlers.UpdateOrderStatus)

		dashboard.GET("/waiter-calls", handlers.ListWaiterCalls)
		dashboard.PATCH("/waiter-calls/:id/ack", handlers.AckWaiterCall)

		dashboard.GET("/payment-settings", handlers.GetPaymentSettings)
		dashboard.PATCH("/payment-settings", handlers.UpdatePaymentSettings)
		dashboard.GET("/payment-methods/:method/fields", handlers.PaymentMethodFields)
		dashboard.GET("/notification-settings", handlers.GetNotificationSettings)
		dashboard.PATCH("/notification-settings", handlers.UpdateNotificationSettings)
		dashboard.PATCH("/branding", handlers.UpdateBranding)

		dashboard.GET("/leads", handlers.ListLeads)
		dashboard.GET("/analytics/summary", handlers.GetAnalyticsSummary)
		dashboard.GET("/events", handlers.StreamStaffEvents)
	}

	// ── platform admin ──
	admin := r.Group("/api/admin")
	admin.Use(auth.RequireAuth(), auth.RequireAdmin())
	{
		admin.GET("/subscribers", handlers.ListSubscribers)
		admin.PATCH("/subscribers/:id", handlers.UpdateSubscriber)
	}

	r.Run(":8080")
}

func getEnv(key, fallback string) string {

	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return fallback
}
