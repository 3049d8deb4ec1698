package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopsphere/storefront/internal/api/handlers"
	"github.com/shopsphere/storefront/internal/api/middleware"
	"github.com/shopsphere/storefront/internal/cache"
	"github.com/shopsphere/storefront/internal/config"
	"github.com/shopsphere/storefront/internal/health"
	"github.com/shopsphere/storefront/internal/identity"
	"github.com/shopsphere/storefront/internal/metrics"
	"github.com/shopsphere/storefront/internal/models"
	repository "github.com/shopsphere/storefront/internal/repositories"
	service "github.com/shopsphere/storefront/internal/services"
	storesync "github.com/shopsphere/storefront/internal/sync"
	"github.com/shopsphere/storefront/pkg/sendgrid"
	"github.com/shopsphere/storefront/pkg/stripe"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx := context.Background()

	// Document store setup
	repos, err := repository.New(ctx, cfg)
	if err != nil {
		slog.Error("❌ Error accessing the document store", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing document store connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Document store connection closed")
		}
	}()

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}

	rateLimitRepo := repository.NewRateLimitRepo(redisClient, cfg)
	productCache := cache.NewRedisCache(redisClient, cfg.Cache.ProductTTL)

	jwtKey := []byte(cfg.Security.JWTKey)
	stripeClient := stripe.NewStripeClient(cfg.Stripe.APIKey, cfg.Stripe.WebhookSecret)
	sendGridClient := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	// Identity provider
	provider, err := identity.NewFirebaseProvider(ctx, cfg, repos.Role)
	if err != nil {
		slog.Error("❌ Error initializing the identity provider", "error", err.Error())
		os.Exit(1)
	}

	mergePolicy, err := storesync.ParseMergePolicy(cfg.Sync.MergePolicy)
	if err != nil {
		slog.Error("❌ Invalid sync configuration", "error", err.Error())
		os.Exit(1)
	}

	notificationService := service.NewNotificationService(repos.Notification, sendGridClient, logger)

	// Per-user session state and its background sync
	syncOpts := storesync.Options{
		Debounce:                cfg.Sync.Debounce,
		MergePolicy:             mergePolicy,
		RetainCartOnSignOut:     cfg.Sync.RetainCartOnSignOut,
		RetainWishlistOnSignOut: cfg.Sync.RetainWishlistSignOut,
		FailureThreshold:        cfg.Sync.FailureThreshold,
	}
	remote := repository.NewRemote(repos.Cart, repos.Wishlist)
	sessions := service.NewSessionManager(syncOpts, remote, notificationService, logger)

	defer sessions.Close()

	userService := service.NewUserService(provider, sessions, jwtKey, cfg.Security.SessionExpiry)
	userHandler := handlers.NewUserHandler(userService)
	roleService := service.NewRoleService(repos.Role, rateLimitRepo, provider)
	roleHandler := handlers.NewRoleHandler(roleService)
	productService := service.NewProductService(repos.Product, productCache)
	productHandler := handlers.NewProductHandler(productService)
	cartService := service.NewCartService(sessions, repos.Product)
	cartHandler := handlers.NewCartHandler(cartService)
	wishlistService := service.NewWishlistService(sessions, repos.Product)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)
	orderService := service.NewOrderService(repos.Order, sessions, notificationService, cfg.Sync.RemoveOnPurchase)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentService := service.NewPaymentService(repos.Order, stripeClient, cfg.Stripe.SupportedCurrencies)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	authMiddleware := middleware.NewAuthMiddleware(jwtKey)
	roleGate := middleware.NewRoleGate(cfg.Security.LoginPath)

	anyUser := roleGate.Require()
	sellerOrAdmin := roleGate.Require(models.RoleSeller, models.RoleAdmin)
	adminOnly := roleGate.Require(models.RoleAdmin)

	authed := func(h http.Handler) http.HandlerFunc {
		return authMiddleware.Authenticate(h)
	}

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{
		Firestore:    repos.Client(),
		StripeClient: stripeClient,
	})
	if err != nil {
		slog.Error("❌ Error initializing health checks", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("POST /api/v1/auth/session", userHandler.CreateSession())
	routerMux.HandleFunc("DELETE /api/v1/auth/session", authed(anyUser(userHandler.DestroySession())))
	routerMux.HandleFunc("POST /api/v1/roles", authed(anyUser(roleHandler.AssignRole())))
	routerMux.HandleFunc("GET /api/v1/roles/{uid}", authed(adminOnly(roleHandler.GetRole())))
	routerMux.HandleFunc("POST /api/v1/products", authed(sellerOrAdmin(productHandler.CreateProduct())))
	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.GetProduct())
	routerMux.HandleFunc("PUT /api/v1/products/{id}", authed(sellerOrAdmin(productHandler.UpdateProduct())))
	routerMux.HandleFunc("GET /api/v1/products", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/cart", authed(anyUser(cartHandler.GetCart())))
	routerMux.HandleFunc("POST /api/v1/cart/items", authed(anyUser(cartHandler.AddItem())))
	routerMux.HandleFunc("PUT /api/v1/cart/items", authed(anyUser(cartHandler.UpdateQuantity())))
	routerMux.HandleFunc("DELETE /api/v1/cart/items/{productId}", authed(anyUser(cartHandler.RemoveItem())))
	routerMux.HandleFunc("DELETE /api/v1/cart", authed(anyUser(cartHandler.ClearCart())))
	routerMux.HandleFunc("GET /api/v1/wishlist", authed(anyUser(wishlistHandler.GetWishlist())))
	routerMux.HandleFunc("POST /api/v1/wishlist/items", authed(anyUser(wishlistHandler.AddEntry())))
	routerMux.HandleFunc("DELETE /api/v1/wishlist/items/{productId}", authed(anyUser(wishlistHandler.RemoveEntry())))
	routerMux.HandleFunc("POST /api/v1/orders", authed(anyUser(orderHandler.Checkout())))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", authed(anyUser(orderHandler.GetOrder())))
	routerMux.HandleFunc("GET /api/v1/orders", authed(anyUser(orderHandler.ListOrders())))
	routerMux.HandleFunc("PATCH /api/v1/orders/{id}/status", authed(sellerOrAdmin(orderHandler.UpdateStatus())))
	routerMux.HandleFunc("POST /api/v1/payments", authed(anyUser(paymentHandler.CreatePayment())))
	routerMux.HandleFunc("POST /api/v1/payments/{id}/refund", authed(anyUser(paymentHandler.RefundPayment())))
	routerMux.HandleFunc("POST /api/v1/payments/webhook", paymentHandler.HandleWebhook())
	routerMux.HandleFunc("POST /api/v1/notifications/email", authed(adminOnly(notificationHandler.SendEmail())))
	routerMux.HandleFunc("GET /api/v1/notifications", authed(anyUser(notificationHandler.ListNotifications())))
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown: stop accepting requests, then let the session
	// manager flush and tear down the per-user sync engines.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}
}
