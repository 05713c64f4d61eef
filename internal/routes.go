package internal

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/karloscodes/cartridge"
	cartridgemiddleware "github.com/karloscodes/cartridge/middleware"

	v1 "github.com/roobiinpandey/qahwatapp/api/v1"
	"github.com/roobiinpandey/qahwatapp/internal/config"
	"github.com/roobiinpandey/qahwatapp/internal/http"
	"github.com/roobiinpandey/qahwatapp/internal/http/middleware"
)

// publicCORSConfig returns the standard CORS configuration for public endpoints.
// The tracker and the analytics widgets call these from storefront pages and
// the mobile apps, so cross-origin access stays permissive.
var publicCORSConfig = &cors.Config{
	AllowOrigins: "*",
	AllowMethods: "POST,GET,OPTIONS",
	AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-User-ID, User-Agent",
}

// MountAppRoutes mounts all application routes using cartridge's route API
func MountAppRoutes(srv *cartridge.Server) {
	cfg := config.GetConfig()

	// Helper to conditionally apply rate limiting (only in production)
	// In development/test, rate limiting would interfere with testing
	conditionalRateLimiter := func(limiter fiber.Handler) fiber.Handler {
		return func(c *fiber.Ctx) error {
			if cfg.IsProduction() {
				return limiter(c)
			}
			return c.Next()
		}
	}

	// Rate limiter for public tracking ingestion (120 requests per minute per IP).
	// Storefront sessions fire bursts of events on navigation, so the cap sits
	// well above organic traffic while still containing abuse.
	trackRateLimiter := conditionalRateLimiter(cartridgemiddleware.RateLimiter(
		cartridgemiddleware.WithMax(120),
		cartridgemiddleware.WithDuration(time.Minute),
	))

	// Read endpoints get a tighter budget than ingestion
	queryRateLimiter := conditionalRateLimiter(cartridgemiddleware.RateLimiter(
		cartridgemiddleware.WithMax(60),
		cartridgemiddleware.WithDuration(time.Minute),
	))

	// Public ingestion config: rate limiting + CORS.
	// CORS runs first ensuring error responses carry CORS headers.
	trackConfig := &cartridge.RouteConfig{
		EnableCORS:       true,
		WriteConcurrency: false,
		CustomMiddleware: []fiber.Handler{trackRateLimiter},
		CORSConfig:       publicCORSConfig,
	}

	// Public analytics reads: rate limiting + CORS, no Sec-Fetch-Site since
	// the mobile apps call these outside a browser context.
	analyticsConfig := &cartridge.RouteConfig{
		EnableCORS:         true,
		CustomMiddleware:   []fiber.Handler{queryRateLimiter},
		CORSConfig:         publicCORSConfig,
		EnableSecFetchSite: cartridge.Bool(false),
	}

	logger := srv.GetLogger()

	// Admin reporting API requires the admin API key
	adminAPIConfig := &cartridge.RouteConfig{
		CustomMiddleware: []fiber.Handler{
			queryRateLimiter,
			middleware.AdminAPIKeyAuth(logger),
		},
		EnableSecFetchSite: cartridge.Bool(false),
	}

	// Health check endpoint
	srv.Get("/_health", http.HealthIndexAction)
	srv.Head("/_health", http.HealthIndexAction)

	// === PUBLIC TRACKING ===
	srv.Post("/api/v1/analytics/track", v1.TrackEventPublicAPIHandler, trackConfig)
	srv.Options("/api/v1/analytics/track", func(ctx *cartridge.Context) error {
		return ctx.SendStatus(fiber.StatusNoContent)
	}, trackConfig)

	// === PUBLIC ANALYTICS READS ===
	srv.Get("/api/v1/analytics/products/popular", http.AnalyticsPopularProductsAction, analyticsConfig)
	srv.Get("/api/v1/analytics/products/top-performers", http.AnalyticsTopPerformersAction, analyticsConfig)
	srv.Get("/api/v1/analytics/funnel", http.AnalyticsFunnelAction, analyticsConfig)
	srv.Get("/api/v1/analytics/products/:id/performance", http.AnalyticsProductPerformanceAction, analyticsConfig)
	srv.Get("/api/v1/analytics/products/:id/trend", http.AnalyticsProductTrendAction, analyticsConfig)
	srv.Get("/api/v1/analytics/products/:id/geography", http.AnalyticsProductGeographyAction, analyticsConfig)
	srv.Get("/api/v1/analytics/users/activity", http.AnalyticsUserActivityAction, analyticsConfig)
	srv.Get("/api/v1/analytics/users/journey", http.AnalyticsUserJourneyAction, analyticsConfig)

	// === ADMIN REPORTING API ===
	srv.Get("/api/v1/admin/reports/dashboard", http.AdminDashboardAction, adminAPIConfig)
	srv.Get("/api/v1/admin/reports/users", http.AdminUsersReportAction, adminAPIConfig)
	srv.Get("/api/v1/admin/reports/products", http.AdminProductsReportAction, adminAPIConfig)
}
