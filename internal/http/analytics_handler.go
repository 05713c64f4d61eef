package http

import (
	"errors"
	"log/slog"
	nethttp "net/http"
	"strconv"
	"time"

	"github.com/karloscodes/cartridge"

	"github.com/roobiinpandey/qahwatapp/internal/catalog"
	"github.com/roobiinpandey/qahwatapp/internal/events"
	"github.com/roobiinpandey/qahwatapp/internal/reports"
	"github.com/roobiinpandey/qahwatapp/internal/rollups"
	"github.com/roobiinpandey/qahwatapp/internal/timeframe"
)

const (
	defaultWindowDays = 30
	maxWindowDays     = 365
)

// queryWindow resolves the trailing window from the days query parameter.
func queryWindow(ctx *cartridge.Context) (time.Time, time.Time, error) {
	days := ctx.QueryInt("days", defaultWindowDays)
	if days < 1 {
		days = defaultWindowDays
	}
	if days > maxWindowDays {
		days = maxWindowDays
	}
	return timeframe.TrailingWindow(&timeframe.DefaultTimeProvider{}, days)
}

// productIDParam parses the :id route parameter.
func productIDParam(ctx *cartridge.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid product id")
	}
	return uint(id), nil
}

// AnalyticsPopularProductsAction ranks products by raw view events.
func AnalyticsPopularProductsAction(ctx *cartridge.Context) error {
	from, to, err := queryWindow(ctx)
	if err != nil {
		return respondBadRequest(ctx, "Invalid time window")
	}

	db := ctx.DBManager.GetConnection()
	popular, err := events.GetPopularProducts(db, from, to, ctx.QueryInt("limit", 10))
	if err != nil {
		ctx.Logger.Error("Failed to get popular products", slog.Any("error", err))
		return respondInternalError(ctx, "Failed to get popular products", err)
	}
	return respondSuccess(ctx, popular)
}

// AnalyticsTopPerformersAction ranks products by a summed rollup metric.
func AnalyticsTopPerformersAction(ctx *cartridge.Context) error {
	from, to, err := queryWindow(ctx)
	if err != nil {
		return respondBadRequest(ctx, "Invalid time window")
	}

	metric := ctx.Query("metric", "views")
	db := ctx.DBManager.GetConnection()
	top, err := rollups.GetTopPerformers(db, metric, from, to, ctx.QueryInt("limit", 10))
	if err != nil {
		if rollups.IsUnsupportedMetric(err) {
			return respondBadRequest(ctx, "Unsupported metric: "+metric)
		}
		ctx.Logger.Error("Failed to get top performers", slog.Any("error", err))
		return respondInternalError(ctx, "Failed to get top performers", err)
	}
	return respondSuccess(ctx, top)
}

// AnalyticsFunnelAction reports the purchase funnel over the window.
func AnalyticsFunnelAction(ctx *cartridge.Context) error {
	from, to, err := queryWindow(ctx)
	if err != nil {
		return respondBadRequest(ctx, "Invalid time window")
	}

	db := ctx.DBManager.GetConnection()
	funnel, err := events.GetConversionFunnel(db, from, to)
	if err != nil {
		ctx.Logger.Error("Failed to get conversion funnel", slog.Any("error", err))
		return respondInternalError(ctx, "Failed to get conversion funnel", err)
	}
	return respondSuccess(ctx, funnel)
}

// AnalyticsProductPerformanceAction summarizes one product's rollups.
func AnalyticsProductPerformanceAction(ctx *cartridge.Context) error {
	productID, err := productIDParam(ctx)
	if err != nil {
		return respondBadRequest(ctx, "Invalid product id")
	}
	from, to, err := queryWindow(ctx)
	if err != nil {
		return respondBadRequest(ctx, "Invalid time window")
	}

	db := ctx.DBManager.GetConnection()
	if _, err := catalog.FindProductByID(db, productID); err != nil {
		var notFound *catalog.ProductNotFoundError
		if errors.As(err, &notFound) {
			return respondError(ctx, nethttp.StatusNotFound, "Product not found", nil)
		}
		ctx.Logger.Error("Failed to look up product", slog.Any("error", err))
		return respondInternalError(ctx, "Failed to look up product", err)
	}

	summary, err := rollups.GetPerformanceSummary(db, productID, from, to)
	if err != nil {
		ctx.Logger.Error("Failed to get product performance",
			slog.Uint64("productId", uint64(productID)), slog.Any("error", err))
		return respondInternalError(ctx, "Failed to get product performance", err)
	}
	return respondSuccess(ctx, summary)
}

// AnalyticsProductTrendAction returns one product's daily rollup series.
func AnalyticsProductTrendAction(ctx *cartridge.Context) error {
	productID, err := productIDParam(ctx)
	if err != nil {
		return respondBadRequest(ctx, "Invalid product id")
	}
	from, to, err := queryWindow(ctx)
	if err != nil {
		return respondBadRequest(ctx, "Invalid time window")
	}

	db := ctx.DBManager.GetConnection()
	trend, err := rollups.GetTrend(db, productID, from, to)
	if err != nil {
		ctx.Logger.Error("Failed to get product trend",
			slog.Uint64("productId", uint64(productID)), slog.Any("error", err))
		return respondInternalError(ctx, "Failed to get product trend", err)
	}
	return respondSuccess(ctx, trend)
}

// AnalyticsProductGeographyAction breaks one product's activity down by country.
func AnalyticsProductGeographyAction(ctx *cartridge.Context) error {
	productID, err := productIDParam(ctx)
	if err != nil {
		return respondBadRequest(ctx, "Invalid product id")
	}
	from, to, err := queryWindow(ctx)
	if err != nil {
		return respondBadRequest(ctx, "Invalid time window")
	}

	db := ctx.DBManager.GetConnection()
	entries, err := rollups.GetGeoBreakdown(db, productID, from, to)
	if err != nil {
		ctx.Logger.Error("Failed to get geo breakdown",
			slog.Uint64("productId", uint64(productID)), slog.Any("error", err))
		return respondInternalError(ctx, "Failed to get geo breakdown", err)
	}
	return respondSuccess(ctx, reports.ResolveGeoNames(entries))
}

// userIDFromRequest resolves the acting user from the X-User-ID header,
// falling back to the user_id query parameter.
func userIDFromRequest(ctx *cartridge.Context) (uint, error) {
	raw := ctx.Get("X-User-ID")
	if raw == "" {
		raw = ctx.Query("user_id")
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid user id")
	}
	return uint(id), nil
}

// AnalyticsUserActivityAction summarizes one user's tracked activity.
func AnalyticsUserActivityAction(ctx *cartridge.Context) error {
	userID, err := userIDFromRequest(ctx)
	if err != nil {
		return respondBadRequest(ctx, "Missing or invalid user id")
	}
	from, to, err := queryWindow(ctx)
	if err != nil {
		return respondBadRequest(ctx, "Invalid time window")
	}

	db := ctx.DBManager.GetConnection()
	summary, err := events.GetUserActivitySummary(db, userID, from, to)
	if err != nil {
		ctx.Logger.Error("Failed to get user activity",
			slog.Uint64("userId", uint64(userID)), slog.Any("error", err))
		return respondInternalError(ctx, "Failed to get user activity", err)
	}
	return respondSuccess(ctx, summary)
}

// AnalyticsUserJourneyAction lists one user's events in order, optionally
// scoped to a session via the session_id query parameter.
func AnalyticsUserJourneyAction(ctx *cartridge.Context) error {
	userID, err := userIDFromRequest(ctx)
	if err != nil {
		return respondBadRequest(ctx, "Missing or invalid user id")
	}

	db := ctx.DBManager.GetConnection()
	journey, err := events.GetUserJourney(db, userID, ctx.Query("session_id"), ctx.QueryInt("limit", 100))
	if err != nil {
		ctx.Logger.Error("Failed to get user journey",
			slog.Uint64("userId", uint64(userID)), slog.Any("error", err))
		return respondInternalError(ctx, "Failed to get user journey", err)
	}
	return respondSuccess(ctx, journey)
}
