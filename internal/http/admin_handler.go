package http

import (
	"log/slog"

	"github.com/karloscodes/cartridge"

	"github.com/roobiinpandey/qahwatapp/internal/reports"
)

// AdminDashboardAction builds the admin dashboard overview.
func AdminDashboardAction(ctx *cartridge.Context) error {
	from, to, err := queryWindow(ctx)
	if err != nil {
		return respondBadRequest(ctx, "Invalid time window")
	}

	db := ctx.DBManager.GetConnection()
	overview, err := reports.GetDashboardOverview(db, from, to)
	if err != nil {
		ctx.Logger.Error("Failed to build dashboard overview", slog.Any("error", err))
		return respondInternalError(ctx, "Failed to build dashboard overview", err)
	}
	return respondSuccess(ctx, overview)
}

// AdminUsersReportAction builds the admin users report.
func AdminUsersReportAction(ctx *cartridge.Context) error {
	from, to, err := queryWindow(ctx)
	if err != nil {
		return respondBadRequest(ctx, "Invalid time window")
	}

	db := ctx.DBManager.GetConnection()
	report, err := reports.GetUsersReport(db, from, to)
	if err != nil {
		ctx.Logger.Error("Failed to build users report", slog.Any("error", err))
		return respondInternalError(ctx, "Failed to build users report", err)
	}
	return respondSuccess(ctx, report)
}

// AdminProductsReportAction builds the admin products report.
func AdminProductsReportAction(ctx *cartridge.Context) error {
	from, to, err := queryWindow(ctx)
	if err != nil {
		return respondBadRequest(ctx, "Invalid time window")
	}

	db := ctx.DBManager.GetConnection()
	report, err := reports.GetProductsReport(db, from, to)
	if err != nil {
		ctx.Logger.Error("Failed to build products report", slog.Any("error", err))
		return respondInternalError(ctx, "Failed to build products report", err)
	}
	return respondSuccess(ctx, report)
}
