package jobs

import (
	"log/slog"
	"time"

	"github.com/karloscodes/cartridge"
	"gorm.io/gorm"

	"github.com/roobiinpandey/qahwatapp/internal/config"
	"github.com/roobiinpandey/qahwatapp/internal/events"
	"github.com/roobiinpandey/qahwatapp/internal/rollups"
)

// CleanupJob enforces the retention windows on events and rollups
type CleanupJob struct {
	dbManager cartridge.DBManager
	logger    *slog.Logger
	cfg       *config.Config
}

func NewCleanupJob(dbManager cartridge.DBManager, logger *slog.Logger, cfg *config.Config) *CleanupJob {
	return &CleanupJob{
		dbManager: dbManager,
		logger:    logger,
		cfg:       cfg,
	}
}

// Run removes raw events and rollup rows past their retention periods.
// Raw events age out fastest; rollups keep the aggregated history around
// for a year of reporting before they go too.
func (j *CleanupJob) Run() error {
	db := j.dbManager.GetConnection()
	now := time.Now().UTC()

	eventsCutoff := now.AddDate(0, 0, -j.cfg.EventsRetentionDays)
	if err := j.deleteInBatches("events", db, &events.Event{}, "timestamp < ?", eventsCutoff); err != nil {
		return err
	}

	rollupsCutoff := now.AddDate(0, 0, -j.cfg.RollupsRetentionDays)
	if err := j.deleteInBatches("product_rollups", db, &rollups.ProductRollup{}, "day < ?", rollupsCutoff); err != nil {
		return err
	}
	return j.deleteInBatches("rollup_geo_stats", db, &rollups.RollupGeoStat{}, "day < ?", rollupsCutoff)
}

// deleteInBatches removes matching rows in batches to avoid locking the
// database for too long.
func (j *CleanupJob) deleteInBatches(table string, db *gorm.DB, model any, condition string, cutoff time.Time) error {
	var countToDelete int64
	if err := db.Model(model).Where(condition, cutoff).Count(&countToDelete).Error; err != nil {
		j.logger.Error("Failed to count expired rows",
			slog.String("table", table), slog.Any("error", err))
		return err
	}

	if countToDelete == 0 {
		j.logger.Debug("No expired rows to clean up", slog.String("table", table))
		return nil
	}

	j.logger.Info("Starting retention cleanup",
		slog.String("table", table),
		slog.Time("cutoff_date", cutoff),
		slog.Int64("rows", countToDelete))

	batchSize := 1000
	totalDeleted := int64(0)

	for {
		result := db.Where(condition, cutoff).Limit(batchSize).Delete(model)
		if result.Error != nil {
			j.logger.Error("Failed to delete expired rows",
				slog.String("table", table),
				slog.Any("error", result.Error),
				slog.Int64("deleted_so_far", totalDeleted))
			return result.Error
		}

		totalDeleted += result.RowsAffected

		if result.RowsAffected < int64(batchSize) {
			break
		}

		// Small delay between batches to prevent database lock contention
		time.Sleep(100 * time.Millisecond)
	}

	j.logger.Info("Cleaned up expired rows",
		slog.String("table", table),
		slog.Int64("deleted_count", totalDeleted))

	return nil
}
