package jobs

import (
	"log/slog"
	"os"
	"time"

	"github.com/roobiinpandey/qahwatapp/internal/config"
	"github.com/roobiinpandey/qahwatapp/internal/pkg/geoip"
)

// GeoReloadJob reloads the GeoLite database when the file on disk changes.
// Operators replace the .mmdb out of band; the job picks the new file up
// without a restart.
type GeoReloadJob struct {
	logger       *slog.Logger
	cfg          *config.Config
	lastModified time.Time
}

func NewGeoReloadJob(logger *slog.Logger, cfg *config.Config) *GeoReloadJob {
	return &GeoReloadJob{
		logger: logger,
		cfg:    cfg,
	}
}

// Run checks the database file's mtime and reloads it on change.
func (j *GeoReloadJob) Run() error {
	info, err := os.Stat(j.cfg.GeoDBPath)
	if err != nil {
		j.logger.Debug("Geo database file not available",
			slog.String("path", j.cfg.GeoDBPath), slog.Any("error", err))
		return nil
	}

	if j.lastModified.IsZero() {
		j.lastModified = info.ModTime()
		return nil
	}

	if !info.ModTime().After(j.lastModified) {
		return nil
	}

	j.logger.Info("Geo database file changed, reloading",
		slog.String("path", j.cfg.GeoDBPath),
		slog.Time("modified", info.ModTime()))
	geoip.ReloadGeoDB()
	j.lastModified = info.ModTime()
	return nil
}
