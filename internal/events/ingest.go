package events

import (
	"encoding/json"
	"fmt"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/karloscodes/cartridge"
	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"

	"github.com/roobiinpandey/qahwatapp/internal/catalog"
	"github.com/roobiinpandey/qahwatapp/internal/pkg/geoip"
	"github.com/roobiinpandey/qahwatapp/internal/pkg/useragent"
	"github.com/roobiinpandey/qahwatapp/internal/rollups"
	"github.com/roobiinpandey/qahwatapp/internal/timeframe"
)

// TrackEventInput is the normalized ingest request for one event.
type TrackEventInput struct {
	UserID    uint
	SessionID string
	EventType EventType
	IPAddress string
	UserAgent string
	Data      EventData
}

// TrackEvent persists one event and, when the event is product-relevant,
// applies it to the daily rollup in the same transaction. The event row and
// the rollup increment commit or fail together.
func TrackEvent(dbManager cartridge.DBManager, logger *slog.Logger, clock timeframe.TimeProvider, input *TrackEventInput) error {
	if input == nil {
		return fmt.Errorf("track event input is required")
	}
	if !input.EventType.Valid() {
		return fmt.Errorf("unknown event type: %q", input.EventType)
	}
	if clock == nil {
		clock = &timeframe.DefaultTimeProvider{}
	}

	now := clock.Now(time.UTC)
	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	deviceType, platform := resolveClient(&input.Data, input.UserAgent)
	country := resolveCountry(input.Data.Country, input.IPAddress)

	payload, err := json.Marshal(input.Data)
	if err != nil {
		return fmt.Errorf("failed to encode event payload: %w", err)
	}

	event := &Event{
		UserID:        input.UserID,
		SessionID:     sessionID,
		EventType:     input.EventType,
		ProductID:     input.Data.ProductID,
		CategoryID:    input.Data.CategoryID,
		OrderID:       input.Data.OrderID,
		DeviceType:    deviceType,
		Platform:      platform,
		Country:       country,
		TrafficSource: input.Data.Source,
		PayloadJSON:   string(payload),
		IPAddress:     input.IPAddress,
		UserAgent:     input.UserAgent,
		Timestamp:     now,
		CreatedAt:     now,
	}

	db := dbManager.GetConnection()
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("failed to persist event: %w", err)
		}

		kind, relevant := input.EventType.RollupKind()
		if !relevant || input.Data.ProductID == 0 {
			return nil
		}

		productEvent := &rollups.ProductEvent{
			ProductID:     input.Data.ProductID,
			Day:           timeframe.UTCDay(now),
			Kind:          kind,
			IsUnique:      input.Data.IsUnique,
			Amount:        input.Data.Amount,
			Rating:        input.Data.Rating,
			TrafficSource: input.Data.Source,
			DeviceType:    deviceType,
			Platform:      platform,
			Country:       country,
			Snapshot:      catalog.SnapshotForProduct(tx, logger, input.Data.ProductID),
		}
		if err := rollups.RecordEvent(tx, logger, productEvent); err != nil {
			return fmt.Errorf("failed to update rollup: %w", err)
		}
		return nil
	})
}

// resolveClient fills in device type and platform, preferring what the
// client reported and falling back to User-Agent classification.
func resolveClient(data *EventData, ua string) (string, string) {
	deviceType := data.DeviceType
	platform := data.Platform
	if deviceType != "" && platform != "" {
		return deviceType, platform
	}

	info := useragent.Parse(ua)
	if deviceType == "" {
		deviceType = info.Device
	}
	if platform == "" {
		platform = info.Platform
	}
	return deviceType, platform
}

// resolveCountry prefers the client-reported country and falls back to a
// GeoIP lookup. Either may be empty; geo breakdowns simply skip such events.
func resolveCountry(country, ip string) string {
	if country != "" {
		return country
	}
	return geoip.CountryCodeForIP(ip)
}
