package events

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/roobiinpandey/qahwatapp/internal/rollups"
	"github.com/roobiinpandey/qahwatapp/internal/timeframe"
)

// FunnelStep is one stage of the purchase funnel.
type FunnelStep struct {
	Stage EventType `json:"stage"`
	Count int64     `json:"count"`
	// Rate is the conversion percentage from the previous step. The first
	// step is always 100 when it has any events.
	Rate float64 `json:"rate"`
}

// Funnel is the full purchase funnel over a window.
type Funnel struct {
	Steps             []FunnelStep `json:"steps"`
	OverallConversion float64      `json:"overallConversion"`
}

// GetConversionFunnel counts funnel stages from raw events over the window.
// Raw events are used instead of rollups so all steps come from the same
// source; checkout stages are not product-scoped and have no rollup columns.
func GetConversionFunnel(db *gorm.DB, from, to time.Time) (*Funnel, error) {
	type stageCount struct {
		EventType EventType
		Count     int64
	}
	var rows []stageCount
	query := `
		SELECT event_type, COUNT(*) AS count
		FROM events
		WHERE event_type IN (?, ?, ?, ?, ?) AND timestamp >= ? AND timestamp <= ?
		GROUP BY event_type
	`
	err := db.Raw(query,
		FunnelStages[0], FunnelStages[1], FunnelStages[2], FunnelStages[3], FunnelStages[4],
		from, to,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count funnel stages: %w", err)
	}

	counts := make(map[EventType]int64, len(rows))
	for _, row := range rows {
		counts[row.EventType] = row.Count
	}

	funnel := &Funnel{Steps: make([]FunnelStep, 0, len(FunnelStages))}
	for i, stage := range FunnelStages {
		step := FunnelStep{Stage: stage, Count: counts[stage]}
		if i == 0 {
			if step.Count > 0 {
				step.Rate = 100
			}
		} else {
			step.Rate = rollups.ConversionRatio(step.Count, funnel.Steps[i-1].Count)
		}
		funnel.Steps = append(funnel.Steps, step)
	}
	funnel.OverallConversion = rollups.ConversionRatio(
		counts[FunnelStages[len(FunnelStages)-1]], counts[FunnelStages[0]])
	return funnel, nil
}

// PopularProduct is one entry in the most-viewed ranking.
type PopularProduct struct {
	ProductID   uint   `json:"productId"`
	ProductName string `json:"productName"`
	Views       int64  `json:"views"`
	UniqueUsers int64  `json:"uniqueUsers"`
}

// GetPopularProducts ranks products by raw view events over the window.
func GetPopularProducts(db *gorm.DB, from, to time.Time, limit int) ([]PopularProduct, error) {
	if limit <= 0 {
		limit = 10
	}
	var results []PopularProduct
	query := `
		SELECT e.product_id, COALESCE(p.name, '') AS product_name,
			COUNT(*) AS views,
			COUNT(DISTINCT CASE WHEN e.user_id > 0 THEN e.user_id END) AS unique_users
		FROM events e
		LEFT JOIN products p ON p.id = e.product_id
		WHERE e.event_type = ? AND e.product_id > 0
			AND e.timestamp >= ? AND e.timestamp <= ?
		GROUP BY e.product_id
		ORDER BY views DESC
		LIMIT ?
	`
	if err := db.Raw(query, EventTypeProductView, from, to, limit).Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to get popular products: %w", err)
	}
	return results, nil
}

// TypeCount pairs an event type with its occurrence count.
type TypeCount struct {
	EventType EventType `json:"eventType"`
	Count     int64     `json:"count"`
}

// ActivitySummary describes one user's activity over a window.
type ActivitySummary struct {
	UserID      uint        `json:"userId"`
	TotalEvents int64       `json:"totalEvents"`
	Sessions    int64       `json:"sessions"`
	FirstSeen   *time.Time  `json:"firstSeen,omitempty"`
	LastSeen    *time.Time  `json:"lastSeen,omitempty"`
	ByType      []TypeCount `json:"byType"`
}

// GetUserActivitySummary aggregates a user's events over the window.
func GetUserActivitySummary(db *gorm.DB, userID uint, from, to time.Time) (*ActivitySummary, error) {
	summary := &ActivitySummary{UserID: userID, ByType: []TypeCount{}}

	var totals struct {
		TotalEvents int64
		Sessions    int64
		FirstSeen   *time.Time
		LastSeen    *time.Time
	}
	totalsQuery := `
		SELECT COUNT(*) AS total_events,
			COUNT(DISTINCT session_id) AS sessions,
			MIN(timestamp) AS first_seen,
			MAX(timestamp) AS last_seen
		FROM events
		WHERE user_id = ? AND timestamp >= ? AND timestamp <= ?
	`
	if err := db.Raw(totalsQuery, userID, from, to).Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("failed to get activity totals: %w", err)
	}
	summary.TotalEvents = totals.TotalEvents
	summary.Sessions = totals.Sessions
	if totals.TotalEvents > 0 {
		summary.FirstSeen = totals.FirstSeen
		summary.LastSeen = totals.LastSeen
	}

	byTypeQuery := `
		SELECT event_type, COUNT(*) AS count
		FROM events
		WHERE user_id = ? AND timestamp >= ? AND timestamp <= ?
		GROUP BY event_type
		ORDER BY count DESC
	`
	if err := db.Raw(byTypeQuery, userID, from, to).Scan(&summary.ByType).Error; err != nil {
		return nil, fmt.Errorf("failed to get activity breakdown: %w", err)
	}
	return summary, nil
}

// GetUserJourney returns a user's events in chronological order, optionally
// scoped to one session.
func GetUserJourney(db *gorm.DB, userID uint, sessionID string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	query := db.Where("user_id = ?", userID)
	if sessionID != "" {
		query = query.Where("session_id = ?", sessionID)
	}

	var journey []Event
	err := query.Order("timestamp ASC").Limit(limit).Find(&journey).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user journey: %w", err)
	}
	return journey, nil
}

// GetDailyActiveUsers counts distinct signed-in users per day, oldest first.
func GetDailyActiveUsers(db *gorm.DB, from, to time.Time) ([]timeframe.DateStat, error) {
	var results []timeframe.DateStat
	query := `
		SELECT strftime('%Y-%m-%d', timestamp) AS date,
			COUNT(DISTINCT user_id) AS count
		FROM events
		WHERE user_id > 0 AND timestamp >= ? AND timestamp <= ?
		GROUP BY date
		ORDER BY date ASC
	`
	if err := db.Raw(query, from, to).Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to get daily active users: %w", err)
	}
	return results, nil
}

// BreakdownEntry is a labeled event count for device/platform breakdowns.
type BreakdownEntry struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// GetDeviceBreakdown counts events per device type over the window.
func GetDeviceBreakdown(db *gorm.DB, from, to time.Time) ([]BreakdownEntry, error) {
	return breakdownByColumn(db, "device_type", from, to)
}

// GetPlatformBreakdown counts events per platform over the window.
func GetPlatformBreakdown(db *gorm.DB, from, to time.Time) ([]BreakdownEntry, error) {
	return breakdownByColumn(db, "platform", from, to)
}

func breakdownByColumn(db *gorm.DB, column string, from, to time.Time) ([]BreakdownEntry, error) {
	var results []BreakdownEntry
	query := fmt.Sprintf(`
		SELECT COALESCE(NULLIF(%s, ''), 'unknown') AS label, COUNT(*) AS count
		FROM events
		WHERE timestamp >= ? AND timestamp <= ?
		GROUP BY label
		ORDER BY count DESC
	`, column)
	if err := db.Raw(query, from, to).Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to get %s breakdown: %w", column, err)
	}
	return results, nil
}
