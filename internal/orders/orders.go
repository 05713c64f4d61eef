// Package orders holds the order ledger consumed read-only by the admin
// revenue reports. Order placement itself happens in the storefront; the
// analytics service only records purchase events and reads totals.
package orders

import (
	"fmt"
	"time"

	"log/slog"

	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"

	"github.com/roobiinpandey/qahwatapp/internal/timeframe"
)

// Order statuses.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// Payment statuses.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Order is a placed storefront order.
type Order struct {
	ID            uint    `gorm:"primaryKey;autoIncrement"`
	UserID        uint    `gorm:"index;not null"`
	TotalPrice    float64 `gorm:"not null"`
	Status        string  `gorm:"index;default:pending"`
	PaymentStatus string  `gorm:"index;default:pending"`
	PaymentMethod string
	Items         []OrderItem `gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time   `gorm:"autoCreateTime;index"`
	UpdatedAt     time.Time   `gorm:"autoUpdateTime"`
}

// OrderItem is a single product line within an order.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"`
	OrderID   uint    `gorm:"index;not null"`
	ProductID uint    `gorm:"index;not null"`
	Quantity  int     `gorm:"not null"`
	UnitPrice float64 `gorm:"not null"`
}

// CreateOrder persists an order and its items through the serialized write path.
func CreateOrder(db *gorm.DB, logger *slog.Logger, order *Order) error {
	if order.UserID == 0 {
		return fmt.Errorf("order requires a user")
	}
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
}

// RevenueSummary aggregates paid orders over a window.
type RevenueSummary struct {
	OrderCount   int64   `json:"orderCount"`
	TotalRevenue float64 `json:"totalRevenue"`
	AverageOrder float64 `json:"averageOrderValue"`
}

// GetRevenueSummary sums paid orders between from and to.
func GetRevenueSummary(db *gorm.DB, from, to time.Time) (*RevenueSummary, error) {
	var row struct {
		OrderCount   int64
		TotalRevenue float64
	}
	query := `
		SELECT COUNT(*) AS order_count, COALESCE(SUM(total_price), 0) AS total_revenue
		FROM orders
		WHERE payment_status = ? AND created_at >= ? AND created_at <= ?
	`
	if err := db.Raw(query, PaymentPaid, from, to).Scan(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to get revenue summary: %w", err)
	}

	summary := &RevenueSummary{
		OrderCount:   row.OrderCount,
		TotalRevenue: row.TotalRevenue,
	}
	if row.OrderCount > 0 {
		summary.AverageOrder = row.TotalRevenue / float64(row.OrderCount)
	}
	return summary, nil
}

// OrderTrend returns daily paid order counts over the window, oldest first.
func OrderTrend(db *gorm.DB, from, to time.Time) ([]timeframe.DateStat, error) {
	var results []timeframe.DateStat
	query := `
		SELECT strftime('%Y-%m-%d', created_at) AS date, COUNT(*) AS count
		FROM orders
		WHERE payment_status = ? AND created_at >= ? AND created_at <= ?
		GROUP BY date
		ORDER BY date ASC
	`
	if err := db.Raw(query, PaymentPaid, from, to).Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to get order trend: %w", err)
	}
	return results, nil
}

// CountOrders returns the total number of orders regardless of status.
func CountOrders(db *gorm.DB) (int64, error) {
	var count int64
	if err := db.Model(&Order{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}
