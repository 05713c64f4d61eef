package orders_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roobiinpandey/qahwatapp/internal/orders"
	"github.com/roobiinpandey/qahwatapp/internal/testsupport"
)

var (
	windowFrom = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	windowTo   = time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)
)

func TestCreateOrderWithItems(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	order := &orders.Order{
		UserID:        1,
		TotalPrice:    96,
		Status:        orders.StatusPending,
		PaymentStatus: orders.PaymentPaid,
		PaymentMethod: "card",
		Items: []orders.OrderItem{
			{ProductID: 1, Quantity: 2, UnitPrice: 48},
		},
	}
	require.NoError(t, orders.CreateOrder(db, logger, order))
	require.NotZero(t, order.ID)

	var items []orders.OrderItem
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCreateOrderRequiresUser(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	err := orders.CreateOrder(db, logger, &orders.Order{TotalPrice: 10})
	assert.Error(t, err)
}

func TestGetRevenueSummary(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	ts := windowFrom.Add(time.Hour)
	testsupport.CreateTestOrder(t, db, 1, 100, ts)
	testsupport.CreateTestOrder(t, db, 2, 50, ts.Add(24*time.Hour))
	// Unpaid orders do not count as revenue.
	unpaid := &orders.Order{UserID: 3, TotalPrice: 999, Status: orders.StatusPending, PaymentStatus: orders.PaymentPending, CreatedAt: ts}
	require.NoError(t, db.Create(unpaid).Error)
	// Orders outside the window do not count either.
	testsupport.CreateTestOrder(t, db, 4, 77, windowFrom.AddDate(0, -1, 0))

	summary, err := orders.GetRevenueSummary(db, windowFrom, windowTo)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.OrderCount)
	assert.Equal(t, 150.0, summary.TotalRevenue)
	assert.Equal(t, 75.0, summary.AverageOrder)
}

func TestGetRevenueSummaryEmpty(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	summary, err := orders.GetRevenueSummary(db, windowFrom, windowTo)
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.OrderCount)
	assert.Equal(t, 0.0, summary.TotalRevenue)
	assert.Equal(t, 0.0, summary.AverageOrder)
}

func TestOrderTrend(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	day1 := windowFrom.Add(10 * time.Hour)
	day2 := windowFrom.Add(34 * time.Hour)
	testsupport.CreateTestOrder(t, db, 1, 100, day1)
	testsupport.CreateTestOrder(t, db, 2, 50, day1)
	testsupport.CreateTestOrder(t, db, 3, 25, day2)

	trend, err := orders.OrderTrend(db, windowFrom, windowTo)
	require.NoError(t, err)
	require.Len(t, trend, 2)
	assert.Equal(t, "2026-08-01", trend[0].Date)
	assert.Equal(t, 2, trend[0].Count)
	assert.Equal(t, "2026-08-02", trend[1].Date)
	assert.Equal(t, 1, trend[1].Count)
}
