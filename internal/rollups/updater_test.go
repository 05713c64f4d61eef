package rollups_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/roobiinpandey/qahwatapp/internal/catalog"
	"github.com/roobiinpandey/qahwatapp/internal/rollups"
	"github.com/roobiinpandey/qahwatapp/internal/testsupport"
)

var testDay = time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

func loadRollup(t *testing.T, db *gorm.DB, productID uint, day time.Time) *rollups.ProductRollup {
	t.Helper()
	var rollup rollups.ProductRollup
	err := db.Where("product_id = ? AND day = ?", productID, day).First(&rollup).Error
	require.NoError(t, err)
	return &rollup
}

func TestRecordEventCreatesRollupRow(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	err := rollups.RecordEvent(db, logger, &rollups.ProductEvent{
		ProductID:     1,
		Day:           testDay,
		Kind:          rollups.KindView,
		IsUnique:      true,
		TrafficSource: rollups.TrafficSearch,
		DeviceType:    "mobile",
		Platform:      "ios",
		Snapshot:      catalog.Snapshot{Price: 48, StockQuantity: 120, IsFeatured: true, IsActive: true},
	})
	require.NoError(t, err)

	rollup := loadRollup(t, db, 1, testDay)
	assert.Equal(t, 1, rollup.Views)
	assert.Equal(t, 1, rollup.UniqueViews)
	assert.Equal(t, 0, rollup.AddToCart)
	assert.Equal(t, 1, rollup.TrafficSearch)
	assert.Equal(t, 1, rollup.DeviceMobile)
	assert.Equal(t, 1, rollup.PlatformIOS)
	assert.Equal(t, 48.0, rollup.MetaPrice)
	assert.Equal(t, 120, rollup.MetaStockQuantity)
	assert.True(t, rollup.MetaIsFeatured)
	assert.True(t, rollup.MetaIsActive)
}

func TestRecordEventAccumulatesCounters(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	for i := 0; i < 3; i++ {
		err := rollups.RecordEvent(db, logger, &rollups.ProductEvent{
			ProductID: 2,
			Day:       testDay,
			Kind:      rollups.KindView,
			IsUnique:  i == 0,
		})
		require.NoError(t, err)
	}

	rollup := loadRollup(t, db, 2, testDay)
	assert.Equal(t, 3, rollup.Views)
	assert.Equal(t, 1, rollup.UniqueViews)

	var count int64
	require.NoError(t, db.Model(&rollups.ProductRollup{}).
		Where("product_id = ?", 2).Count(&count).Error)
	assert.Equal(t, int64(1), count, "repeated events must reuse the same daily row")
}

func TestRecordEventMetadataFrozenAtFirstEvent(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	err := rollups.RecordEvent(db, logger, &rollups.ProductEvent{
		ProductID: 3,
		Day:       testDay,
		Kind:      rollups.KindView,
		Snapshot:  catalog.Snapshot{Price: 40, StockQuantity: 10, IsActive: true},
	})
	require.NoError(t, err)

	// The catalog changed mid-day; the rollup keeps the morning snapshot.
	err = rollups.RecordEvent(db, logger, &rollups.ProductEvent{
		ProductID: 3,
		Day:       testDay,
		Kind:      rollups.KindView,
		Snapshot:  catalog.Snapshot{Price: 55, StockQuantity: 5, IsActive: true},
	})
	require.NoError(t, err)

	rollup := loadRollup(t, db, 3, testDay)
	assert.Equal(t, 40.0, rollup.MetaPrice)
	assert.Equal(t, 10, rollup.MetaStockQuantity)
}

func TestRecordEventReviewAverage(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	for _, rating := range []int{5, 4, 3} {
		err := rollups.RecordEvent(db, logger, &rollups.ProductEvent{
			ProductID: 4,
			Day:       testDay,
			Kind:      rollups.KindReview,
			Rating:    rating,
		})
		require.NoError(t, err)
	}

	rollup := loadRollup(t, db, 4, testDay)
	assert.Equal(t, 3, rollup.ReviewsCount)
	assert.InDelta(t, 4.0, rollup.AverageRating, 0.0001)
}

func TestRecordEventConversions(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	events := []*rollups.ProductEvent{
		{ProductID: 5, Day: testDay, Kind: rollups.KindView},
		{ProductID: 5, Day: testDay, Kind: rollups.KindView},
		{ProductID: 5, Day: testDay, Kind: rollups.KindAddToCart},
		{ProductID: 5, Day: testDay, Kind: rollups.KindPurchase, Amount: 50},
	}
	for _, ev := range events {
		require.NoError(t, rollups.RecordEvent(db, logger, ev))
	}

	rollup := loadRollup(t, db, 5, testDay)
	assert.Equal(t, 50.0, rollup.Revenue)
	assert.Equal(t, 50.0, rollup.ViewToCart)
	assert.Equal(t, 100.0, rollup.CartToPurchase)
	assert.Equal(t, 50.0, rollup.ViewToPurchase)
}

func TestRecordEventConversionsWithoutViews(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	events := []*rollups.ProductEvent{
		{ProductID: 6, Day: testDay, Kind: rollups.KindAddToCart},
		{ProductID: 6, Day: testDay, Kind: rollups.KindPurchase, Amount: 50},
	}
	for _, ev := range events {
		require.NoError(t, rollups.RecordEvent(db, logger, ev))
	}

	rollup := loadRollup(t, db, 6, testDay)
	assert.Equal(t, 0.0, rollup.ViewToCart, "no views means no view conversions")
	assert.Equal(t, 100.0, rollup.CartToPurchase)
	assert.Equal(t, 0.0, rollup.ViewToPurchase)
}

func TestRecordEventGeoStats(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	events := []*rollups.ProductEvent{
		{ProductID: 7, Day: testDay, Kind: rollups.KindView, Country: "AE"},
		{ProductID: 7, Day: testDay, Kind: rollups.KindView, Country: "AE"},
		{ProductID: 7, Day: testDay, Kind: rollups.KindPurchase, Country: "AE", Amount: 95},
		{ProductID: 7, Day: testDay, Kind: rollups.KindView, Country: "US"},
		// No country: counted in the rollup but skipped in geo stats.
		{ProductID: 7, Day: testDay, Kind: rollups.KindView},
		// Wishlist events are not broken down geographically.
		{ProductID: 7, Day: testDay, Kind: rollups.KindWishlistAdd, Country: "AE"},
	}
	for _, ev := range events {
		require.NoError(t, rollups.RecordEvent(db, logger, ev))
	}

	var stats []rollups.RollupGeoStat
	require.NoError(t, db.Where("product_id = ?", 7).Order("country ASC").Find(&stats).Error)
	require.Len(t, stats, 2)
	assert.Equal(t, "AE", stats[0].Country)
	assert.Equal(t, 2, stats[0].Views)
	assert.Equal(t, 1, stats[0].Purchases)
	assert.Equal(t, "US", stats[1].Country)
	assert.Equal(t, 1, stats[1].Views)
	assert.Equal(t, 0, stats[1].Purchases)
}

func TestBreakdownsCountViewEventsOnly(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	err := rollups.RecordEvent(db, logger, &rollups.ProductEvent{
		ProductID:     8,
		Day:           testDay,
		Kind:          rollups.KindPurchase,
		Amount:        42,
		TrafficSource: rollups.TrafficDirect,
		DeviceType:    "mobile",
		Platform:      "android",
	})
	require.NoError(t, err)

	rollup := loadRollup(t, db, 8, testDay)
	assert.Equal(t, 0, rollup.TrafficDirect)
	assert.Equal(t, 0, rollup.DeviceMobile)
	assert.Equal(t, 0, rollup.PlatformAndroid)
	assert.Equal(t, 1, rollup.Purchases)
}

func TestRecordEventValidation(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	err := rollups.RecordEvent(db, logger, &rollups.ProductEvent{Day: testDay, Kind: rollups.KindView})
	assert.Error(t, err)

	err = rollups.RecordEvent(db, logger, &rollups.ProductEvent{ProductID: 1, Kind: rollups.KindView})
	assert.Error(t, err)
}
