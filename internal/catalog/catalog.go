// Package catalog holds the coffee product catalog consumed by the
// analytics pipeline. Rollups snapshot product metadata from here and the
// admin reports join against it for names and categories.
package catalog

import (
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"
)

// Product is a coffee listing in the store catalog.
type Product struct {
	ID            uint    `gorm:"primaryKey;autoIncrement"`
	Name          string  `gorm:"index;not null"`
	Slug          string  `gorm:"uniqueIndex"`
	Description   string  `gorm:"type:text"`
	Origin        string  `gorm:"index"`
	RoastLevel    string
	Price         float64 `gorm:"not null"`
	StockQuantity int     `gorm:"not null;default:0"`
	IsFeatured    bool    `gorm:"index;default:false"`
	IsActive      bool    `gorm:"index;default:true"`
	Categories    []Category `gorm:"many2many:product_categories;"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime"`
}

// Category groups products for browsing and reporting.
type Category struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"uniqueIndex;not null"`
	Slug      string    `gorm:"uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// ProductNotFoundError indicates a lookup for a product that does not exist.
type ProductNotFoundError struct {
	ProductID uint
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %d", e.ProductID)
}

// FindProductByID retrieves a product by its primary key.
func FindProductByID(db *gorm.DB, id uint) (*Product, error) {
	var product Product
	if err := db.Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ProductNotFoundError{ProductID: id}
		}
		return nil, fmt.Errorf("failed to find product %d: %w", id, err)
	}
	return &product, nil
}

// Snapshot captures the catalog state of a product at rollup-creation time.
// Rollup rows store these values so historical reports reflect the product
// as it was on that day, not as it is now.
type Snapshot struct {
	Price         float64
	StockQuantity int
	IsFeatured    bool
	IsActive      bool
}

// SnapshotForProduct returns the current metadata snapshot for a product.
// A missing product yields a zero snapshot rather than an error so that
// event ingestion never blocks on catalog gaps.
func SnapshotForProduct(db *gorm.DB, logger *slog.Logger, productID uint) Snapshot {
	product, err := FindProductByID(db, productID)
	if err != nil {
		var notFound *ProductNotFoundError
		if !errors.As(err, &notFound) {
			logger.Warn("Failed to load product for snapshot",
				slog.Uint64("product_id", uint64(productID)),
				slog.Any("error", err))
		}
		return Snapshot{}
	}
	return Snapshot{
		Price:         product.Price,
		StockQuantity: product.StockQuantity,
		IsFeatured:    product.IsFeatured,
		IsActive:      product.IsActive,
	}
}

// CreateProduct persists a new product through the serialized write path.
func CreateProduct(db *gorm.DB, logger *slog.Logger, product *Product) error {
	if product.Name == "" {
		return errors.New("product name cannot be empty")
	}
	if product.Price < 0 {
		return fmt.Errorf("product price cannot be negative: %f", product.Price)
	}
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Create(product).Error
	})
}

// CountActiveProducts returns the number of active catalog entries.
func CountActiveProducts(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&Product{}).Where("is_active = ?", true).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active products: %w", err)
	}
	return count, nil
}
