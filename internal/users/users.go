package users

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/karloscodes/cartridge/crypto"
	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"

	"github.com/roobiinpandey/qahwatapp/internal/timeframe"
)

// Roles assignable to a user account.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is a store account. Customers place orders and generate analytics
// events; admins access the reporting endpoints.
type User struct {
	ID                uint   `gorm:"primaryKey;autoIncrement"`
	Name              string `gorm:"not null"`
	Email             string `gorm:"uniqueIndex;not null"`
	EncryptedPassword string
	Role              string       `gorm:"index;default:customer"`
	Phone             string
	LastLoginAt       sql.NullTime
	CreatedAt         time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

// ErrUserExists is returned when attempting to create a user that already exists.
var ErrUserExists = errors.New("user already exists")

// ErrUserNotFound is returned when a user lookup fails.
var ErrUserNotFound = gorm.ErrRecordNotFound

// FindByEmail retrieves a user by email.
func FindByEmail(db *gorm.DB, email string) (*User, error) {
	var user User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID retrieves a user by ID.
func FindByID(db *gorm.DB, id uint) (*User, error) {
	var user User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a new account with a hashed password. It returns
// ErrUserExists if the email is already registered.
func CreateUser(db *gorm.DB, logger *slog.Logger, name, email, password, role string) (*User, error) {
	if email == "" {
		return nil, errors.New("email cannot be empty")
	}
	if password == "" {
		return nil, errors.New("password cannot be empty")
	}
	if role == "" {
		role = RoleCustomer
	}

	if _, err := FindByEmail(db, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := crypto.GeneratePasswordHash(password)
	if err != nil {
		return nil, err
	}

	newUser := &User{
		Name:              name,
		Email:             email,
		EncryptedPassword: string(hashedPassword),
		Role:              role,
	}

	if err := sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Create(newUser).Error
	}); err != nil {
		return nil, err
	}
	return newUser, nil
}

// CountUsers returns the total number of accounts.
func CountUsers(db *gorm.DB) (int64, error) {
	var count int64
	if err := db.Model(&User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// RegistrationTrend returns daily signup counts over the trailing window,
// oldest day first.
func RegistrationTrend(db *gorm.DB, from, to time.Time) ([]timeframe.DateStat, error) {
	var results []timeframe.DateStat
	query := `
		SELECT strftime('%Y-%m-%d', created_at) AS date, COUNT(*) AS count
		FROM users
		WHERE created_at >= ? AND created_at <= ?
		GROUP BY date
		ORDER BY date ASC
	`
	if err := db.Raw(query, from, to).Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to get registration trend: %w", err)
	}
	return results, nil
}
