// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"autix_backend/models"
	"autix_backend/utils"
)

// NewDB opens a migrated in-memory SQLite database. A single connection
// keeps every query on the same in-memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

// Password is the plain-text password of every fixture user.
const Password = "secret123"

var passwordHash string

func hash(t *testing.T) string {
	t.Helper()
	if passwordHash == "" {
		h, err := utils.HashPassword(Password)
		if err != nil {
			t.Fatalf("hash password: %v", err)
		}
		passwordHash = h
	}
	return passwordHash
}

func CreateDealer(t *testing.T, db *gorm.DB, email string) (*models.User, *models.Dealer) {
	t.Helper()

	user := &models.User{
		Email:        email,
		PasswordHash: hash(t),
		FirstName:    "Dana",
		LastName:     "Dealer",
		UserType:     models.UserTypeDealer,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create dealer user: %v", err)
	}
	dealer := &models.Dealer{UserID: user.ID, BusinessName: "Motors of " + email, City: "Almaty"}
	if err := db.Create(dealer).Error; err != nil {
		t.Fatalf("create dealer: %v", err)
	}
	return user, dealer
}

func CreateBuyer(t *testing.T, db *gorm.DB, email string) (*models.User, *models.Buyer) {
	t.Helper()

	user := &models.User{
		Email:        email,
		PasswordHash: hash(t),
		FirstName:    "Bo",
		LastName:     "Buyer",
		UserType:     models.UserTypeBuyer,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create buyer user: %v", err)
	}
	buyer := &models.Buyer{UserID: user.ID}
	if err := db.Create(buyer).Error; err != nil {
		t.Fatalf("create buyer: %v", err)
	}
	return user, buyer
}

// CreateCar inserts an active, available car; mutate fills in the rest.
func CreateCar(t *testing.T, db *gorm.DB, dealerID uint, mutate func(*models.Car)) *models.Car {
	t.Helper()

	car := &models.Car{
		DealerID:     dealerID,
		Make:         "Toyota",
		Model:        "Camry",
		Year:         2018,
		Price:        150000,
		Mileage:      60000,
		FuelType:     "petrol",
		Transmission: "automatic",
		City:         "Almaty",
		Status:       models.CarStatusActive,
		IsAvailable:  true,
	}
	if mutate != nil {
		mutate(car)
	}
	if err := db.Create(car).Error; err != nil {
		t.Fatalf("create car: %v", err)
	}
	return car
}
