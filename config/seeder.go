package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"autix_backend/models"
	"autix_backend/utils"
)

//go:embed seed_data.yaml
var seedData []byte

type seedFile struct {
	Password string       `yaml:"password"`
	Dealers  []seedDealer `yaml:"dealers"`
	Buyers   []seedBuyer  `yaml:"buyers"`
}

type seedUser struct {
	Email     string `yaml:"email"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Phone     string `yaml:"phone"`
}

type seedDealer struct {
	seedUser `yaml:",inline"`

	BusinessName  string    `yaml:"business_name"`
	LicenseNumber string    `yaml:"license_number"`
	Address       string    `yaml:"address"`
	City          string    `yaml:"city"`
	Description   string    `yaml:"description"`
	Verified      bool      `yaml:"verified"`
	Cars          []seedCar `yaml:"cars"`
}

type seedCar struct {
	Make         string  `yaml:"make"`
	Model        string  `yaml:"model"`
	Year         int     `yaml:"year"`
	Price        float64 `yaml:"price"`
	Mileage      int     `yaml:"mileage"`
	FuelType     string  `yaml:"fuel_type"`
	Transmission string  `yaml:"transmission"`
	Color        string  `yaml:"color"`
	City         string  `yaml:"city"`
	Description  string  `yaml:"description"`
	Featured     bool    `yaml:"featured"`
}

type seedBuyer struct {
	seedUser `yaml:",inline"`

	BudgetMin   *float64         `yaml:"budget_min"`
	BudgetMax   *float64         `yaml:"budget_max"`
	Preferences map[string]any   `yaml:"preferences"`
	Requests    []seedCarRequest `yaml:"requests"`
}

type seedCarRequest struct {
	Make        string   `yaml:"make"`
	Model       string   `yaml:"model"`
	YearFrom    *int     `yaml:"year_from"`
	YearTo      *int     `yaml:"year_to"`
	PriceMax    *float64 `yaml:"price_max"`
	Description string   `yaml:"description"`
}

// SeedStats counts the rows a seed run inserted.
type SeedStats struct {
	Users       int
	Cars        int
	CarRequests int
}

// Seed loads the embedded demo data. Users that already exist, matched by
// email, are skipped together with their listings.
func Seed(db *gorm.DB) (SeedStats, error) {
	return SeedFrom(db, seedData)
}

func SeedFrom(db *gorm.DB, data []byte) (SeedStats, error) {
	var stats SeedStats

	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return stats, fmt.Errorf("parse seed data: %w", err)
	}
	if len(file.Password) < models.MinPasswordLength {
		return stats, errors.New("seed data: password is too short")
	}
	if len(file.Password) > models.MaxPasswordBytes {
		return stats, errors.New("seed data: password is too long")
	}

	hash, err := utils.HashPassword(file.Password)
	if err != nil {
		return stats, fmt.Errorf("hash seed password: %w", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, d := range file.Dealers {
			user, created, err := seedAccount(tx, d.seedUser, models.UserTypeDealer, hash)
			if err != nil {
				return err
			}
			if !created {
				log.Info().Str("email", d.Email).Msg("seed user already exists")
				continue
			}
			stats.Users++

			dealer := &models.Dealer{
				UserID:        user.ID,
				BusinessName:  d.BusinessName,
				LicenseNumber: d.LicenseNumber,
				Address:       d.Address,
				City:          utils.NormalizeName(d.City),
				Description:   d.Description,
				Verified:      d.Verified,
			}
			if err := tx.Create(dealer).Error; err != nil {
				return fmt.Errorf("seed dealer %s: %w", d.Email, err)
			}

			for _, c := range d.Cars {
				car := &models.Car{
					DealerID:     dealer.ID,
					Make:         utils.NormalizeName(c.Make),
					Model:        utils.NormalizeName(c.Model),
					Year:         c.Year,
					Price:        c.Price,
					Mileage:      c.Mileage,
					FuelType:     c.FuelType,
					Transmission: c.Transmission,
					Color:        c.Color,
					Description:  c.Description,
					City:         utils.NormalizeName(c.City),
					Status:       models.CarStatusActive,
					IsAvailable:  true,
					IsFeatured:   c.Featured,
				}
				if err := tx.Create(car).Error; err != nil {
					return fmt.Errorf("seed car %s %s: %w", c.Make, c.Model, err)
				}
				stats.Cars++
			}
		}

		for _, b := range file.Buyers {
			user, created, err := seedAccount(tx, b.seedUser, models.UserTypeBuyer, hash)
			if err != nil {
				return err
			}
			if !created {
				log.Info().Str("email", b.Email).Msg("seed user already exists")
				continue
			}
			stats.Users++

			buyer := &models.Buyer{
				UserID:    user.ID,
				BudgetMin: b.BudgetMin,
				BudgetMax: b.BudgetMax,
			}
			if len(b.Preferences) > 0 {
				raw, err := json.Marshal(b.Preferences)
				if err != nil {
					return fmt.Errorf("seed preferences %s: %w", b.Email, err)
				}
				buyer.Preferences = datatypes.JSON(raw)
			}
			if err := tx.Create(buyer).Error; err != nil {
				return fmt.Errorf("seed buyer %s: %w", b.Email, err)
			}

			for _, r := range b.Requests {
				req := &models.CarRequest{
					BuyerID:     buyer.ID,
					Make:        utils.NormalizeName(r.Make),
					Model:       utils.NormalizeName(r.Model),
					YearFrom:    r.YearFrom,
					YearTo:      r.YearTo,
					PriceMax:    r.PriceMax,
					Description: r.Description,
					Status:      models.CarRequestStatusActive,
				}
				if err := tx.Create(req).Error; err != nil {
					return fmt.Errorf("seed car request %s: %w", b.Email, err)
				}
				stats.CarRequests++
			}
		}
		return nil
	})
	if err != nil {
		return SeedStats{}, err
	}

	log.Info().
		Int("users", stats.Users).
		Int("cars", stats.Cars).
		Int("car_requests", stats.CarRequests).
		Msg("seeding complete")
	return stats, nil
}

// seedAccount inserts the user row unless the email is taken.
func seedAccount(tx *gorm.DB, u seedUser, userType models.UserType, hash string) (*models.User, bool, error) {
	var existing models.User
	err := tx.Where("email = ?", u.Email).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("look up %s: %w", u.Email, err)
	}

	user := &models.User{
		Email:        u.Email,
		PasswordHash: hash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		UserType:     userType,
	}
	if u.Phone != "" {
		phone := u.Phone
		user.Phone = &phone
	}
	if err := tx.Create(user).Error; err != nil {
		return nil, false, fmt.Errorf("seed user %s: %w", u.Email, err)
	}
	return user, true, nil
}
