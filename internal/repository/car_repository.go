package repository

import (
	"context"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"autix_backend/internal/search"
	"autix_backend/models"
)

// PublicCars limits a query to listings anonymous visitors may see.
func PublicCars(db *gorm.DB) *gorm.DB {
	return db.Where("cars.status = ? AND cars.is_available = ?", models.CarStatusActive, true)
}

// OwnedCars limits a query to one dealer's inventory. Deleted listings are
// hidden unless the caller asks for them by status.
func OwnedCars(dealerID uint, status models.CarStatus) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("cars.dealer_id = ?", dealerID)
		if status != "" {
			return db.Where("cars.status = ?", status)
		}
		return db.Where("cars.status <> ?", models.CarStatusDeleted)
	}
}

func withImages(db *gorm.DB) *gorm.DB {
	return db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("car_images.display_order ASC, car_images.id ASC")
	})
}

type CarFilterOptions struct {
	Makes         []string `json:"makes"`
	Cities        []string `json:"cities"`
	FuelTypes     []string `json:"fuelTypes"`
	Transmissions []string `json:"transmissions"`
	PriceRange    struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	} `json:"priceRange"`
	YearRange struct {
		Min int `json:"min"`
		Max int `json:"max"`
	} `json:"yearRange"`
}

type CarRepository interface {
	// Search returns one page of public cars and the total matching count.
	Search(ctx context.Context, f search.CarFilter) ([]models.Car, int64, error)
	Featured(ctx context.Context, limit int) ([]models.Car, error)
	GetPublic(ctx context.Context, id uint) (*models.Car, error)
	// GetByID ignores visibility; callers check ownership first.
	GetByID(ctx context.Context, id uint) (*models.Car, error)
	ListByDealer(ctx context.Context, dealerID uint, f search.DealerCarFilter) ([]models.Car, int64, error)
	Create(ctx context.Context, car *models.Car) error
	Update(ctx context.Context, id uint, updates map[string]any) error
	SoftDelete(ctx context.Context, id uint) error
	FilterOptions(ctx context.Context) (*CarFilterOptions, error)
	// DealerOf returns the dealer owning a non-deleted car.
	DealerOf(ctx context.Context, carID uint) (uint, error)
}

type GormCarRepository struct {
	db *gorm.DB
}

func NewGormCarRepository(db *gorm.DB) *GormCarRepository {
	return &GormCarRepository{db: db}
}

func (r *GormCarRepository) Search(ctx context.Context, f search.CarFilter) ([]models.Car, int64, error) {
	preds := f.Predicates()
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Car{}).Scopes(PublicCars, search.Scope(preds))
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	where, args := search.Where(preds)
	log.Debug().Str("where", where).Int("args", len(args)).Int64("total", total).Msg("car search")

	var cars []models.Car
	err := base().
		Scopes(withImages).
		Preload("Dealer").
		Order(f.OrderBy()).
		Limit(f.Page.Limit).
		Offset(f.Page.Offset()).
		Find(&cars).Error
	if err != nil {
		return nil, 0, err
	}
	return cars, total, nil
}

func (r *GormCarRepository) Featured(ctx context.Context, limit int) ([]models.Car, error) {
	var cars []models.Car
	err := r.db.WithContext(ctx).
		Scopes(PublicCars, withImages).
		Preload("Dealer").
		Where("cars.is_featured = ?", true).
		Order("cars.created_at DESC, cars.id DESC").
		Limit(limit).
		Find(&cars).Error
	return cars, err
}

func (r *GormCarRepository) GetPublic(ctx context.Context, id uint) (*models.Car, error) {
	var car models.Car
	err := r.db.WithContext(ctx).
		Scopes(PublicCars, withImages).
		Preload("Dealer.User").
		First(&car, "cars.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &car, nil
}

func (r *GormCarRepository) GetByID(ctx context.Context, id uint) (*models.Car, error) {
	var car models.Car
	err := r.db.WithContext(ctx).
		Scopes(withImages).
		Preload("Dealer").
		First(&car, "cars.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &car, nil
}

func (r *GormCarRepository) ListByDealer(ctx context.Context, dealerID uint, f search.DealerCarFilter) ([]models.Car, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Car{}).Scopes(OwnedCars(dealerID, f.Status))
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cars []models.Car
	err := base().
		Scopes(withImages).
		Order("cars.created_at DESC, cars.id DESC").
		Limit(f.Page.Limit).
		Offset(f.Page.Offset()).
		Find(&cars).Error
	if err != nil {
		return nil, 0, err
	}
	return cars, total, nil
}

func (r *GormCarRepository) Create(ctx context.Context, car *models.Car) error {
	return r.db.WithContext(ctx).Create(car).Error
}

func (r *GormCarRepository) Update(ctx context.Context, id uint, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Car{}).Where("id = ?", id).Updates(updates).Error
}

func (r *GormCarRepository) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Car{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": models.CarStatusDeleted, "is_available": false}).
		Error
}

func (r *GormCarRepository) FilterOptions(ctx context.Context) (*CarFilterOptions, error) {
	opts := &CarFilterOptions{
		Makes:         []string{},
		Cities:        []string{},
		FuelTypes:     []string{},
		Transmissions: []string{},
	}

	distinct := func(column string, dest *[]string) error {
		return r.db.WithContext(ctx).
			Model(&models.Car{}).
			Scopes(PublicCars).
			Where(column + " <> ''").
			Distinct().
			Order(column).
			Pluck(column, dest).Error
	}
	for column, dest := range map[string]*[]string{
		"make":         &opts.Makes,
		"city":         &opts.Cities,
		"fuel_type":    &opts.FuelTypes,
		"transmission": &opts.Transmissions,
	} {
		if err := distinct(column, dest); err != nil {
			return nil, err
		}
	}

	var ranges struct {
		PriceMin *float64
		PriceMax *float64
		YearMin  *int
		YearMax  *int
	}
	err := r.db.WithContext(ctx).
		Model(&models.Car{}).
		Scopes(PublicCars).
		Select("MIN(price) AS price_min, MAX(price) AS price_max, MIN(year) AS year_min, MAX(year) AS year_max").
		Scan(&ranges).Error
	if err != nil {
		return nil, err
	}
	if ranges.PriceMin != nil {
		opts.PriceRange.Min = *ranges.PriceMin
	}
	if ranges.PriceMax != nil {
		opts.PriceRange.Max = *ranges.PriceMax
	}
	if ranges.YearMin != nil {
		opts.YearRange.Min = *ranges.YearMin
	}
	if ranges.YearMax != nil {
		opts.YearRange.Max = *ranges.YearMax
	}
	return opts, nil
}

func (r *GormCarRepository) DealerOf(ctx context.Context, carID uint) (uint, error) {
	var car models.Car
	err := r.db.WithContext(ctx).
		Select("id", "dealer_id").
		Where("status <> ?", models.CarStatusDeleted).
		First(&car, carID).Error
	if err != nil {
		return 0, err
	}
	return car.DealerID, nil
}
