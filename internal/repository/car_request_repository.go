package repository

import (
	"context"

	"gorm.io/gorm"

	"autix_backend/internal/search"
	"autix_backend/models"
)

type CarRequestRepository interface {
	Create(ctx context.Context, req *models.CarRequest) error
	GetByID(ctx context.Context, id uint) (*models.CarRequest, error)
	// List is the dealer-facing board. It shows active requests unless the
	// filter names a status.
	List(ctx context.Context, f search.CarRequestFilter) ([]models.CarRequest, int64, error)
	ListByBuyer(ctx context.Context, buyerID uint, f search.CarRequestFilter) ([]models.CarRequest, int64, error)
	Update(ctx context.Context, id uint, updates map[string]any) error
}

type GormCarRequestRepository struct {
	db *gorm.DB
}

func NewGormCarRequestRepository(db *gorm.DB) *GormCarRequestRepository {
	return &GormCarRequestRepository{db: db}
}

func (r *GormCarRequestRepository) Create(ctx context.Context, req *models.CarRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *GormCarRequestRepository) GetByID(ctx context.Context, id uint) (*models.CarRequest, error) {
	var req models.CarRequest
	if err := r.db.WithContext(ctx).Preload("Buyer.User").First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *GormCarRequestRepository) List(ctx context.Context, f search.CarRequestFilter) ([]models.CarRequest, int64, error) {
	if f.Status == "" {
		f.Status = models.CarRequestStatusActive
	}
	return r.page(ctx, f, nil)
}

func (r *GormCarRequestRepository) ListByBuyer(ctx context.Context, buyerID uint, f search.CarRequestFilter) ([]models.CarRequest, int64, error) {
	return r.page(ctx, f, &search.Predicate{SQL: "car_requests.buyer_id = ?", Args: []any{buyerID}})
}

func (r *GormCarRequestRepository) page(ctx context.Context, f search.CarRequestFilter, extra *search.Predicate) ([]models.CarRequest, int64, error) {
	preds := f.Predicates()
	if extra != nil {
		preds = append(preds, *extra)
	}
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.CarRequest{}).Scopes(search.Scope(preds))
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reqs []models.CarRequest
	err := base().
		Preload("Buyer.User").
		Order("car_requests.created_at DESC, car_requests.id DESC").
		Limit(f.Page.Limit).
		Offset(f.Page.Offset()).
		Find(&reqs).Error
	if err != nil {
		return nil, 0, err
	}
	return reqs, total, nil
}

func (r *GormCarRequestRepository) Update(ctx context.Context, id uint, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.CarRequest{}).Where("id = ?", id).Updates(updates).Error
}
