package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"autix_backend/internal/search"
	"autix_backend/models"
)

type InquiryRepository interface {
	Create(ctx context.Context, inq *models.Inquiry) error
	GetByID(ctx context.Context, id uint) (*models.Inquiry, error)
	ListByBuyer(ctx context.Context, buyerID uint, f search.InquiryFilter) ([]models.Inquiry, int64, error)
	ListByDealer(ctx context.Context, dealerID uint, f search.InquiryFilter) ([]models.Inquiry, int64, error)
	UpdateStatus(ctx context.Context, id uint, status models.InquiryStatus, response string, respondedAt *time.Time) error
	SoftDelete(ctx context.Context, id uint) error
}

type GormInquiryRepository struct {
	db *gorm.DB
}

func NewGormInquiryRepository(db *gorm.DB) *GormInquiryRepository {
	return &GormInquiryRepository{db: db}
}

func withInquiryParties(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Buyer.User").
		Preload("Dealer.User").
		Preload("Car.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("car_images.display_order ASC, car_images.id ASC")
		})
}

func (r *GormInquiryRepository) Create(ctx context.Context, inq *models.Inquiry) error {
	return r.db.WithContext(ctx).Create(inq).Error
}

func (r *GormInquiryRepository) GetByID(ctx context.Context, id uint) (*models.Inquiry, error) {
	var inq models.Inquiry
	if err := r.db.WithContext(ctx).Scopes(withInquiryParties).First(&inq, id).Error; err != nil {
		return nil, err
	}
	return &inq, nil
}

func (r *GormInquiryRepository) ListByBuyer(ctx context.Context, buyerID uint, f search.InquiryFilter) ([]models.Inquiry, int64, error) {
	return r.page(ctx, f, search.Eq("inquiries.buyer_id", buyerID))
}

func (r *GormInquiryRepository) ListByDealer(ctx context.Context, dealerID uint, f search.InquiryFilter) ([]models.Inquiry, int64, error) {
	return r.page(ctx, f, search.Eq("inquiries.dealer_id", dealerID))
}

func (r *GormInquiryRepository) page(ctx context.Context, f search.InquiryFilter, party search.Predicate) ([]models.Inquiry, int64, error) {
	preds := append([]search.Predicate{party}, f.Predicates()...)
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Inquiry{}).Scopes(search.Scope(preds))
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []models.Inquiry
	err := base().
		Scopes(withInquiryParties).
		Order("inquiries.created_at DESC, inquiries.id DESC").
		Limit(f.Page.Limit).
		Offset(f.Page.Offset()).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *GormInquiryRepository) UpdateStatus(ctx context.Context, id uint, status models.InquiryStatus, response string, respondedAt *time.Time) error {
	updates := map[string]any{"status": status}
	if response != "" {
		updates["dealer_response"] = response
	}
	if respondedAt != nil {
		updates["responded_at"] = *respondedAt
	}
	return r.db.WithContext(ctx).Model(&models.Inquiry{}).Where("id = ?", id).Updates(updates).Error
}

func (r *GormInquiryRepository) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Inquiry{}, id).Error
}
