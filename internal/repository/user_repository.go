package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"autix_backend/models"
)

var ErrEmailTaken = errors.New("email already registered")

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByID loads the user together with its dealer or buyer row.
	FindByID(ctx context.Context, id uint) (*models.User, error)
	// CreateWithProfile inserts the user and its companion row atomically.
	// Exactly one of dealer/buyer must be non-nil.
	CreateWithProfile(ctx context.Context, user *models.User, dealer *models.Dealer, buyer *models.Buyer) error
	UpdateProfile(ctx context.Context, userID uint, user, dealer, buyer map[string]any) (*models.User, error)
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Preload("Dealer").Preload("Buyer").First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) CreateWithProfile(ctx context.Context, user *models.User, dealer *models.Dealer, buyer *models.Buyer) error {
	if (dealer == nil) == (buyer == nil) {
		return errors.New("create user: exactly one of dealer or buyer profile is required")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrEmailTaken
		}

		if err := tx.Create(user).Error; err != nil {
			return err
		}

		if dealer != nil {
			dealer.UserID = user.ID
			if err := tx.Create(dealer).Error; err != nil {
				return err
			}
			user.Dealer = dealer
			return nil
		}

		buyer.UserID = user.ID
		if err := tx.Create(buyer).Error; err != nil {
			return err
		}
		user.Buyer = buyer
		return nil
	})
	// A concurrent registration can pass the count and lose on the unique index.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return err
}

func (r *GormUserRepository) UpdateProfile(ctx context.Context, userID uint, user, dealer, buyer map[string]any) (*models.User, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(user) > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(user).Error; err != nil {
				return err
			}
		}
		if len(dealer) > 0 {
			if err := tx.Model(&models.Dealer{}).Where("user_id = ?", userID).Updates(dealer).Error; err != nil {
				return err
			}
		}
		if len(buyer) > 0 {
			if err := tx.Model(&models.Buyer{}).Where("user_id = ?", userID).Updates(buyer).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, userID)
}

func (r *GormUserRepository) UpdatePassword(ctx context.Context, userID uint, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("password_hash", passwordHash).
		Error
}
