package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"autix_backend/models"
)

type CarImageRepository interface {
	ListByCar(ctx context.Context, carID uint) ([]models.CarImage, error)
	// AddImages appends images after the existing ones. The first image a car
	// ever gets becomes its main image.
	AddImages(ctx context.Context, carID uint, images []models.CarImage) ([]models.CarImage, error)
	SetMain(ctx context.Context, carID, imageID uint) error
	// Delete removes one image and promotes the next one if it was main.
	Delete(ctx context.Context, carID, imageID uint) (*models.CarImage, error)
}

type GormCarImageRepository struct {
	db *gorm.DB
}

func NewGormCarImageRepository(db *gorm.DB) *GormCarImageRepository {
	return &GormCarImageRepository{db: db}
}

func (r *GormCarImageRepository) ListByCar(ctx context.Context, carID uint) ([]models.CarImage, error) {
	var images []models.CarImage
	err := r.db.WithContext(ctx).
		Where("car_id = ?", carID).
		Order("display_order ASC, id ASC").
		Find(&images).Error
	return images, err
}

func (r *GormCarImageRepository) AddImages(ctx context.Context, carID uint, images []models.CarImage) ([]models.CarImage, error) {
	if len(images) == 0 {
		return images, nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last struct {
			MaxOrder *int
			Mains    int64
		}
		err := tx.Model(&models.CarImage{}).
			Select("MAX(display_order) AS max_order, COALESCE(SUM(CASE WHEN is_main THEN 1 ELSE 0 END), 0) AS mains").
			Where("car_id = ?", carID).
			Scan(&last).Error
		if err != nil {
			return err
		}

		next := 0
		if last.MaxOrder != nil {
			next = *last.MaxOrder + 1
		}
		for i := range images {
			images[i].ID = 0
			images[i].CarID = carID
			images[i].DisplayOrder = next + i
			images[i].IsMain = last.Mains == 0 && i == 0
		}
		return tx.Create(&images).Error
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (r *GormCarImageRepository) SetMain(ctx context.Context, carID, imageID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var img models.CarImage
		if err := tx.Where("car_id = ?", carID).First(&img, imageID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.CarImage{}).Where("car_id = ?", carID).Update("is_main", false).Error; err != nil {
			return err
		}
		return tx.Model(&img).Update("is_main", true).Error
	})
}

func (r *GormCarImageRepository) Delete(ctx context.Context, carID, imageID uint) (*models.CarImage, error) {
	var img models.CarImage
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("car_id = ?", carID).First(&img, imageID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&img).Error; err != nil {
			return err
		}
		if !img.IsMain {
			return nil
		}

		var next models.CarImage
		err := tx.Where("car_id = ?", carID).Order("display_order ASC, id ASC").First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&next).Update("is_main", true).Error
	})
	if err != nil {
		return nil, err
	}
	return &img, nil
}
