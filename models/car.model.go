package models

import (
	"time"
)

type CarStatus string

const (
	CarStatusActive  CarStatus = "active"
	CarStatusSold    CarStatus = "sold"
	CarStatusPending CarStatus = "pending"
	CarStatusDeleted CarStatus = "deleted"
)

func (s CarStatus) Valid() bool {
	switch s {
	case CarStatusActive, CarStatusSold, CarStatusPending, CarStatusDeleted:
		return true
	}
	return false
}

var (
	FuelTypes     = []string{"petrol", "diesel", "electric", "hybrid", "gas"}
	Transmissions = []string{"manual", "automatic", "cvt", "robot"}
)

type Car struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	DealerID uint `gorm:"index;not null" json:"dealer_id"`

	Make         string  `gorm:"size:100;not null;index" json:"make"`
	Model        string  `gorm:"size:100;not null" json:"model"`
	Year         int     `gorm:"not null;index" json:"year"`
	Price        float64 `gorm:"not null;index" json:"price"`
	Mileage      int     `gorm:"not null" json:"mileage"`
	FuelType     string  `gorm:"size:20" json:"fuel_type"`
	Transmission string  `gorm:"size:20" json:"transmission"`
	Color        string  `gorm:"size:50" json:"color"`
	Description  string  `gorm:"type:text" json:"description"`
	City         string  `gorm:"size:100;index" json:"city"`

	// Cars are never removed, a deleted listing keeps status "deleted".
	Status      CarStatus `gorm:"size:20;not null;default:'active';index" json:"status"`
	IsAvailable bool      `gorm:"not null" json:"is_available"`
	IsFeatured  bool      `gorm:"not null" json:"is_featured"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Dealer *Dealer     `gorm:"foreignKey:DealerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"dealer,omitempty"`
	Images []CarImage `gorm:"foreignKey:CarID" json:"images,omitempty"`
}

// CarImage holds both resized variants of one uploaded photo.
type CarImage struct {
	ID    uint `gorm:"primaryKey" json:"id"`
	CarID uint `gorm:"index;not null" json:"car_id"`

	ImageURL     string `gorm:"not null" json:"image_url"`
	ThumbnailURL string `gorm:"not null" json:"thumbnail_url"`
	ImageKey     string `gorm:"size:255" json:"-"`
	ThumbnailKey string `gorm:"size:255" json:"-"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	SizeBytes    int64  `json:"size_bytes"`

	// At most one main image per car, kept by the repository.
	IsMain       bool `gorm:"not null" json:"is_main"`
	DisplayOrder int  `gorm:"not null" json:"display_order"`

	CreatedAt time.Time `json:"created_at"`
}

// MainImage returns the flagged main image, falling back to the first one.
func (c *Car) MainImage() *CarImage {
	for i := range c.Images {
		if c.Images[i].IsMain {
			return &c.Images[i]
		}
	}
	if len(c.Images) > 0 {
		return &c.Images[0]
	}
	return nil
}
