package models

import (
	"time"
)

type CarRequestStatus string

const (
	CarRequestStatusActive    CarRequestStatus = "active"
	CarRequestStatusFulfilled CarRequestStatus = "fulfilled"
	CarRequestStatusCancelled CarRequestStatus = "cancelled"
)

func (s CarRequestStatus) Valid() bool {
	switch s {
	case CarRequestStatusActive, CarRequestStatusFulfilled, CarRequestStatusCancelled:
		return true
	}
	return false
}

// CarRequest is a buyer's standing "wanted" listing that dealers browse.
type CarRequest struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	BuyerID uint `gorm:"index;not null" json:"buyer_id"`

	Make        string   `gorm:"size:100" json:"make"`
	Model       string   `gorm:"size:100" json:"model"`
	YearFrom    *int     `json:"year_from"`
	YearTo      *int     `json:"year_to"`
	PriceMax    *float64 `json:"price_max"`
	Description string   `gorm:"type:text" json:"description"`

	Status CarRequestStatus `gorm:"size:20;not null;default:'active';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Buyer *Buyer `gorm:"foreignKey:BuyerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"buyer,omitempty"`
}
