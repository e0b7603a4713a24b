package models

import (
	"time"

	"gorm.io/gorm"
)

type InquiryStatus string

const (
	InquiryStatusNew       InquiryStatus = "new"
	InquiryStatusResponded InquiryStatus = "responded"
	InquiryStatusClosed    InquiryStatus = "closed"
)

func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryStatusNew, InquiryStatusResponded, InquiryStatusClosed:
		return true
	}
	return false
}

// Inquiry is a message from a buyer to a dealer, optionally about one car.
type Inquiry struct {
	ID       uint  `gorm:"primaryKey" json:"id"`
	BuyerID  uint  `gorm:"index;not null" json:"buyer_id"`
	DealerID uint  `gorm:"index;not null" json:"dealer_id"`
	CarID    *uint `gorm:"index" json:"car_id"`

	Subject        string     `gorm:"size:255" json:"subject"`
	Message        string     `gorm:"type:text;not null" json:"message"`
	DealerResponse string     `gorm:"type:text" json:"dealer_response,omitempty"`
	RespondedAt    *time.Time `json:"responded_at,omitempty"`

	Status InquiryStatus `gorm:"size:20;not null;default:'new';index" json:"status"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Buyer  *Buyer  `gorm:"foreignKey:BuyerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"buyer,omitempty"`
	Dealer *Dealer `gorm:"foreignKey:DealerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"dealer,omitempty"`
	Car    *Car    `gorm:"foreignKey:CarID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"car,omitempty"`
}
