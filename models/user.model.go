package models

import (
	"time"

	"gorm.io/datatypes"
)

type UserType string

const (
	UserTypeBuyer  UserType = "buyer"
	UserTypeDealer UserType = "dealer"
)

func (t UserType) Valid() bool {
	return t == UserTypeBuyer || t == UserTypeDealer
}

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Login
	Email        string `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	// Profile
	FirstName string   `gorm:"size:100;not null" json:"first_name"`
	LastName  string   `gorm:"size:100;not null" json:"last_name"`
	Phone     *string  `gorm:"size:20" json:"phone"`
	UserType  UserType `gorm:"size:10;not null;index" json:"user_type"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Companion rows, exactly one of them exists depending on UserType.
	Dealer *Dealer `gorm:"foreignKey:UserID" json:"dealer,omitempty"`
	Buyer  *Buyer  `gorm:"foreignKey:UserID" json:"buyer,omitempty"`
}

// Dealer extends a dealer-type user.
type Dealer struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	BusinessName  string  `gorm:"size:255;not null" json:"business_name"`
	LicenseNumber string  `gorm:"size:100" json:"license_number"`
	Address       string  `gorm:"type:text" json:"address"`
	City          string  `gorm:"size:100;index" json:"city"`
	Description   string  `gorm:"type:text" json:"description"`
	Verified      bool    `gorm:"not null" json:"verified"`
	Rating        float64 `gorm:"not null" json:"rating"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`
}

// Buyer extends a buyer-type user.
type Buyer struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	Preferences datatypes.JSON `json:"preferences"`
	BudgetMin   *float64       `json:"budget_min"`
	BudgetMax   *float64       `json:"budget_max"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`
}
