// Package authz holds the single ownership check shared by every mutating
// handler.
package authz

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"autix_backend/internal/apperr"
	"autix_backend/models"
)

type ResourceType string

const (
	ResourceCar        ResourceType = "car"
	ResourceCarRequest ResourceType = "car_request"
	// An inquiry has two parties; the check names which side must match.
	ResourceInquiryAsBuyer  ResourceType = "inquiry_buyer"
	ResourceInquiryAsDealer ResourceType = "inquiry_dealer"
)

// ownerQueries resolve a resource id to the id of the user who owns it.
var ownerQueries = map[ResourceType]string{
	ResourceCar: `SELECT dealers.user_id AS user_id FROM cars
		JOIN dealers ON dealers.id = cars.dealer_id
		WHERE cars.id = ?`,
	ResourceCarRequest: `SELECT buyers.user_id AS user_id FROM car_requests
		JOIN buyers ON buyers.id = car_requests.buyer_id
		WHERE car_requests.id = ?`,
	ResourceInquiryAsBuyer: `SELECT buyers.user_id AS user_id FROM inquiries
		JOIN buyers ON buyers.id = inquiries.buyer_id
		WHERE inquiries.id = ? AND inquiries.deleted_at IS NULL`,
	ResourceInquiryAsDealer: `SELECT dealers.user_id AS user_id FROM inquiries
		JOIN dealers ON dealers.id = inquiries.dealer_id
		WHERE inquiries.id = ? AND inquiries.deleted_at IS NULL`,
}

var notFoundMessages = map[ResourceType]string{
	ResourceCar:             "Car not found",
	ResourceCarRequest:      "Car request not found",
	ResourceInquiryAsBuyer:  "Inquiry not found",
	ResourceInquiryAsDealer: "Inquiry not found",
}

type Checker struct {
	db *gorm.DB
}

func NewChecker(db *gorm.DB) *Checker {
	return &Checker{db: db}
}

type ownerRow struct {
	UserID uint
}

// AssertOwnsResource returns nil when userID owns the resource, a NotFound
// error when the resource does not exist and Forbidden otherwise.
func (c *Checker) AssertOwnsResource(ctx context.Context, userID, resourceID uint, rt ResourceType) error {
	q, ok := ownerQueries[rt]
	if !ok {
		return apperr.Wrap(fmt.Errorf("unknown resource type %q", rt), "ownership check")
	}

	var rows []ownerRow
	if err := c.db.WithContext(ctx).Raw(q, resourceID).Scan(&rows).Error; err != nil {
		return apperr.Wrap(err, "ownership check")
	}
	if len(rows) == 0 {
		return apperr.NotFound(notFoundMessages[rt])
	}
	if rows[0].UserID != userID {
		return apperr.Forbidden("You do not have permission to modify this " + humanName(rt))
	}
	return nil
}

// ResolveDealerID derives the dealer row id for an authenticated user.
func (c *Checker) ResolveDealerID(ctx context.Context, userID uint) (uint, error) {
	var dealer models.Dealer
	err := c.db.WithContext(ctx).Select("id").Where("user_id = ?", userID).First(&dealer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, apperr.Forbidden("Dealer profile not found")
	}
	if err != nil {
		return 0, apperr.Wrap(err, "resolve dealer")
	}
	return dealer.ID, nil
}

// ResolveBuyerID derives the buyer row id for an authenticated user.
func (c *Checker) ResolveBuyerID(ctx context.Context, userID uint) (uint, error) {
	var buyer models.Buyer
	err := c.db.WithContext(ctx).Select("id").Where("user_id = ?", userID).First(&buyer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, apperr.Forbidden("Buyer profile not found")
	}
	if err != nil {
		return 0, apperr.Wrap(err, "resolve buyer")
	}
	return buyer.ID, nil
}

func humanName(rt ResourceType) string {
	switch rt {
	case ResourceCar:
		return "car"
	case ResourceCarRequest:
		return "car request"
	default:
		return "inquiry"
	}
}
