// Package inquiry holds the inquiry lifecycle rules.
//
//	new ──> responded ──> closed
//	 └──────────────────────^
//
// Dealers drive every transition. Buyers may only withdraw (soft delete) an
// inquiry that is still new.
package inquiry

import (
	"errors"
	"fmt"

	"autix_backend/models"
)

var (
	ErrInvalidStatus     = errors.New("invalid inquiry status")
	ErrInvalidTransition = errors.New("invalid inquiry status transition")
	ErrNotDeletable      = errors.New("only new inquiries can be deleted")
)

var forward = map[models.InquiryStatus][]models.InquiryStatus{
	models.InquiryStatusNew:       {models.InquiryStatusResponded, models.InquiryStatusClosed},
	models.InquiryStatusResponded: {models.InquiryStatusClosed},
	models.InquiryStatusClosed:    nil,
}

// CanTransition reports whether a dealer may move an inquiry from one
// status to another.
func CanTransition(from, to models.InquiryStatus) bool {
	for _, s := range forward[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition validates from -> to.
func Transition(from, to models.InquiryStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// NextStatuses lists where an inquiry may go from its current status.
func NextStatuses(from models.InquiryStatus) []models.InquiryStatus {
	out := make([]models.InquiryStatus, len(forward[from]))
	copy(out, forward[from])
	return out
}

// CheckBuyerDelete allows a buyer delete only while the dealer has not acted.
func CheckBuyerDelete(current models.InquiryStatus) error {
	if current != models.InquiryStatusNew {
		return ErrNotDeletable
	}
	return nil
}
