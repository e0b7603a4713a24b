package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"autix_backend/internal/apperr"
	"autix_backend/internal/repository"
	"autix_backend/middleware"
	"autix_backend/models"
	"autix_backend/utils"
)

type ProfileHandler struct {
	Users repository.UserRepository
}

func NewProfileHandler(users repository.UserRepository) *ProfileHandler {
	return &ProfileHandler{Users: users}
}

// GetProfile - GET /api/profile
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	claims := middleware.MustCurrentUser(c)
	user, err := h.Users.FindByID(c.UserContext(), claims.UserID)
	if err != nil {
		return apperr.From(err, "User not found")
	}
	return c.JSON(models.SuccessResponse("", user))
}

// UpdateProfile - PUT /api/profile
// Role-specific fields of the other role are ignored.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	claims := middleware.MustCurrentUser(c)
	req := middleware.Body[models.UpdateProfileRequest](c)

	userFields := map[string]any{}
	if req.FirstName != nil {
		userFields["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		userFields["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		userFields["phone"] = trimmedPtr(req.Phone)
	}

	var dealerFields, buyerFields map[string]any
	switch claims.UserType {
	case models.UserTypeDealer:
		dealerFields = map[string]any{}
		setTrimmed(dealerFields, "business_name", req.BusinessName)
		setTrimmed(dealerFields, "license_number", req.LicenseNumber)
		setTrimmed(dealerFields, "address", req.Address)
		setTrimmed(dealerFields, "description", req.Description)
		if req.City != nil {
			dealerFields["city"] = utils.NormalizeName(*req.City)
		}
	case models.UserTypeBuyer:
		buyerFields = map[string]any{}
		if len(req.Preferences) > 0 {
			buyerFields["preferences"] = jsonOrNil(req.Preferences)
		}
		if req.BudgetMin != nil {
			buyerFields["budget_min"] = *req.BudgetMin
		}
		if req.BudgetMax != nil {
			buyerFields["budget_max"] = *req.BudgetMax
		}
	}

	user, err := h.Users.UpdateProfile(c.UserContext(), claims.UserID, userFields, dealerFields, buyerFields)
	if err != nil {
		return apperr.From(err, "User not found")
	}
	return c.JSON(models.SuccessResponse("Profile updated successfully", user))
}

// ChangePassword - PUT /api/profile/password
func (h *ProfileHandler) ChangePassword(c *fiber.Ctx) error {
	claims := middleware.MustCurrentUser(c)
	req := middleware.Body[models.ChangePasswordRequest](c)

	user, err := h.Users.FindByID(c.UserContext(), claims.UserID)
	if err != nil {
		return apperr.From(err, "User not found")
	}
	if !utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return apperr.Validation("Current password is incorrect")
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return apperr.Wrap(err, "hash password")
	}
	if err := h.Users.UpdatePassword(c.UserContext(), user.ID, hash); err != nil {
		return apperr.Wrap(err, "update password")
	}
	return c.JSON(models.SuccessResponse("Password updated successfully", nil))
}

// DeleteProfile - DELETE /api/profile
func (h *ProfileHandler) DeleteProfile(c *fiber.Ctx) error {
	return apperr.NotImplemented("Account deletion is coming soon")
}

func setTrimmed(m map[string]any, column string, v *string) {
	if v != nil {
		m[column] = strings.TrimSpace(*v)
	}
}
