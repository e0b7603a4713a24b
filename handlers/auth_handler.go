package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"autix_backend/internal/apperr"
	"autix_backend/internal/repository"
	"autix_backend/middleware"
	"autix_backend/models"
	"autix_backend/utils"
)

type AuthHandler struct {
	Users  repository.UserRepository
	Tokens *utils.TokenManager
}

func NewAuthHandler(users repository.UserRepository, tokens *utils.TokenManager) *AuthHandler {
	return &AuthHandler{Users: users, Tokens: tokens}
}

type authPayload struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register - POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	req := middleware.Body[models.RegisterRequest](c)

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return apperr.Wrap(err, "hash password")
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hashedPassword,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        trimmedPtr(req.Phone),
		UserType:     req.UserType,
	}

	var dealer *models.Dealer
	var buyer *models.Buyer
	if req.UserType == models.UserTypeDealer {
		dealer = &models.Dealer{
			BusinessName:  strings.TrimSpace(req.BusinessName),
			LicenseNumber: strings.TrimSpace(req.LicenseNumber),
			Address:       strings.TrimSpace(req.Address),
			City:          utils.NormalizeName(req.City),
			Description:   strings.TrimSpace(req.Description),
		}
	} else {
		buyer = &models.Buyer{
			Preferences: jsonOrNil(req.Preferences),
			BudgetMin:   req.BudgetMin,
			BudgetMax:   req.BudgetMax,
		}
	}

	if err := h.Users.CreateWithProfile(c.UserContext(), user, dealer, buyer); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return apperr.Conflict("User with this email already exists")
		}
		return apperr.Wrap(err, "create user")
	}

	token, err := h.Tokens.Generate(user)
	if err != nil {
		return apperr.Wrap(err, "generate token")
	}

	log.Info().Uint("user_id", user.ID).Str("user_type", string(user.UserType)).Msg("user registered")
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse("User registered successfully", authPayload{Token: token, User: user}))
}

// Login - POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	req := middleware.Body[models.LoginRequest](c)

	user, err := h.Users.FindByEmail(c.UserContext(), req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Unauthorized("Invalid email or password")
		}
		return apperr.Wrap(err, "find user")
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return apperr.Unauthorized("Invalid email or password")
	}

	full, err := h.Users.FindByID(c.UserContext(), user.ID)
	if err != nil {
		return apperr.Wrap(err, "load user")
	}

	token, err := h.Tokens.Generate(full)
	if err != nil {
		return apperr.Wrap(err, "generate token")
	}

	return c.JSON(models.SuccessResponse("Login successful", authPayload{Token: token, User: full}))
}

// Me - GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims := middleware.MustCurrentUser(c)
	user, err := h.Users.FindByID(c.UserContext(), claims.UserID)
	if err != nil {
		return apperr.From(err, "User not found")
	}
	return c.JSON(models.SuccessResponse("", user))
}

// Logout - POST /api/auth/logout
// Tokens are stateless; the client drops its copy.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.JSON(models.SuccessResponse("Logged out successfully", nil))
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func jsonOrNil(raw []byte) datatypes.JSON {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	return datatypes.JSON(raw)
}
