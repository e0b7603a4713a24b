package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autix_backend/internal/testutil"
	"autix_backend/models"
	"autix_backend/utils"
)

type authData struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func TestRegisterAndLogin(t *testing.T) {
	api := newTestAPI(t)

	body := map[string]any{
		"email":        "  Dealer@Example.com ",
		"password":     "secret123",
		"firstName":    "Aidar",
		"lastName":     "Nurlanov",
		"userType":     "dealer",
		"businessName": "Almaty Motors",
		"city":         "almaty",
	}
	status, env := api.do(http.MethodPost, "/api/auth/register", body, "")
	require.Equal(t, http.StatusCreated, status, env.Errors)

	reg := decode[authData](t, env.Data)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "dealer@example.com", reg.User.Email)
	require.NotNil(t, reg.User.Dealer)
	assert.Equal(t, "Almaty", reg.User.Dealer.City)

	claims, err := api.tokens.Parse(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)
	assert.Equal(t, models.UserTypeDealer, claims.UserType)

	status, env = api.do(http.MethodPost, "/api/auth/register", body, "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "User with this email already exists", env.Message)

	status, _ = api.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "dealer@example.com", "password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env = api.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "DEALER@example.com", "password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, status)
	login := decode[authData](t, env.Data)
	assert.Equal(t, reg.User.ID, login.User.ID)

	status, env = api.do(http.MethodGet, "/api/auth/me", nil, login.Token)
	require.Equal(t, http.StatusOK, status)
	me := decode[models.User](t, env.Data)
	assert.Equal(t, "Almaty Motors", me.Dealer.BusinessName)
}

func TestRegister_Validation(t *testing.T) {
	api := newTestAPI(t)

	status, env := api.do(http.MethodPost, "/api/auth/register", map[string]any{
		"email":    "not-an-email",
		"password": "123",
		"userType": "admin",
	}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "Email must be a valid email address")
	assert.Contains(t, env.Errors, "Password must be at least 6 characters long")
	assert.Contains(t, env.Errors, "User type must be either buyer or dealer")

	var users int64
	require.NoError(t, api.db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)
}

func TestRegister_PasswordTooLong(t *testing.T) {
	api := newTestAPI(t)

	status, env := api.do(http.MethodPost, "/api/auth/register", map[string]any{
		"email":     "long@example.com",
		"password":  strings.Repeat("x", models.MaxPasswordBytes+1),
		"firstName": "Aida",
		"lastName":  "Sarsen",
		"userType":  "buyer",
	}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "Password cannot exceed 72 bytes")

	status, env = api.do(http.MethodPost, "/api/auth/register", map[string]any{
		"email":     "long@example.com",
		"password":  strings.Repeat("x", models.MaxPasswordBytes),
		"firstName": "Aida",
		"lastName":  "Sarsen",
		"userType":  "buyer",
	}, "")
	assert.Equal(t, http.StatusCreated, status, env.Errors)
}

func TestLogin_UnknownEmail(t *testing.T) {
	api := newTestAPI(t)

	status, env := api.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ghost@example.com", "password": "secret123",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid email or password", env.Message)
}

func TestProtectedRoutes_TokenHandling(t *testing.T) {
	api := newTestAPI(t)
	user, _ := testutil.CreateBuyer(t, api.db, "buyer@example.com")

	expired, err := utils.NewTokenManager(testSecret, -time.Hour).Generate(user)
	require.NoError(t, err)
	foreign, err := utils.NewTokenManager("other-secret", time.Hour).Generate(user)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + api.token(user), http.StatusUnauthorized},
		{"bearer without token", "Bearer ", http.StatusUnauthorized},
		{"garbage", "Bearer not.a.jwt", http.StatusForbidden},
		{"expired", "Bearer " + expired, http.StatusForbidden},
		{"wrong signature", "Bearer " + foreign, http.StatusForbidden},
		{"valid", "Bearer " + api.token(user), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}
			status, _ := api.send(req)
			assert.Equal(t, tc.want, status)
		})
	}
}

func TestRoleGuard(t *testing.T) {
	api := newTestAPI(t)
	buyer, _ := testutil.CreateBuyer(t, api.db, "buyer@example.com")

	status, env := api.do(http.MethodPost, "/api/cars", map[string]any{
		"make": "Toyota", "model": "Camry", "year": 2018, "price": 150000,
	}, api.token(buyer))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Insufficient permissions", env.Message)
}

func TestProfile(t *testing.T) {
	api := newTestAPI(t)
	user, _ := testutil.CreateBuyer(t, api.db, "buyer@example.com")
	tok := api.token(user)

	status, env := api.do(http.MethodPut, "/api/profile", map[string]any{
		"firstName": "Arman",
		"budgetMin": 1000,
		"budgetMax": 5000,
		// dealer-only field, ignored for buyers
		"businessName": "Nope",
	}, tok)
	require.Equal(t, http.StatusOK, status, env.Errors)
	updated := decode[models.User](t, env.Data)
	assert.Equal(t, "Arman", updated.FirstName)
	require.NotNil(t, updated.Buyer)
	require.NotNil(t, updated.Buyer.BudgetMax)
	assert.Equal(t, 5000.0, *updated.Buyer.BudgetMax)
	assert.Nil(t, updated.Dealer)

	status, env = api.do(http.MethodPut, "/api/profile/password", map[string]string{
		"currentPassword": "wrong", "newPassword": "newsecret",
	}, tok)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "Current password is incorrect")

	status, env = api.do(http.MethodPut, "/api/profile/password", map[string]string{
		"currentPassword": testutil.Password, "newPassword": strings.Repeat("y", 73),
	}, tok)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "New password cannot exceed 72 bytes")

	status, _ = api.do(http.MethodPut, "/api/profile/password", map[string]string{
		"currentPassword": testutil.Password, "newPassword": "newsecret",
	}, tok)
	require.Equal(t, http.StatusOK, status)

	status, _ = api.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "buyer@example.com", "password": "newsecret",
	}, "")
	assert.Equal(t, http.StatusOK, status)

	status, env = api.do(http.MethodDelete, "/api/profile", nil, tok)
	assert.Equal(t, http.StatusNotImplemented, status)
	assert.Equal(t, "Account deletion is coming soon", env.Message)
}
