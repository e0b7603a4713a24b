package models

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinPasswordLength = 6
	// MaxPasswordBytes is the most bcrypt will hash.
	MaxPasswordBytes = 72
	minCarYear        = 1900
	maxMessageLength  = 2000
)

// Request bodies. Each Validate returns every problem found, in field order.

type RegisterRequest struct {
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Phone     *string  `json:"phone"`
	UserType  UserType `json:"userType"`

	// dealer only
	BusinessName  string `json:"businessName"`
	LicenseNumber string `json:"licenseNumber"`
	Address       string `json:"address"`
	City          string `json:"city"`
	Description   string `json:"description"`

	// buyer only
	Preferences json.RawMessage `json:"preferences"`
	BudgetMin   *float64        `json:"budgetMin"`
	BudgetMax   *float64        `json:"budgetMax"`
}

func (r *RegisterRequest) Validate() []string {
	var errs []string
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)

	errs = checkEmail(errs, r.Email)
	errs = checkPassword(errs, "Password", r.Password)
	if r.FirstName == "" {
		errs = append(errs, "First name is required")
	}
	if r.LastName == "" {
		errs = append(errs, "Last name is required")
	}
	if !r.UserType.Valid() {
		errs = append(errs, "User type must be either buyer or dealer")
	}
	if r.UserType == UserTypeDealer && strings.TrimSpace(r.BusinessName) == "" {
		errs = append(errs, "Business name is required for dealers")
	}
	if r.UserType == UserTypeBuyer {
		errs = checkBudget(errs, r.BudgetMin, r.BudgetMax)
		errs = checkJSONObject(errs, "Preferences", r.Preferences)
	}
	return errs
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() []string {
	var errs []string
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" {
		errs = append(errs, "Email is required")
	}
	if r.Password == "" {
		errs = append(errs, "Password is required")
	}
	return errs
}

type CreateCarRequest struct {
	Make         string   `json:"make"`
	Model        string   `json:"model"`
	Year         *int     `json:"year"`
	Price        *float64 `json:"price"`
	Mileage      *int     `json:"mileage"`
	FuelType     string   `json:"fuelType"`
	Transmission string   `json:"transmission"`
	Color        string   `json:"color"`
	Description  string   `json:"description"`
	City         string   `json:"city"`
	IsFeatured   bool     `json:"isFeatured"`
}

func (r *CreateCarRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Make) == "" {
		errs = append(errs, "Make is required")
	}
	if strings.TrimSpace(r.Model) == "" {
		errs = append(errs, "Model is required")
	}
	if r.Year == nil {
		errs = append(errs, "Year is required")
	} else {
		errs = checkYear(errs, "Year", *r.Year)
	}
	if r.Price == nil {
		errs = append(errs, "Price is required")
	} else if *r.Price <= 0 {
		errs = append(errs, "Price must be a positive number")
	}
	if r.Mileage != nil && *r.Mileage < 0 {
		errs = append(errs, "Mileage cannot be negative")
	}
	errs = checkOneOf(errs, "Fuel type", r.FuelType, FuelTypes)
	errs = checkOneOf(errs, "Transmission", r.Transmission, Transmissions)
	return errs
}

// UpdateCarRequest is a partial update; nil fields are left alone.
type UpdateCarRequest struct {
	Make         *string    `json:"make"`
	Model        *string    `json:"model"`
	Year         *int       `json:"year"`
	Price        *float64   `json:"price"`
	Mileage      *int       `json:"mileage"`
	FuelType     *string    `json:"fuelType"`
	Transmission *string    `json:"transmission"`
	Color        *string    `json:"color"`
	Description  *string    `json:"description"`
	City         *string    `json:"city"`
	Status       *CarStatus `json:"status"`
	IsAvailable  *bool      `json:"isAvailable"`
	IsFeatured   *bool      `json:"isFeatured"`
}

func (r *UpdateCarRequest) Validate() []string {
	var errs []string
	if r.Make != nil && strings.TrimSpace(*r.Make) == "" {
		errs = append(errs, "Make cannot be empty")
	}
	if r.Model != nil && strings.TrimSpace(*r.Model) == "" {
		errs = append(errs, "Model cannot be empty")
	}
	if r.Year != nil {
		errs = checkYear(errs, "Year", *r.Year)
	}
	if r.Price != nil && *r.Price <= 0 {
		errs = append(errs, "Price must be a positive number")
	}
	if r.Mileage != nil && *r.Mileage < 0 {
		errs = append(errs, "Mileage cannot be negative")
	}
	if r.FuelType != nil {
		errs = checkOneOf(errs, "Fuel type", *r.FuelType, FuelTypes)
	}
	if r.Transmission != nil {
		errs = checkOneOf(errs, "Transmission", *r.Transmission, Transmissions)
	}
	if r.Status != nil && (!r.Status.Valid() || *r.Status == CarStatusDeleted) {
		errs = append(errs, "Status must be one of: active, sold, pending")
	}
	if len(errs) == 0 && r.empty() {
		errs = append(errs, "No fields to update")
	}
	return errs
}

func (r *UpdateCarRequest) empty() bool {
	return r.Make == nil && r.Model == nil && r.Year == nil && r.Price == nil &&
		r.Mileage == nil && r.FuelType == nil && r.Transmission == nil && r.Color == nil &&
		r.Description == nil && r.City == nil && r.Status == nil && r.IsAvailable == nil && r.IsFeatured == nil
}

type CreateCarRequestRequest struct {
	Make        string   `json:"make"`
	Model       string   `json:"model"`
	YearFrom    *int     `json:"yearFrom"`
	YearTo      *int     `json:"yearTo"`
	PriceMax    *float64 `json:"priceMax"`
	Description string   `json:"description"`
}

func (r *CreateCarRequestRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Make) == "" {
		errs = append(errs, "Make is required")
	}
	return checkRequestBounds(errs, r.YearFrom, r.YearTo, r.PriceMax)
}

type UpdateCarRequestRequest struct {
	Make        *string           `json:"make"`
	Model       *string           `json:"model"`
	YearFrom    *int              `json:"yearFrom"`
	YearTo      *int              `json:"yearTo"`
	PriceMax    *float64          `json:"priceMax"`
	Description *string           `json:"description"`
	Status      *CarRequestStatus `json:"status"`
}

func (r *UpdateCarRequestRequest) Validate() []string {
	var errs []string
	if r.Make != nil && strings.TrimSpace(*r.Make) == "" {
		errs = append(errs, "Make cannot be empty")
	}
	errs = checkRequestBounds(errs, r.YearFrom, r.YearTo, r.PriceMax)
	if r.Status != nil && !r.Status.Valid() {
		errs = append(errs, "Status must be one of: active, fulfilled, cancelled")
	}
	if len(errs) == 0 && r.Make == nil && r.Model == nil && r.YearFrom == nil && r.YearTo == nil &&
		r.PriceMax == nil && r.Description == nil && r.Status == nil {
		errs = append(errs, "No fields to update")
	}
	return errs
}

// CheckAgainst re-checks the year range with the update laid over current.
func (r *UpdateCarRequestRequest) CheckAgainst(current *CarRequest) []string {
	yearFrom, yearTo := current.YearFrom, current.YearTo
	if r.YearFrom != nil {
		yearFrom = r.YearFrom
	}
	if r.YearTo != nil {
		yearTo = r.YearTo
	}
	if yearFrom != nil && yearTo != nil && *yearFrom > *yearTo {
		return []string{"Year from cannot be greater than year to"}
	}
	return nil
}

type CreateInquiryRequest struct {
	DealerID uint   `json:"dealerId"`
	CarID    *uint  `json:"carId"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
}

func (r *CreateInquiryRequest) Validate() []string {
	var errs []string
	r.Message = strings.TrimSpace(r.Message)
	r.Subject = strings.TrimSpace(r.Subject)
	if r.DealerID == 0 {
		errs = append(errs, "Dealer ID is required")
	}
	if r.CarID != nil && *r.CarID == 0 {
		errs = append(errs, "Car ID must be a positive integer")
	}
	if r.Message == "" {
		errs = append(errs, "Message is required")
	} else if utf8.RuneCountInString(r.Message) > maxMessageLength {
		errs = append(errs, fmt.Sprintf("Message cannot exceed %d characters", maxMessageLength))
	}
	if utf8.RuneCountInString(r.Subject) > 255 {
		errs = append(errs, "Subject cannot exceed 255 characters")
	}
	return errs
}

type UpdateInquiryStatusRequest struct {
	Status   InquiryStatus `json:"status"`
	Response string        `json:"response"`
}

func (r *UpdateInquiryStatusRequest) Validate() []string {
	var errs []string
	r.Response = strings.TrimSpace(r.Response)
	if !r.Status.Valid() {
		errs = append(errs, "Status must be one of: new, responded, closed")
	}
	if utf8.RuneCountInString(r.Response) > maxMessageLength {
		errs = append(errs, fmt.Sprintf("Response cannot exceed %d characters", maxMessageLength))
	}
	return errs
}

type UpdateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`

	BusinessName  *string `json:"businessName"`
	LicenseNumber *string `json:"licenseNumber"`
	Address       *string `json:"address"`
	City          *string `json:"city"`
	Description   *string `json:"description"`

	Preferences json.RawMessage `json:"preferences"`
	BudgetMin   *float64        `json:"budgetMin"`
	BudgetMax   *float64        `json:"budgetMax"`
}

func (r *UpdateProfileRequest) Validate() []string {
	var errs []string
	if r.FirstName != nil && strings.TrimSpace(*r.FirstName) == "" {
		errs = append(errs, "First name cannot be empty")
	}
	if r.LastName != nil && strings.TrimSpace(*r.LastName) == "" {
		errs = append(errs, "Last name cannot be empty")
	}
	if r.BusinessName != nil && strings.TrimSpace(*r.BusinessName) == "" {
		errs = append(errs, "Business name cannot be empty")
	}
	errs = checkBudget(errs, r.BudgetMin, r.BudgetMax)
	return checkJSONObject(errs, "Preferences", r.Preferences)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (r *ChangePasswordRequest) Validate() []string {
	var errs []string
	if r.CurrentPassword == "" {
		errs = append(errs, "Current password is required")
	}
	errs = checkPassword(errs, "New password", r.NewPassword)
	return errs
}

func checkPassword(errs []string, field, pw string) []string {
	if len(pw) < MinPasswordLength {
		return append(errs, fmt.Sprintf("%s must be at least %d characters long", field, MinPasswordLength))
	}
	if len(pw) > MaxPasswordBytes {
		return append(errs, fmt.Sprintf("%s cannot exceed %d bytes", field, MaxPasswordBytes))
	}
	return errs
}

func checkEmail(errs []string, email string) []string {
	if email == "" {
		return append(errs, "Email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return append(errs, "Email must be a valid email address")
	}
	return errs
}

func checkYear(errs []string, field string, year int) []string {
	maxYear := time.Now().Year() + 1
	if year < minCarYear || year > maxYear {
		return append(errs, fmt.Sprintf("%s must be between %d and %d", field, minCarYear, maxYear))
	}
	return errs
}

func checkOneOf(errs []string, field, v string, allowed []string) []string {
	if v == "" {
		return errs
	}
	for _, a := range allowed {
		if v == a {
			return errs
		}
	}
	return append(errs, fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", ")))
}

func checkBudget(errs []string, lo, hi *float64) []string {
	if lo != nil && *lo < 0 {
		errs = append(errs, "Budget minimum cannot be negative")
	}
	if hi != nil && *hi < 0 {
		errs = append(errs, "Budget maximum cannot be negative")
	}
	if lo != nil && hi != nil && *lo > *hi {
		errs = append(errs, "Budget minimum cannot be greater than budget maximum")
	}
	return errs
}

func checkRequestBounds(errs []string, yearFrom, yearTo *int, priceMax *float64) []string {
	if yearFrom != nil {
		errs = checkYear(errs, "Year from", *yearFrom)
	}
	if yearTo != nil {
		errs = checkYear(errs, "Year to", *yearTo)
	}
	if yearFrom != nil && yearTo != nil && *yearFrom > *yearTo {
		errs = append(errs, "Year from cannot be greater than year to")
	}
	if priceMax != nil && *priceMax <= 0 {
		errs = append(errs, "Maximum price must be a positive number")
	}
	return errs
}

func checkJSONObject(errs []string, field string, raw json.RawMessage) []string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return errs
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return append(errs, field+" must be a JSON object")
	}
	return errs
}
