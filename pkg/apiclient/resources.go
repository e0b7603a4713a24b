package apiclient

import (
	"context"
	"net/http"
	"strconv"

	"autix_backend/models"
)

type AuthResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type CarPage struct {
	Cars       []models.Car      `json:"cars"`
	Pagination models.Pagination `json:"pagination"`
}

type CarRequestPage struct {
	CarRequests []models.CarRequest `json:"carRequests"`
	Pagination  models.Pagination   `json:"pagination"`
}

type InquiryPage struct {
	Inquiries  []models.Inquiry  `json:"inquiries"`
	Pagination models.Pagination `json:"pagination"`
}

// CarSearch mirrors the /api/cars query parameters.
type CarSearch struct {
	Make         string
	Model        string
	YearFrom     *int
	YearTo       *int
	PriceFrom    *float64
	PriceTo      *float64
	MileageMax   *int
	FuelType     string
	Transmission string
	City         string
	Search       string
	Featured     bool
	SortBy       string
	SortOrder    string
	Page         int
	Limit        int
}

func (s CarSearch) query() Query {
	q := Query{
		"make":         s.Make,
		"model":        s.Model,
		"fuelType":     s.FuelType,
		"transmission": s.Transmission,
		"city":         s.City,
		"search":       s.Search,
		"sortBy":       s.SortBy,
		"sortOrder":    s.SortOrder,
	}
	q.SetInt("yearFrom", s.YearFrom)
	q.SetInt("yearTo", s.YearTo)
	q.SetFloat("priceFrom", s.PriceFrom)
	q.SetFloat("priceTo", s.PriceTo)
	q.SetInt("mileageMax", s.MileageMax)
	if s.Featured {
		q["featured"] = "true"
	}
	setPage(q, s.Page, s.Limit)
	return q
}

func setPage(q Query, page, limit int) {
	if page > 0 {
		q["page"] = strconv.Itoa(page)
	}
	if limit > 0 {
		q["limit"] = strconv.Itoa(limit)
	}
}

func idPath(prefix string, id uint) string {
	return prefix + "/" + strconv.FormatUint(uint64(id), 10)
}

// Register creates an account and stores the returned token.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, req, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// Login stores the returned token on success.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var out AuthResult
	body := models.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout clears the token even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
	c.SetToken("")
	return err
}

func (c *Client) SearchCars(ctx context.Context, s CarSearch) (*CarPage, error) {
	var out CarPage
	if err := c.do(ctx, http.MethodGet, "/api/cars", s.query(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCar(ctx context.Context, id uint) (*models.Car, error) {
	var out models.Car
	if err := c.do(ctx, http.MethodGet, idPath("/api/cars", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCar(ctx context.Context, req models.CreateCarRequest) (*models.Car, error) {
	var out models.Car
	if err := c.do(ctx, http.MethodPost, "/api/cars", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCar(ctx context.Context, id uint, req models.UpdateCarRequest) (*models.Car, error) {
	var out models.Car
	if err := c.do(ctx, http.MethodPut, idPath("/api/cars", id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCar(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/cars", id), nil, nil, nil)
}

func (c *Client) ListCarRequests(ctx context.Context, makeName string, page, limit int) (*CarRequestPage, error) {
	q := Query{"make": makeName}
	setPage(q, page, limit)
	var out CarRequestPage
	if err := c.do(ctx, http.MethodGet, "/api/car-requests", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCarRequest(ctx context.Context, req models.CreateCarRequestRequest) (*models.CarRequest, error) {
	var out models.CarRequest
	if err := c.do(ctx, http.MethodPost, "/api/car-requests", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SendInquiry(ctx context.Context, req models.CreateInquiryRequest) (*models.Inquiry, error) {
	var out models.Inquiry
	if err := c.do(ctx, http.MethodPost, "/api/inquiries", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SentInquiries(ctx context.Context, status models.InquiryStatus, page, limit int) (*InquiryPage, error) {
	return c.inquiries(ctx, "/api/inquiries/sent", status, page, limit)
}

func (c *Client) ReceivedInquiries(ctx context.Context, status models.InquiryStatus, page, limit int) (*InquiryPage, error) {
	return c.inquiries(ctx, "/api/inquiries/received", status, page, limit)
}

func (c *Client) inquiries(ctx context.Context, path string, status models.InquiryStatus, page, limit int) (*InquiryPage, error) {
	q := Query{"status": string(status)}
	setPage(q, page, limit)
	var out InquiryPage
	if err := c.do(ctx, http.MethodGet, path, q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateInquiryStatus(ctx context.Context, id uint, status models.InquiryStatus, response string) (*models.Inquiry, error) {
	var out models.Inquiry
	body := models.UpdateInquiryStatusRequest{Status: status, Response: response}
	if err := c.do(ctx, http.MethodPut, idPath("/api/inquiries", id)+"/status", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	body := models.ChangePasswordRequest{CurrentPassword: current, NewPassword: next}
	return c.do(ctx, http.MethodPut, "/api/profile/password", nil, body, nil)
}
