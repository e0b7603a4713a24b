package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"autix_backend/internal/apperr"
	"autix_backend/internal/authz"
	"autix_backend/internal/repository"
	"autix_backend/internal/search"
	"autix_backend/middleware"
	"autix_backend/models"
	"autix_backend/utils"
)

type CarRequestHandler struct {
	Requests repository.CarRequestRepository
	Authz    *authz.Checker
}

func NewCarRequestHandler(requests repository.CarRequestRepository, checker *authz.Checker) *CarRequestHandler {
	return &CarRequestHandler{Requests: requests, Authz: checker}
}

// ListCarRequests - GET /api/car-requests
func (h *CarRequestHandler) ListCarRequests(c *fiber.Ctx) error {
	f := middleware.Query[search.CarRequestFilter](c)
	reqs, total, err := h.Requests.List(c.UserContext(), f)
	if err != nil {
		return apperr.Wrap(err, "list car requests")
	}
	return c.JSON(models.SuccessResponse("", fiber.Map{
		"carRequests": reqs,
		"pagination":  models.NewPagination(f.Page.Page, f.Page.Limit, total),
	}))
}

// GetMyCarRequests - GET /api/car-requests/my
func (h *CarRequestHandler) GetMyCarRequests(c *fiber.Ctx) error {
	claims := middleware.MustCurrentUser(c)
	buyerID, err := h.Authz.ResolveBuyerID(c.UserContext(), claims.UserID)
	if err != nil {
		return err
	}

	f := middleware.Query[search.CarRequestFilter](c)
	reqs, total, err := h.Requests.ListByBuyer(c.UserContext(), buyerID, f)
	if err != nil {
		return apperr.Wrap(err, "list own car requests")
	}
	return c.JSON(models.SuccessResponse("", fiber.Map{
		"carRequests": reqs,
		"pagination":  models.NewPagination(f.Page.Page, f.Page.Limit, total),
	}))
}

// GetCarRequest - GET /api/car-requests/:id
func (h *CarRequestHandler) GetCarRequest(c *fiber.Ctx) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	req, err := h.Requests.GetByID(c.UserContext(), id)
	if err != nil {
		return apperr.From(err, "Car request not found")
	}
	return c.JSON(models.SuccessResponse("", req))
}

// CreateCarRequest - POST /api/car-requests
func (h *CarRequestHandler) CreateCarRequest(c *fiber.Ctx) error {
	claims := middleware.MustCurrentUser(c)
	buyerID, err := h.Authz.ResolveBuyerID(c.UserContext(), claims.UserID)
	if err != nil {
		return err
	}

	body := middleware.Body[models.CreateCarRequestRequest](c)
	req := &models.CarRequest{
		BuyerID:     buyerID,
		Make:        utils.NormalizeName(body.Make),
		Model:       utils.NormalizeName(body.Model),
		YearFrom:    body.YearFrom,
		YearTo:      body.YearTo,
		PriceMax:    body.PriceMax,
		Description: strings.TrimSpace(body.Description),
		Status:      models.CarRequestStatusActive,
	}
	if err := h.Requests.Create(c.UserContext(), req); err != nil {
		return apperr.Wrap(err, "create car request")
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse("Car request created successfully", req))
}

// UpdateCarRequest - PUT /api/car-requests/:id
func (h *CarRequestHandler) UpdateCarRequest(c *fiber.Ctx) error {
	id, err := h.ownedRequestID(c)
	if err != nil {
		return err
	}

	body := middleware.Body[models.UpdateCarRequestRequest](c)
	current, err := h.Requests.GetByID(c.UserContext(), id)
	if err != nil {
		return apperr.From(err, "Car request not found")
	}
	if errs := body.CheckAgainst(current); len(errs) > 0 {
		return apperr.Validation(errs...)
	}

	updates := map[string]any{}
	if v := utils.NormalizeNamePtr(body.Make); v != nil {
		updates["make"] = *v
	}
	if v := utils.NormalizeNamePtr(body.Model); v != nil {
		updates["model"] = *v
	}
	if body.YearFrom != nil {
		updates["year_from"] = *body.YearFrom
	}
	if body.YearTo != nil {
		updates["year_to"] = *body.YearTo
	}
	if body.PriceMax != nil {
		updates["price_max"] = *body.PriceMax
	}
	if body.Description != nil {
		updates["description"] = strings.TrimSpace(*body.Description)
	}
	if body.Status != nil {
		updates["status"] = *body.Status
	}

	if err := h.Requests.Update(c.UserContext(), id, updates); err != nil {
		return apperr.Wrap(err, "update car request")
	}
	req, err := h.Requests.GetByID(c.UserContext(), id)
	if err != nil {
		return apperr.Wrap(err, "reload car request")
	}
	return c.JSON(models.SuccessResponse("Car request updated successfully", req))
}

// DeleteCarRequest - DELETE /api/car-requests/:id
func (h *CarRequestHandler) DeleteCarRequest(c *fiber.Ctx) error {
	id, err := h.ownedRequestID(c)
	if err != nil {
		return err
	}
	if err := h.Requests.Update(c.UserContext(), id, map[string]any{"status": models.CarRequestStatusCancelled}); err != nil {
		return apperr.Wrap(err, "cancel car request")
	}
	return c.JSON(models.SuccessResponse("Car request cancelled successfully", nil))
}

func (h *CarRequestHandler) ownedRequestID(c *fiber.Ctx) (uint, error) {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return 0, err
	}
	claims := middleware.MustCurrentUser(c)
	if err := h.Authz.AssertOwnsResource(c.UserContext(), claims.UserID, id, authz.ResourceCarRequest); err != nil {
		return 0, err
	}
	return id, nil
}
