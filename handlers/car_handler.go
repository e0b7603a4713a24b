package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"autix_backend/internal/apperr"
	"autix_backend/internal/authz"
	"autix_backend/internal/repository"
	"autix_backend/internal/search"
	"autix_backend/middleware"
	"autix_backend/models"
	"autix_backend/utils"
)

const (
	defaultFeaturedLimit = 6
	maxFeaturedLimit     = 20
)

type CarHandler struct {
	Cars  repository.CarRepository
	Authz *authz.Checker
}

func NewCarHandler(cars repository.CarRepository, checker *authz.Checker) *CarHandler {
	return &CarHandler{Cars: cars, Authz: checker}
}

// ListCars - GET /api/cars
func (h *CarHandler) ListCars(c *fiber.Ctx) error {
	f := middleware.Query[search.CarFilter](c)
	cars, total, err := h.Cars.Search(c.UserContext(), f)
	if err != nil {
		return apperr.Wrap(err, "search cars")
	}
	return c.JSON(models.SuccessResponse("", fiber.Map{
		"cars":       cars,
		"pagination": models.NewPagination(f.Page.Page, f.Page.Limit, total),
	}))
}

// GetFeatured - GET /api/cars/featured
func (h *CarHandler) GetFeatured(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultFeaturedLimit)
	if limit < 1 {
		limit = defaultFeaturedLimit
	}
	if limit > maxFeaturedLimit {
		limit = maxFeaturedLimit
	}
	cars, err := h.Cars.Featured(c.UserContext(), limit)
	if err != nil {
		return apperr.Wrap(err, "featured cars")
	}
	return c.JSON(models.SuccessResponse("", fiber.Map{"cars": cars}))
}

// GetFilterOptions - GET /api/cars/filters
func (h *CarHandler) GetFilterOptions(c *fiber.Ctx) error {
	opts, err := h.Cars.FilterOptions(c.UserContext())
	if err != nil {
		return apperr.Wrap(err, "filter options")
	}
	return c.JSON(models.SuccessResponse("", opts))
}

// GetMyCars - GET /api/cars/dealer/my-cars
func (h *CarHandler) GetMyCars(c *fiber.Ctx) error {
	claims := middleware.MustCurrentUser(c)
	dealerID, err := h.Authz.ResolveDealerID(c.UserContext(), claims.UserID)
	if err != nil {
		return err
	}

	f := middleware.Query[search.DealerCarFilter](c)
	cars, total, err := h.Cars.ListByDealer(c.UserContext(), dealerID, f)
	if err != nil {
		return apperr.Wrap(err, "list dealer cars")
	}
	return c.JSON(models.SuccessResponse("", fiber.Map{
		"cars":       cars,
		"pagination": models.NewPagination(f.Page.Page, f.Page.Limit, total),
	}))
}

// GetCar - GET /api/cars/:id
// Inactive and deleted listings are only visible to the dealer who owns them.
func (h *CarHandler) GetCar(c *fiber.Ctx) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}

	car, err := h.Cars.GetPublic(c.UserContext(), id)
	if err == nil {
		return c.JSON(models.SuccessResponse("", car))
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Wrap(err, "get car")
	}

	claims, ok := middleware.CurrentUser(c)
	if !ok || claims.UserType != models.UserTypeDealer {
		return apperr.NotFound("Car not found")
	}
	if err := h.Authz.AssertOwnsResource(c.UserContext(), claims.UserID, id, authz.ResourceCar); err != nil {
		return apperr.NotFound("Car not found")
	}
	car, err = h.Cars.GetByID(c.UserContext(), id)
	if err != nil {
		return apperr.From(err, "Car not found")
	}
	return c.JSON(models.SuccessResponse("", car))
}

// CreateCar - POST /api/cars
func (h *CarHandler) CreateCar(c *fiber.Ctx) error {
	claims := middleware.MustCurrentUser(c)
	dealerID, err := h.Authz.ResolveDealerID(c.UserContext(), claims.UserID)
	if err != nil {
		return err
	}

	req := middleware.Body[models.CreateCarRequest](c)
	car := &models.Car{
		DealerID:     dealerID,
		Make:         utils.NormalizeName(req.Make),
		Model:        utils.NormalizeName(req.Model),
		Year:         *req.Year,
		Price:        *req.Price,
		FuelType:     req.FuelType,
		Transmission: req.Transmission,
		Color:        strings.TrimSpace(req.Color),
		Description:  strings.TrimSpace(req.Description),
		City:         utils.NormalizeName(req.City),
		Status:       models.CarStatusActive,
		IsAvailable:  true,
		IsFeatured:   req.IsFeatured,
	}
	if req.Mileage != nil {
		car.Mileage = *req.Mileage
	}

	if err := h.Cars.Create(c.UserContext(), car); err != nil {
		return apperr.Wrap(err, "create car")
	}

	created, err := h.Cars.GetByID(c.UserContext(), car.ID)
	if err != nil {
		return apperr.Wrap(err, "reload car")
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse("Car created successfully", created))
}

// UpdateCar - PUT /api/cars/:id
func (h *CarHandler) UpdateCar(c *fiber.Ctx) error {
	id, car, err := h.ownedCar(c)
	if err != nil {
		return err
	}

	updates := carUpdates(middleware.Body[models.UpdateCarRequest](c), car)
	if err := h.Cars.Update(c.UserContext(), id, updates); err != nil {
		return apperr.Wrap(err, "update car")
	}

	updated, err := h.Cars.GetByID(c.UserContext(), id)
	if err != nil {
		return apperr.Wrap(err, "reload car")
	}
	return c.JSON(models.SuccessResponse("Car updated successfully", updated))
}

// DeleteCar - DELETE /api/cars/:id
func (h *CarHandler) DeleteCar(c *fiber.Ctx) error {
	id, _, err := h.ownedCar(c)
	if err != nil {
		return err
	}
	if err := h.Cars.SoftDelete(c.UserContext(), id); err != nil {
		return apperr.Wrap(err, "delete car")
	}
	return c.JSON(models.SuccessResponse("Car deleted successfully", nil))
}

// ownedCar loads the :id car after checking the caller owns it. Deleted
// listings cannot be modified.
func (h *CarHandler) ownedCar(c *fiber.Ctx) (uint, *models.Car, error) {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return 0, nil, err
	}
	claims := middleware.MustCurrentUser(c)
	if err := h.Authz.AssertOwnsResource(c.UserContext(), claims.UserID, id, authz.ResourceCar); err != nil {
		return 0, nil, err
	}
	car, err := h.Cars.GetByID(c.UserContext(), id)
	if err != nil {
		return 0, nil, apperr.From(err, "Car not found")
	}
	if car.Status == models.CarStatusDeleted {
		return 0, nil, apperr.NotFound("Car not found")
	}
	return id, car, nil
}

func carUpdates(req *models.UpdateCarRequest, current *models.Car) map[string]any {
	updates := map[string]any{}
	if req.Make != nil {
		updates["make"] = utils.NormalizeName(*req.Make)
	}
	if req.Model != nil {
		updates["model"] = utils.NormalizeName(*req.Model)
	}
	if req.Year != nil {
		updates["year"] = *req.Year
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Mileage != nil {
		updates["mileage"] = *req.Mileage
	}
	if req.FuelType != nil {
		updates["fuel_type"] = *req.FuelType
	}
	if req.Transmission != nil {
		updates["transmission"] = *req.Transmission
	}
	if req.Color != nil {
		updates["color"] = strings.TrimSpace(*req.Color)
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.City != nil {
		updates["city"] = utils.NormalizeName(*req.City)
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}
	if req.Status != nil {
		updates["status"] = *req.Status
		// Status drives public visibility unless availability is given explicitly.
		if req.IsAvailable == nil {
			switch {
			case *req.Status == models.CarStatusSold && current.IsAvailable:
				updates["is_available"] = false
			case *req.Status == models.CarStatusActive && !current.IsAvailable:
				updates["is_available"] = true
			}
		}
	}
	return updates
}
