package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"autix_backend/internal/apperr"
	"autix_backend/internal/search"
	"autix_backend/models"
)

const (
	bodyKey  = "validated_body"
	queryKey = "validated_query"
)

type validatable interface {
	Validate() []string
}

// ValidateBody parses the JSON body into T, runs its Validate and stores the
// result for Body. Any message fails the request with 400.
func ValidateBody[T any, PT interface {
	*T
	validatable
}]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := PT(new(T))
		if err := c.BodyParser(body); err != nil {
			return apperr.Validation("Invalid request body")
		}
		if errs := body.Validate(); len(errs) > 0 {
			return apperr.Validation(errs...)
		}
		c.Locals(bodyKey, body)
		return c.Next()
	}
}

// Body returns the value stored by ValidateBody.
func Body[T any](c *fiber.Ctx) *T {
	body, _ := c.Locals(bodyKey).(*T)
	return body
}

// ValidateQuery runs a query-string parser and stores its result for Query.
func ValidateQuery[T any](parse func(search.Values) (T, []string)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, errs := parse(search.MapValues(c.Queries()))
		if len(errs) > 0 {
			return apperr.Validation(errs...)
		}
		c.Locals(queryKey, v)
		return c.Next()
	}
}

func Query[T any](c *fiber.Ctx) T {
	v, _ := c.Locals(queryKey).(T)
	return v
}

// ValidateIDParams requires each named route param to be a positive integer.
func ValidateIDParams(names ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var errs []string
		for _, name := range names {
			if _, err := ParamID(c, name); err != nil {
				errs = append(errs, "Invalid "+name)
			}
		}
		if len(errs) > 0 {
			return apperr.Validation(errs...)
		}
		return c.Next()
	}
}

// ParamID reads a positive integer route param.
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || n == 0 {
		return 0, apperr.Validation("Invalid " + name)
	}
	return uint(n), nil
}

type inquiryTarget struct {
	DealerID    uint
	CarID       *uint
	CarDealerID *uint
}

// CheckInquiryTarget runs after ValidateBody[models.CreateInquiryRequest] and
// verifies in one query that the dealer exists and that the car, when given,
// is a live listing of that dealer.
func CheckInquiryTarget(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := Body[models.CreateInquiryRequest](c)
		if req == nil {
			return apperr.Validation("Invalid request body")
		}

		var carID uint
		if req.CarID != nil {
			carID = *req.CarID
		}

		var rows []inquiryTarget
		err := db.WithContext(c.UserContext()).Raw(`SELECT dealers.id AS dealer_id, cars.id AS car_id, cars.dealer_id AS car_dealer_id
			FROM dealers
			LEFT JOIN cars ON cars.id = ? AND cars.status <> ?
			WHERE dealers.id = ?`, carID, models.CarStatusDeleted, req.DealerID).
			Scan(&rows).Error
		if err != nil {
			return apperr.Wrap(err, "check inquiry target")
		}

		if len(rows) == 0 {
			return apperr.NotFound("Dealer not found")
		}
		if req.CarID == nil {
			return c.Next()
		}
		if rows[0].CarID == nil {
			return apperr.NotFound("Car not found")
		}
		if rows[0].CarDealerID == nil || *rows[0].CarDealerID != req.DealerID {
			return apperr.Validation("Car does not belong to the specified dealer")
		}
		return c.Next()
	}
}
