package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"autix_backend/internal/apperr"
	"autix_backend/internal/ws"
	"autix_backend/middleware"
	"autix_backend/models"
)

// DebugHandler is mounted only in development.
type DebugHandler struct {
	DB  *gorm.DB
	Hub *ws.Hub
}

func NewDebugHandler(db *gorm.DB, hub *ws.Hub) *DebugHandler {
	return &DebugHandler{DB: db, Hub: hub}
}

// Database - GET /api/debug/db
func (h *DebugHandler) Database(c *fiber.Ctx) error {
	sqlDB, err := h.DB.DB()
	if err != nil {
		return apperr.Wrap(err, "database handle")
	}
	if err := sqlDB.PingContext(c.UserContext()); err != nil {
		return apperr.Wrap(err, "ping database")
	}

	counts := fiber.Map{}
	for name, model := range map[string]any{
		"users":        &models.User{},
		"dealers":      &models.Dealer{},
		"buyers":       &models.Buyer{},
		"cars":         &models.Car{},
		"car_images":   &models.CarImage{},
		"car_requests": &models.CarRequest{},
		"inquiries":    &models.Inquiry{},
	} {
		var n int64
		if err := h.DB.WithContext(c.UserContext()).Model(model).Count(&n).Error; err != nil {
			return apperr.Wrap(err, "count "+name)
		}
		counts[name] = n
	}

	stats := sqlDB.Stats()
	return c.JSON(models.SuccessResponse("Database connection OK", fiber.Map{
		"counts": counts,
		"pool": fiber.Map{
			"open":   stats.OpenConnections,
			"in_use": stats.InUse,
			"idle":   stats.Idle,
		},
		"websocket_connections": h.Hub.Connections(),
	}))
}

// Token - GET /api/debug/token
func (h *DebugHandler) Token(c *fiber.Ctx) error {
	claims := middleware.MustCurrentUser(c)
	return c.JSON(models.SuccessResponse("Token is valid", claims))
}
