// Package server assembles the Fiber application.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"autix_backend/config"
	"autix_backend/handlers"
	"autix_backend/internal/apperr"
	"autix_backend/internal/media"
	"autix_backend/internal/ws"
	"autix_backend/middleware"
	"autix_backend/models"
	"autix_backend/utils"
)

const shutdownTimeout = 10 * time.Second

// Deps are the long-lived collaborators shared by every request.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Store  media.ObjectStore
	Hub    *ws.Hub
}

// New builds the app with middleware, routes and the error envelope.
func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "AUTIX API",
		ServerHeader: "AUTIX",
		// One upload carries up to MaxFiles images of MaxFileBytes each.
		BodyLimit:    media.MaxFiles*media.MaxFileBytes + 1<<20,
		ErrorHandler: ErrorHandler,
	})

	middleware.SetupMiddleware(app, d.Config)

	if d.Config.Storage.Driver == "local" {
		app.Static("/uploads", d.Config.Storage.UploadDir, fiber.Static{MaxAge: 86400})
	}

	handlers.SetupRoutes(app, handlers.Dependencies{
		Config:   d.Config,
		DB:       d.DB,
		Tokens:   utils.NewTokenManager(d.Config.JWTSecret, d.Config.JWTExpiration),
		Hub:      d.Hub,
		Pipeline: media.NewPipeline(d.Store),
	})

	app.Use(middleware.NotFound)
	return app
}

// ErrorHandler renders every returned error in the response envelope.
// Internal failures are logged and answered with a generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Kind != apperr.KindInternal {
		return c.Status(appErr.Kind.Status()).JSON(models.ErrorResponse(appErr.Message, appErr.Errors...))
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
		return c.Status(fiberErr.Code).JSON(models.ErrorResponse(fiberErr.Message))
	}

	log.Error().
		Err(err).
		Str("request_id", middleware.RequestID(c)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("unhandled error")
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("Internal server error"))
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, app *fiber.App, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			return err
		}
		return <-errCh
	}
}
