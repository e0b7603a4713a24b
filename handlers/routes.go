package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"autix_backend/config"
	"autix_backend/internal/authz"
	"autix_backend/internal/media"
	"autix_backend/internal/repository"
	"autix_backend/internal/search"
	"autix_backend/internal/ws"
	"autix_backend/middleware"
	"autix_backend/models"
	"autix_backend/utils"
)

type Dependencies struct {
	Config   *config.Config
	DB       *gorm.DB
	Tokens   *utils.TokenManager
	Hub      *ws.Hub
	Pipeline *media.Pipeline
}

// SetupRoutes mounts every API route on app.
func SetupRoutes(app *fiber.App, d Dependencies) {
	users := repository.NewGormUserRepository(d.DB)
	cars := repository.NewGormCarRepository(d.DB)
	images := repository.NewGormCarImageRepository(d.DB)
	requests := repository.NewGormCarRequestRepository(d.DB)
	inquiries := repository.NewGormInquiryRepository(d.DB)
	checker := authz.NewChecker(d.DB)

	authMW := middleware.NewAuth(d.Tokens)
	dealerOnly := middleware.RequireRole(models.UserTypeDealer)
	buyerOnly := middleware.RequireRole(models.UserTypeBuyer)
	id := middleware.ValidateIDParams("id")

	authHandler := NewAuthHandler(users, d.Tokens)
	carHandler := NewCarHandler(cars, checker)
	imageHandler := NewImageHandler(cars, images, d.Pipeline, checker)
	requestHandler := NewCarRequestHandler(requests, checker)
	inquiryHandler := NewInquiryHandler(inquiries, checker, d.Hub)
	profileHandler := NewProfileHandler(users)
	notificationHandler := NewNotificationHandler(d.Hub, d.Tokens)

	// Health Check Endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(models.SuccessResponse("API is healthy", fiber.Map{"status": "ok"}))
	})

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", middleware.ValidateBody[models.RegisterRequest](), authHandler.Register)
	auth.Post("/login", middleware.ValidateBody[models.LoginRequest](), authHandler.Login)
	auth.Get("/me", authMW.RequireAuth, authHandler.Me)
	auth.Post("/logout", authMW.RequireAuth, authHandler.Logout)

	// Fixed paths come before /:id.
	carsGroup := api.Group("/cars")
	carsGroup.Get("/", authMW.OptionalAuth, middleware.ValidateQuery(search.ParseCarFilter), carHandler.ListCars)
	carsGroup.Get("/featured", carHandler.GetFeatured)
	carsGroup.Get("/filters", carHandler.GetFilterOptions)
	carsGroup.Get("/dealer/my-cars", authMW.RequireAuth, dealerOnly, middleware.ValidateQuery(search.ParseDealerCarFilter), carHandler.GetMyCars)
	carsGroup.Get("/:id", authMW.OptionalAuth, id, carHandler.GetCar)
	carsGroup.Post("/", authMW.RequireAuth, dealerOnly, middleware.ValidateBody[models.CreateCarRequest](), carHandler.CreateCar)
	carsGroup.Put("/:id", authMW.RequireAuth, dealerOnly, id, middleware.ValidateBody[models.UpdateCarRequest](), carHandler.UpdateCar)
	carsGroup.Delete("/:id", authMW.RequireAuth, dealerOnly, id, carHandler.DeleteCar)

	imageIDs := middleware.ValidateIDParams("id", "imageId")
	carsGroup.Post("/:id/images", authMW.RequireAuth, dealerOnly, id, imageHandler.UploadImages)
	carsGroup.Put("/:id/images/:imageId/main", authMW.RequireAuth, dealerOnly, imageIDs, imageHandler.SetMainImage)
	carsGroup.Delete("/:id/images/:imageId", authMW.RequireAuth, dealerOnly, imageIDs, imageHandler.DeleteImage)

	carRequests := api.Group("/car-requests", authMW.RequireAuth)
	carRequests.Get("/", dealerOnly, middleware.ValidateQuery(search.ParseCarRequestFilter), requestHandler.ListCarRequests)
	carRequests.Get("/my", buyerOnly, middleware.ValidateQuery(search.ParseCarRequestFilter), requestHandler.GetMyCarRequests)
	carRequests.Get("/:id", id, requestHandler.GetCarRequest)
	carRequests.Post("/", buyerOnly, middleware.ValidateBody[models.CreateCarRequestRequest](), requestHandler.CreateCarRequest)
	carRequests.Put("/:id", buyerOnly, id, middleware.ValidateBody[models.UpdateCarRequestRequest](), requestHandler.UpdateCarRequest)
	carRequests.Delete("/:id", buyerOnly, id, requestHandler.DeleteCarRequest)

	inquiriesGroup := api.Group("/inquiries", authMW.RequireAuth)
	inquiriesGroup.Post("/", buyerOnly,
		middleware.ValidateBody[models.CreateInquiryRequest](),
		middleware.CheckInquiryTarget(d.DB),
		inquiryHandler.CreateInquiry)
	inquiriesGroup.Get("/sent", buyerOnly, middleware.ValidateQuery(search.ParseInquiryFilter), inquiryHandler.GetSentInquiries)
	inquiriesGroup.Get("/received", dealerOnly, middleware.ValidateQuery(search.ParseInquiryFilter), inquiryHandler.GetReceivedInquiries)
	inquiriesGroup.Get("/:id", id, inquiryHandler.GetInquiry)
	inquiriesGroup.Put("/:id/status", dealerOnly, id, middleware.ValidateBody[models.UpdateInquiryStatusRequest](), inquiryHandler.UpdateInquiryStatus)
	inquiriesGroup.Delete("/:id", buyerOnly, id, inquiryHandler.DeleteInquiry)

	profile := api.Group("/profile", authMW.RequireAuth)
	profile.Get("/", profileHandler.GetProfile)
	profile.Put("/", middleware.ValidateBody[models.UpdateProfileRequest](), profileHandler.UpdateProfile)
	profile.Put("/password", middleware.ValidateBody[models.ChangePasswordRequest](), profileHandler.ChangePassword)
	profile.Delete("/", profileHandler.DeleteProfile)

	api.Get("/notifications/ws", notificationHandler.Upgrade, notificationHandler.Handler())

	if d.Config.IsDevelopment() {
		debugHandler := NewDebugHandler(d.DB, d.Hub)
		debug := api.Group("/debug")
		debug.Get("/db", debugHandler.Database)
		debug.Get("/token", authMW.RequireAuth, debugHandler.Token)
	}
}
