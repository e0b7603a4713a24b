package handlers

import (
	"errors"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"autix_backend/internal/apperr"
	"autix_backend/internal/authz"
	"autix_backend/internal/media"
	"autix_backend/internal/repository"
	"autix_backend/middleware"
	"autix_backend/models"
)

// ImageHandler handles car photo uploads
type ImageHandler struct {
	Cars     repository.CarRepository
	Images   repository.CarImageRepository
	Pipeline *media.Pipeline
	Authz    *authz.Checker
}

func NewImageHandler(cars repository.CarRepository, images repository.CarImageRepository, pipeline *media.Pipeline, checker *authz.Checker) *ImageHandler {
	return &ImageHandler{Cars: cars, Images: images, Pipeline: pipeline, Authz: checker}
}

// ownedCarID checks the caller owns the :id car and that it is not deleted.
func (h *ImageHandler) ownedCarID(c *fiber.Ctx) (uint, error) {
	carID, err := middleware.ParamID(c, "id")
	if err != nil {
		return 0, err
	}
	claims := middleware.MustCurrentUser(c)
	if err := h.Authz.AssertOwnsResource(c.UserContext(), claims.UserID, carID, authz.ResourceCar); err != nil {
		return 0, err
	}
	car, err := h.Cars.GetByID(c.UserContext(), carID)
	if err != nil {
		return 0, apperr.From(err, "Car not found")
	}
	if car.Status == models.CarStatusDeleted {
		return 0, apperr.NotFound("Car not found")
	}
	return carID, nil
}

// UploadImages - POST /api/cars/:id/images
func (h *ImageHandler) UploadImages(c *fiber.Ctx) error {
	carID, err := h.ownedCarID(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return apperr.Validation("Image files are required")
	}
	files := form.File["images"]

	infos := make([]media.FileInfo, len(files))
	for i, f := range files {
		infos[i] = media.FileInfo{Name: f.Filename, Size: f.Size}
	}
	if errs := media.ValidateFiles(infos); len(errs) > 0 {
		return apperr.Validation(errs...)
	}

	processed := make([]models.CarImage, 0, len(files))
	for _, fh := range files {
		img, err := h.processOne(c, carID, fh)
		if err != nil {
			h.Pipeline.Remove(c.UserContext(), processed...)
			if errors.Is(err, media.ErrUnreadable) {
				return apperr.Validation(fh.Filename + ": " + media.ErrUnreadable.Error())
			}
			return apperr.Wrap(err, "Failed to upload images")
		}
		processed = append(processed, *img)
	}

	saved, err := h.Images.AddImages(c.UserContext(), carID, processed)
	if err != nil {
		h.Pipeline.Remove(c.UserContext(), processed...)
		return apperr.Wrap(err, "save images")
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse("Images uploaded successfully", fiber.Map{"images": saved}))
}

func (h *ImageHandler) processOne(c *fiber.Ctx, carID uint, fh *multipart.FileHeader) (*models.CarImage, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return h.Pipeline.Process(c.UserContext(), carID, f)
}

// SetMainImage - PUT /api/cars/:id/images/:imageId/main
func (h *ImageHandler) SetMainImage(c *fiber.Ctx) error {
	carID, err := h.ownedCarID(c)
	if err != nil {
		return err
	}
	imageID, err := middleware.ParamID(c, "imageId")
	if err != nil {
		return err
	}

	if err := h.Images.SetMain(c.UserContext(), carID, imageID); err != nil {
		return apperr.From(err, "Image not found")
	}

	images, err := h.Images.ListByCar(c.UserContext(), carID)
	if err != nil {
		return apperr.Wrap(err, "list images")
	}
	return c.JSON(models.SuccessResponse("Main image updated", fiber.Map{"images": images}))
}

// DeleteImage - DELETE /api/cars/:id/images/:imageId
func (h *ImageHandler) DeleteImage(c *fiber.Ctx) error {
	carID, err := h.ownedCarID(c)
	if err != nil {
		return err
	}
	imageID, err := middleware.ParamID(c, "imageId")
	if err != nil {
		return err
	}

	img, err := h.Images.Delete(c.UserContext(), carID, imageID)
	if err != nil {
		return apperr.From(err, "Image not found")
	}
	h.Pipeline.Remove(c.UserContext(), *img)

	return c.JSON(models.SuccessResponse("Image deleted successfully", nil))
}
