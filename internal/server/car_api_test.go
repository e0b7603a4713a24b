package server

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autix_backend/internal/repository"
	"autix_backend/internal/testutil"
	"autix_backend/models"
)

type carList struct {
	Cars       []models.Car      `json:"cars"`
	Pagination models.Pagination `json:"pagination"`
}

func carPath(id uint) string {
	return "/api/cars/" + strconv.FormatUint(uint64(id), 10)
}

func TestListCars_ToyotaSearch(t *testing.T) {
	api := newTestAPI(t)
	_, dealer := testutil.CreateDealer(t, api.db, "dealer@example.com")

	match := testutil.CreateCar(t, api.db, dealer.ID, nil)
	testutil.CreateCar(t, api.db, dealer.ID, func(c *models.Car) { c.Year = 2012; c.Price = 90000 })
	testutil.CreateCar(t, api.db, dealer.ID, func(c *models.Car) { c.Price = 250000 })
	testutil.CreateCar(t, api.db, dealer.ID, func(c *models.Car) { c.Make = "BMW"; c.Model = "X5"; c.Year = 2020 })
	testutil.CreateCar(t, api.db, dealer.ID, func(c *models.Car) { c.Status = models.CarStatusSold })
	testutil.CreateCar(t, api.db, dealer.ID, func(c *models.Car) { c.IsAvailable = false })

	status, env := api.do(http.MethodGet, "/api/cars?make=toyota&yearFrom=2015&priceTo=200000", nil, "")
	require.Equal(t, http.StatusOK, status, env.Errors)

	list := decode[carList](t, env.Data)
	require.Len(t, list.Cars, 1)
	assert.Equal(t, match.ID, list.Cars[0].ID)
	assert.EqualValues(t, 1, list.Pagination.Total)
	assert.Equal(t, 1, list.Pagination.Page)
}

func TestListCars_InvalidQuery(t *testing.T) {
	api := newTestAPI(t)

	status, env := api.do(http.MethodGet, "/api/cars?yearFrom=abc&sortBy=color&limit=0", nil, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, env.Errors)

	status, env = api.do(http.MethodGet, "/api/cars?page=9223372036854775807", nil, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "page must be at most 21474836")
}

func TestListCars_BadTokenIsNotAnonymous(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/cars", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer forged")
	status, _ := api.send(req)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestCreateCar(t *testing.T) {
	api := newTestAPI(t)
	user, dealer := testutil.CreateDealer(t, api.db, "dealer@example.com")

	status, env := api.do(http.MethodPost, "/api/cars", map[string]any{
		"make":         "toyota",
		"model":        "land cruiser",
		"year":         2020,
		"price":        24000000,
		"mileage":      40000,
		"fuelType":     "diesel",
		"transmission": "automatic",
		"city":         "almaty",
	}, api.token(user))
	require.Equal(t, http.StatusCreated, status, env.Errors)

	car := decode[models.Car](t, env.Data)
	assert.Equal(t, "Toyota", car.Make)
	assert.Equal(t, "Land Cruiser", car.Model)
	assert.Equal(t, "Almaty", car.City)
	assert.Equal(t, dealer.ID, car.DealerID)
	assert.Equal(t, models.CarStatusActive, car.Status)
	assert.True(t, car.IsAvailable)

	status, env = api.do(http.MethodPost, "/api/cars", map[string]any{
		"model": "Camry", "year": 1800, "price": -1, "fuelType": "steam",
	}, api.token(user))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "Make is required")
	assert.Contains(t, env.Errors, "Price must be a positive number")
}

func TestUpdateCar_NonOwnerForbidden(t *testing.T) {
	api := newTestAPI(t)
	_, owner := testutil.CreateDealer(t, api.db, "owner@example.com")
	other, _ := testutil.CreateDealer(t, api.db, "other@example.com")
	car := testutil.CreateCar(t, api.db, owner.ID, nil)

	status, env := api.do(http.MethodPut, carPath(car.ID), map[string]any{"price": 1}, api.token(other))
	assert.Equal(t, http.StatusForbidden, status)
	assert.False(t, env.Success)

	var reloaded models.Car
	require.NoError(t, api.db.First(&reloaded, car.ID).Error)
	assert.Equal(t, car.Price, reloaded.Price)

	status, _ = api.do(http.MethodDelete, carPath(car.ID), nil, api.token(other))
	assert.Equal(t, http.StatusForbidden, status)
}

func TestUpdateCar_MarkSold(t *testing.T) {
	api := newTestAPI(t)
	user, dealer := testutil.CreateDealer(t, api.db, "dealer@example.com")
	car := testutil.CreateCar(t, api.db, dealer.ID, nil)

	status, env := api.do(http.MethodPut, carPath(car.ID), map[string]any{"status": "sold"}, api.token(user))
	require.Equal(t, http.StatusOK, status, env.Errors)

	updated := decode[models.Car](t, env.Data)
	assert.Equal(t, models.CarStatusSold, updated.Status)
	assert.False(t, updated.IsAvailable)

	status, _ = api.do(http.MethodGet, carPath(car.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = api.do(http.MethodGet, carPath(car.ID), nil, api.token(user))
	assert.Equal(t, http.StatusOK, status)

	status, env = api.do(http.MethodPut, carPath(car.ID), map[string]any{"status": "active"}, api.token(user))
	require.Equal(t, http.StatusOK, status, env.Errors)
	relisted := decode[models.Car](t, env.Data)
	assert.Equal(t, models.CarStatusActive, relisted.Status)
	assert.True(t, relisted.IsAvailable)

	status, _ = api.do(http.MethodGet, carPath(car.ID), nil, "")
	assert.Equal(t, http.StatusOK, status)

	// An explicit availability flag wins over the status rule.
	status, env = api.do(http.MethodPut, carPath(car.ID), map[string]any{"status": "sold", "isAvailable": true}, api.token(user))
	require.Equal(t, http.StatusOK, status, env.Errors)
	assert.True(t, decode[models.Car](t, env.Data).IsAvailable)
}

func TestUpdateCar_RejectsEmptyAndDeletedStatus(t *testing.T) {
	api := newTestAPI(t)
	user, dealer := testutil.CreateDealer(t, api.db, "dealer@example.com")
	car := testutil.CreateCar(t, api.db, dealer.ID, nil)

	status, env := api.do(http.MethodPut, carPath(car.ID), map[string]any{}, api.token(user))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "No fields to update")

	status, _ = api.do(http.MethodPut, carPath(car.ID), map[string]any{"status": "deleted"}, api.token(user))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestDeleteCar(t *testing.T) {
	api := newTestAPI(t)
	user, dealer := testutil.CreateDealer(t, api.db, "dealer@example.com")
	car := testutil.CreateCar(t, api.db, dealer.ID, nil)
	tok := api.token(user)

	status, _ := api.do(http.MethodDelete, carPath(car.ID), nil, tok)
	require.Equal(t, http.StatusOK, status)

	var reloaded models.Car
	require.NoError(t, api.db.First(&reloaded, car.ID).Error)
	assert.Equal(t, models.CarStatusDeleted, reloaded.Status)
	assert.False(t, reloaded.IsAvailable)

	status, _ = api.do(http.MethodGet, carPath(car.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = api.do(http.MethodPut, carPath(car.ID), map[string]any{"price": 1}, tok)
	assert.Equal(t, http.StatusNotFound, status)

	status, env := api.do(http.MethodGet, "/api/cars/dealer/my-cars", nil, tok)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[carList](t, env.Data).Cars)
}

func TestCarRoutes_InvalidID(t *testing.T) {
	api := newTestAPI(t)
	user, _ := testutil.CreateDealer(t, api.db, "dealer@example.com")

	status, _ := api.do(http.MethodGet, "/api/cars/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = api.do(http.MethodDelete, "/api/cars/0", nil, api.token(user))
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = api.do(http.MethodGet, "/api/cars/999", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestFeaturedAndFilters(t *testing.T) {
	api := newTestAPI(t)
	_, dealer := testutil.CreateDealer(t, api.db, "dealer@example.com")
	testutil.CreateCar(t, api.db, dealer.ID, func(c *models.Car) { c.IsFeatured = true })
	testutil.CreateCar(t, api.db, dealer.ID, func(c *models.Car) { c.Make = "BMW"; c.City = "Astana"; c.Price = 300000 })

	status, env := api.do(http.MethodGet, "/api/cars/featured", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[carList](t, env.Data).Cars, 1)

	status, env = api.do(http.MethodGet, "/api/cars/filters", nil, "")
	require.Equal(t, http.StatusOK, status)
	opts := decode[repository.CarFilterOptions](t, env.Data)
	assert.Equal(t, []string{"BMW", "Toyota"}, opts.Makes)
	assert.Equal(t, []string{"Almaty", "Astana"}, opts.Cities)
	assert.Equal(t, 150000.0, opts.PriceRange.Min)
	assert.Equal(t, 300000.0, opts.PriceRange.Max)
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for x := 0; x < 64; x++ {
		for y := 0; y < 48; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 5), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func uploadRequest(t *testing.T, path, token string, files map[string][]byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := w.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	return req
}

func TestCarImages_Lifecycle(t *testing.T) {
	api := newTestAPI(t)
	user, dealer := testutil.CreateDealer(t, api.db, "dealer@example.com")
	car := testutil.CreateCar(t, api.db, dealer.ID, nil)
	tok := api.token(user)

	status, env := api.send(uploadRequest(t, carPath(car.ID)+"/images", tok, map[string][]byte{
		"front.png": testPNG(t),
		"back.png":  testPNG(t),
	}))
	require.Equal(t, http.StatusCreated, status, env.Errors)

	uploaded := decode[struct {
		Images []models.CarImage `json:"images"`
	}](t, env.Data).Images
	require.Len(t, uploaded, 2)
	assert.True(t, uploaded[0].IsMain)
	assert.False(t, uploaded[1].IsMain)
	assert.Equal(t, 1200, uploaded[0].Width)
	assert.True(t, strings.HasPrefix(uploaded[0].ImageURL, "http://localhost:5000/uploads/cars/"))

	var files int
	require.NoError(t, filepath.WalkDir(api.uploadDir, func(_ string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			files++
		}
		return err
	}))
	assert.Equal(t, 4, files)

	resp, err := api.app.Test(httptest.NewRequest(http.MethodGet, strings.TrimPrefix(uploaded[0].ThumbnailURL, "http://localhost:5000"), nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	second := strconv.FormatUint(uint64(uploaded[1].ID), 10)
	status, env = api.do(http.MethodPut, carPath(car.ID)+"/images/"+second+"/main", nil, tok)
	require.Equal(t, http.StatusOK, status, env.Errors)
	images := decode[struct {
		Images []models.CarImage `json:"images"`
	}](t, env.Data).Images
	require.Len(t, images, 2)
	assert.False(t, images[0].IsMain)
	assert.True(t, images[1].IsMain)

	status, _ = api.do(http.MethodDelete, carPath(car.ID)+"/images/"+second, nil, tok)
	require.Equal(t, http.StatusOK, status)

	var remaining []models.CarImage
	require.NoError(t, api.db.Where("car_id = ?", car.ID).Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.True(t, remaining[0].IsMain)
}

func TestCarImages_Rejections(t *testing.T) {
	api := newTestAPI(t)
	user, dealer := testutil.CreateDealer(t, api.db, "dealer@example.com")
	other, _ := testutil.CreateDealer(t, api.db, "other@example.com")
	car := testutil.CreateCar(t, api.db, dealer.ID, nil)

	status, _ := api.send(uploadRequest(t, carPath(car.ID)+"/images", api.token(other), map[string][]byte{
		"front.png": testPNG(t),
	}))
	assert.Equal(t, http.StatusForbidden, status)

	status, env := api.send(uploadRequest(t, carPath(car.ID)+"/images", api.token(user), map[string][]byte{
		"notes.txt": []byte("hello"),
	}))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, env.Errors)

	status, _ = api.send(uploadRequest(t, carPath(car.ID)+"/images", api.token(user), map[string][]byte{
		"broken.jpg": []byte("definitely not a jpeg"),
	}))
	assert.Equal(t, http.StatusBadRequest, status)

	var count int64
	require.NoError(t, api.db.Model(&models.CarImage{}).Count(&count).Error)
	assert.Zero(t, count)
}
