package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"autix_backend/config"
	"autix_backend/internal/logger"
	"autix_backend/internal/media"
	"autix_backend/internal/testutil"
	"autix_backend/internal/ws"
	"autix_backend/models"
	"autix_backend/utils"
)

const testSecret = "test-secret"

func TestMain(m *testing.M) {
	logger.InitWithWriter(io.Discard, "error", false)
	os.Exit(m.Run())
}

type testAPI struct {
	t         *testing.T
	app       *fiber.App
	db        *gorm.DB
	hub       *ws.Hub
	tokens    *utils.TokenManager
	uploadDir string
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

func testConfig(uploadDir string) *config.Config {
	return &config.Config{
		AppEnv:           config.EnvTest,
		JWTSecret:        testSecret,
		JWTExpiration:    time.Hour,
		CORSAllowOrigins: []string{"*"},
		CORSAllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		CORSAllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		Storage: config.StorageConfig{
			Driver:        "local",
			UploadDir:     uploadDir,
			PublicBaseURL: "http://localhost:5000",
		},
	}
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db := testutil.NewDB(t)
	dir := t.TempDir()
	cfg := testConfig(dir)

	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	app := New(Deps{
		Config: cfg,
		DB:     db,
		Store:  media.NewLocalStore(dir, cfg.Storage.PublicBaseURL),
		Hub:    hub,
	})

	return &testAPI{
		t:         t,
		app:       app,
		db:        db,
		hub:       hub,
		tokens:    utils.NewTokenManager(testSecret, time.Hour),
		uploadDir: dir,
	}
}

func (a *testAPI) token(user *models.User) string {
	a.t.Helper()
	tok, err := a.tokens.Generate(user)
	require.NoError(a.t, err)
	return tok
}

// do sends body as JSON (when non-nil) with an optional bearer token.
func (a *testAPI) do(method, path string, body any, token string) (int, envelope) {
	a.t.Helper()

	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return a.send(req)
}

func (a *testAPI) send(req *http.Request) (int, envelope) {
	a.t.Helper()

	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)

	var env envelope
	if len(raw) > 0 {
		require.NoError(a.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}
