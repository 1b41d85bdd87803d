package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gloryharbor/internal/config"
	"gloryharbor/internal/database"
	"gloryharbor/internal/models"
)

const (
	testJWTSecret  = "test-secret-key-12345678901234567890123456789012"
	testLeaderCode = "GH-L#9mK7$pQ2xR4vN8"
	testPastorCode = "GH-P@5wT3!sY6bN9xL1"
	// Satisfies the password policy used at registration.
	testPassword = "Sunday!Morning42"
)

// setupTestServer builds a Server over an isolated in-memory database and a
// Fiber app with the full route table.
func setupTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	cfg := &config.Config{
		Env:              "test",
		JWTSecret:        testJWTSecret,
		UploadDir:        t.TempDir(),
		MaxUploadSizeMB:  5,
		LeaderSignupCode: testLeaderCode,
		PastorSignupCode: testPastorCode,
	}

	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{BodyLimit: 10 * 1024 * 1024})
	srv.SetupRoutes(app)

	return srv, app, db
}

// createTestUser inserts a user with the shared test password and returns it
// with a signed token.
func createTestUser(t *testing.T, srv *Server, db *gorm.DB, email string, role models.Role) (*models.User, string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Email:     email,
		Password:  string(hashed),
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		Status:    models.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)

	token, err := srv.generateToken(user)
	require.NoError(t, err)
	return user, token
}

// itoa formats a record ID for a URL path.
func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// jsonRequest builds a JSON request with an optional bearer token.
func jsonRequest(t *testing.T, method, target string, body any, token string) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// decodeBody unmarshals a response body into dest.
func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, dest), "body: %s", raw)
}

// testPNG returns encoded PNG bytes of the given dimensions.
func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// multipartRequest builds a multipart request with form fields and an
// optional PNG file under the "image" field.
func multipartRequest(t *testing.T, method, target string, fields map[string]string, imageBytes []byte, token string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if imageBytes != nil {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="image"; filename="upload.png"`)
		header.Set("Content-Type", "image/png")
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(imageBytes)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}
