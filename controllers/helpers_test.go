package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/foodhub/cart"
	"github.com/yeremiapane/foodhub/database"
	"github.com/yeremiapane/foodhub/models"
	"github.com/yeremiapane/foodhub/router"
	"github.com/yeremiapane/foodhub/tracking"
	"github.com/yeremiapane/foodhub/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	db  *gorm.DB
	r   *gin.Engine
	hub *tracking.Hub
}

// setupTestEnv builds the full router on a seeded in-memory database.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return setupTestEnvWithStore(t, nil)
}

// setupTestEnvWithStore is setupTestEnv with a custom cart store; nil means
// the gorm store on the test database.
func setupTestEnvWithStore(t *testing.T, store cart.Store) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.Seed(db))

	if store == nil {
		store = cart.NewGormStore(db)
	}
	hub := tracking.NewHub()
	r := router.SetupRouter(router.Options{
		DB:           db,
		CartStore:    store,
		Hub:          hub,
		DeliveryFee:  5,
		AllowOrigins: []string{"http://localhost:3000"},
	})
	return &testEnv{db: db, r: r, hub: hub}
}

func (e *testEnv) user(t *testing.T, email string) models.User {
	t.Helper()
	var u models.User
	require.NoError(t, e.db.Where("email = ?", email).First(&u).Error)
	return u
}

func (e *testEnv) token(t *testing.T, email string) string {
	t.Helper()
	u := e.user(t, email)
	token, err := utils.GenerateToken(u.ID, string(u.Role))
	require.NoError(t, err)
	return token
}

func (e *testEnv) menuItem(t *testing.T, name string) models.MenuItem {
	t.Helper()
	var item models.MenuItem
	require.NoError(t, e.db.Where("name = ?", name).First(&item).Error)
	return item
}

func (e *testEnv) restaurant(t *testing.T, name string) models.Restaurant {
	t.Helper()
	var r models.Restaurant
	require.NoError(t, e.db.Where("name = ?", name).First(&r).Error)
	return r
}

// request sends body as JSON with an optional bearer token and cookies.
func (e *testEnv) request(method, path, token string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// decode unmarshals the envelope's data into dst and returns the envelope.
func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if dst != nil {
		require.NoError(t, json.Unmarshal(env.Data, dst), string(env.Data))
	}
	return env
}

const (
	adminEmail    = "admin@example.com"
	staffEmail    = "staff@example.com"
	customerEmail = "customer@example.com"
)
