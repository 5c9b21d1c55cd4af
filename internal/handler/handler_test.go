package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LukaszHolowacz/Marketplace/internal/config"
	"github.com/LukaszHolowacz/Marketplace/internal/database"
	"github.com/LukaszHolowacz/Marketplace/internal/models"
	"github.com/LukaszHolowacz/Marketplace/internal/router"
	"github.com/LukaszHolowacz/Marketplace/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testSecret   = "test-secret"
	testIssuer   = "marketplace-test"
	testPassword = "ValidPass123"
)

var dbSeq atomic.Int64

// newTestEnv builds a router backed by a fresh in-memory database. The
// shared-cache DSN keeps every pooled connection on the same database.
func newTestEnv(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:handlertest%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		JWT: config.JWTConfig{
			Secret:              testSecret,
			Issuer:              testIssuer,
			AccessExpireMinutes: 60,
			RefreshExpireHours:  24,
		},
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
		Lockout:  config.LockoutConfig{MaxFailures: 5, CooldownMinutes: 10},
		App: config.AppSubConfig{
			PageSize:  20,
			MinPrice:  "5.00",
			UploadDir: t.TempDir(),
		},
	}

	return router.SetupRouter(cfg, db), db
}

// createUser seeds an account. The is_active column defaults to true,
// so inactive accounts need an explicit update after the insert.
func createUser(t *testing.T, db *gorm.DB, username string, active, staff bool) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: string(hash),
		IsActive:     true,
		IsStaff:      staff,
		Profile:      models.Profile{},
	}
	require.NoError(t, db.Create(&user).Error)
	if !active {
		require.NoError(t, db.Model(&user).Update("is_active", false).Error)
		user.IsActive = false
	}
	return &user
}

func createCategory(t *testing.T, db *gorm.DB, name, slug string) *models.Category {
	t.Helper()

	cat := models.Category{Name: name, Slug: slug}
	require.NoError(t, db.Create(&cat).Error)
	return &cat
}

func createAd(t *testing.T, db *gorm.DB, owner *models.User, cat *models.Category, active bool, priceGr int64) *models.Ad {
	t.Helper()

	ad := models.Ad{
		Title:      "Rower górski",
		PriceGr:    priceGr,
		IsActive:   true,
		UserID:     owner.ID,
		CategoryID: cat.ID,
		City:       "Warszawa",
	}
	require.NoError(t, db.Create(&ad).Error)
	if !active {
		require.NoError(t, db.Model(&ad).Update("is_active", false).Error)
		ad.IsActive = false
	}
	return &ad
}

func createMessage(t *testing.T, db *gorm.DB, sender, recipient *models.User, ad *models.Ad, content string) *models.Message {
	t.Helper()

	msg := models.Message{
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		AdID:        ad.ID,
		Content:     content,
	}
	require.NoError(t, db.Create(&msg).Error)
	return &msg
}

func accessToken(t *testing.T, userID uint) string {
	t.Helper()

	token, err := util.GenerateToken(testSecret, testIssuer, userID, util.TokenTypeAccess, time.Hour)
	require.NoError(t, err)
	return token
}

// doJSON performs a request against the router, marshalling body (if
// any) as JSON and attaching the bearer token (if non-empty).
func doJSON(t *testing.T, r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals the response envelope.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

// message extracts the "message" field of an error envelope.
func respMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	body := decodeBody(t, w)
	msg, _ := body["message"].(string)
	return msg
}

// respErrors extracts the collected field errors of a 400 envelope.
func respErrors(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	body := decodeBody(t, w)
	errs, _ := body["errors"].(map[string]interface{})
	return errs
}

// respData extracts the "data" object of a success envelope.
func respData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	body := decodeBody(t, w)
	data, _ := body["data"].(map[string]interface{})
	return data
}
