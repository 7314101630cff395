package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bitfantasy/ordertrack/internal/middleware"
	"github.com/bitfantasy/ordertrack/internal/order/entity"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const JWTSecret = "ordertrack-test-secret"

var dbSeq atomic.Int64

// SetupTestDB creates an isolated in-memory sqlite database with all order
// tables migrated. The database is dropped when the test finishes.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	// sqlite 只允许单写连接，事务内外共用会串行等待
	sqlDB.SetMaxOpenConns(1)

	if err := entity.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group with JWT auth middleware for testing
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// HeaderGroup creates an API group that takes the role from X-Role
func HeaderGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.RoleHeader())
}

// GenerateTestToken creates a valid JWT token for testing
func GenerateTestToken(userID, name string, roles []string) string {
	if roles == nil {
		roles = []string{}
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"uid":   userID,
		"name":  name,
		"roles": roles,
		"iss":   "ordertrack",
		"iat":   now.Unix(),
		"exp":   now.Add(24 * time.Hour).Unix(),
		"jti":   fmt.Sprintf("test-jti-%d", now.UnixNano()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// TokenFor returns a token for a test user holding a single role
func TokenFor(role string) string {
	return GenerateTestToken("test-"+strings.ToLower(role), "Test "+role, []string{role})
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// DoUpload posts a multipart form with one file field and optional extra fields
func DoUpload(r *gin.Engine, path, filename string, content []byte, fields map[string]string, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	fw, _ := mw.CreateFormFile("file", filename)
	io.Copy(fw, bytes.NewReader(content))
	mw.Close()

	req, _ := http.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a handler.Response-like map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

func ptr[T any](v T) *T {
	return &v
}

// SeedOrder creates an order with the given item quantities directly in the database
func SeedOrder(t *testing.T, db *gorm.DB, orderNo string, status entity.OrderStatus, quantities ...int) *entity.Order {
	t.Helper()
	now := time.Now()
	o := &entity.Order{
		ID:           fmt.Sprintf("order-%s", orderNo),
		OrderNo:      orderNo,
		CustomerName: ptr("ACME"),
		Currency:     ptr("USD"),
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for i, q := range quantities {
		o.Items = append(o.Items, entity.OrderItem{
			ID:          fmt.Sprintf("%s-item-%d", orderNo, i+1),
			OrderID:     o.ID,
			LineNo:      i + 1,
			ProductName: fmt.Sprintf("Widget %d", i+1),
			Quantity:    ptr(q),
			CreatedAt:   now,
		})
	}
	if err := db.Create(o).Error; err != nil {
		t.Fatalf("Failed to seed order: %v", err)
	}
	return o
}
