package utils

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Amber-bisht/watch-me/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestJWTSecret signs tokens in tests
const TestJWTSecret = "test-jwt-secret"

// TestRequest represents a test HTTP request
type TestRequest struct {
	Method  string
	Path    string
	Body    interface{}
	RawBody []byte
	Headers map[string]string
}

// TestResponse represents a test HTTP response
type TestResponse struct {
	StatusCode int
	Header     http.Header
	Raw        []byte
	Body       map[string]interface{}
}

// MakeTestRequest makes a test HTTP request
func MakeTestRequest(t *testing.T, router *gin.Engine, req TestRequest) TestResponse {
	t.Helper()

	body := req.RawBody
	if body == nil && req.Body != nil {
		var err error
		body, err = json.Marshal(req.Body)
		require.NoError(t, err)
	}

	httpReq, err := http.NewRequest(req.Method, req.Path, bytes.NewReader(body))
	require.NoError(t, err)
	httpReq.Header.Set("Content-Type", "application/json")
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httpReq)

	resp := TestResponse{
		StatusCode: w.Code,
		Header:     w.Header(),
		Raw:        w.Body.Bytes(),
	}
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp.Body))
	}
	return resp
}

// CreateTestAdmin creates an active admin with the given password
func CreateTestAdmin(t *testing.T, db *gorm.DB, email, password string) *models.Admin {
	t.Helper()

	hash, err := HashPassword(password)
	require.NoError(t, err)

	admin := &models.Admin{
		Email:    email,
		Password: hash,
		Name:     "Test Admin",
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	require.NoError(t, db.Create(admin).Error)
	return admin
}

// GetTestAdminToken generates a test admin JWT token
func GetTestAdminToken(t *testing.T, admin *models.Admin) string {
	t.Helper()

	token, _, err := GenerateAdminToken(admin, TestJWTSecret)
	require.NoError(t, err)
	return token
}

// CreateTestCollection creates a collection
func CreateTestCollection(t *testing.T, db *gorm.DB, slug string) *models.Collection {
	t.Helper()

	collection := &models.Collection{
		Title:       "Collection " + slug,
		Slug:        slug,
		Description: "Test collection",
		Image:       "https://cdn.example.com/" + slug + ".jpg",
	}
	require.NoError(t, db.Create(collection).Error)
	return collection
}

// CreateTestProduct creates a published product
func CreateTestProduct(t *testing.T, db *gorm.DB, collectionID uint, slug string, price int64, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		Title:        "Watch " + slug,
		Slug:         slug,
		SKU:          "SKU-" + slug,
		Price:        price,
		Currency:     DefaultCurrency,
		CollectionID: collectionID,
		Images:       []string{"https://cdn.example.com/" + slug + ".jpg"},
		Description:  "Test watch",
		Stock:        stock,
		IsPublished:  true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}
