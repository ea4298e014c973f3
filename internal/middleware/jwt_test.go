package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/adilevy/guide-roster-api/internal/models"
	"github.com/adilevy/guide-roster-api/internal/service"
)

const testSecret = "middleware-test-secret"

func testAuthService() *service.AuthService {
	return service.NewAuthService(nil, nil, zap.NewNop(), service.AuthConfig{
		Secret:     testSecret,
		Expiration: time.Hour,
		Issuer:     "guide-roster-api",
	})
}

func signedToken(t *testing.T, claims models.JWTClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func coordinatorClaims() models.JWTClaims {
	now := time.Now().UTC()
	return models.JWTClaims{
		UserID:   1,
		Username: "noa",
		Role:     "coordinator",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestJWTMissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/guides", nil)

	JWT(testAuthService())(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.True(t, c.IsAborted())
}

func TestJWTMalformedHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/guides", nil)
	c.Request.Header.Set("Authorization", "Token abc")

	JWT(testAuthService())(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTExpiredToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	claims := coordinatorClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().UTC().Add(-time.Minute))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/guides", nil)
	c.Request.Header.Set("Authorization", "Bearer "+signedToken(t, claims))

	JWT(testAuthService())(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTValidTokenSetsClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/guides", nil)
	c.Request.Header.Set("Authorization", "Bearer "+signedToken(t, coordinatorClaims()))

	JWT(testAuthService())(c)

	assert.False(t, c.IsAborted())
	value, exists := c.Get(ContextUserKey)
	require.True(t, exists)
	claims := value.(*models.JWTClaims)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, "coordinator", claims.Role)
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/guides", nil)
	claims := coordinatorClaims()
	c.Set(ContextUserKey, &claims)

	RequireRole("admin")(c)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/guides", nil)
	c.Set(ContextUserKey, &claims)

	RequireRole("admin", "coordinator")(c)
	assert.False(t, c.IsAborted())
}

func TestRequireRoleWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/guides", nil)

	RequireRole("coordinator")(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
