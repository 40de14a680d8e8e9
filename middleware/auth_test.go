package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"insurancecrm/models"
)

func TestTokenRoundTrip(t *testing.T) {
	userID := primitive.NewObjectID().Hex()

	token, err := GenerateToken(userID, "jsmith", "agent")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "jsmith", claims.Username)
	assert.Equal(t, "agent", claims.Role)
	assert.Equal(t, "insurancecrm", claims.Issuer)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareSetsIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := primitive.NewObjectID().Hex()
	token, err := GenerateToken(userID, "jsmith", "agent")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		assert.Equal(t, userID, c.GetString("userID"))
		assert.Equal(t, "jsmith", c.GetString("username"))
		assert.Equal(t, "agent", c.GetString("role"))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	serve := func(role string) int {
		r := gin.New()
		r.GET("/admin-only", func(c *gin.Context) {
			c.Set("role", role)
		}, RequireRole(models.RoleManager), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, serve("admin"), "admin always passes")
	assert.Equal(t, http.StatusOK, serve("manager"))
	assert.Equal(t, http.StatusForbidden, serve("agent"))
	assert.Equal(t, http.StatusForbidden, serve("viewer"))
	assert.Equal(t, http.StatusForbidden, serve(""))
}
