package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"site-ops-api-server/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	protected := router.Group("/")
	protected.Use(Authenticate())
	{
		protected.GET("/whoami", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"employeeID": c.GetString("user_employee_id"), "role": c.GetString("user_role")})
		})

		managers := protected.Group("/")
		managers.Use(Authorize("manager", "admin"))
		{
			managers.GET("/managers-only", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"status": "success"})
			})
		}
	}
	return router
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	router := setupRouter()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/whoami", nil)

	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_BadTokenFormat(t *testing.T) {
	router := setupRouter()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "not-a-bearer-token")

	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthorize_RoleGate(t *testing.T) {
	auth.JwtSecret = []byte("test-secret")
	router := setupRouter()

	managerToken, err := auth.GenerateJWT("m@example.com", "M", "manager", "EMP-m", "site-1", time.Hour)
	require.NoError(t, err)
	employeeToken, err := auth.GenerateJWT("e@example.com", "E", "employee", "EMP-e", "site-1", time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/managers-only", nil)
	req.Header.Set("Authorization", "Bearer "+managerToken)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/managers-only", nil)
	req.Header.Set("Authorization", "Bearer "+employeeToken)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
