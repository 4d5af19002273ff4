package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mixtales/mixtales-backend/internal/app/model"
	"github.com/mixtales/mixtales-backend/internal/app/repository"
	"github.com/mixtales/mixtales-backend/internal/db"
	"github.com/mixtales/mixtales-backend/pkg/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthMiddlewareTest(t *testing.T, providerURL string) (*AuthMiddleware, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	provider, err := identity.NewClient(identity.Config{
		BaseURL:    providerURL,
		ServiceKey: "service_role_key",
	})
	require.NoError(t, err)

	profileRepo := repository.NewProfileRepository(testDB)
	authMiddleware := NewAuthMiddleware(provider, profileRepo, 5*time.Minute)

	return authMiddleware, testDB
}

func validProvider(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer valid-jwt" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"msg": "invalid JWT"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "uuid-1", "email": "test@example.com"}`))
	}))
}

func authTestRouter(m *AuthMiddleware, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	handlers := []gin.HandlerFunc{m.Authenticate()}
	handlers = append(handlers, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		userID, _ := GetUserID(c)
		role, _ := GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})
	router.GET("/protected", handlers...)
	return router
}

func TestAuthenticate_ValidToken(t *testing.T) {
	server := validProvider(t)
	defer server.Close()

	authMiddleware, testDB := setupAuthMiddlewareTest(t, server.URL)
	testDB.Create(&model.Profile{
		ID:    "uuid-1",
		Email: "test@example.com",
		Role:  model.RoleUser,
	})
	router := authTestRouter(authMiddleware)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer valid-jwt")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "uuid-1")
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	server := validProvider(t)
	defer server.Close()

	authMiddleware, _ := setupAuthMiddlewareTest(t, server.URL)
	router := authTestRouter(authMiddleware)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	server := validProvider(t)
	defer server.Close()

	authMiddleware, _ := setupAuthMiddlewareTest(t, server.URL)
	router := authTestRouter(authMiddleware)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	server := validProvider(t)
	defer server.Close()

	authMiddleware, _ := setupAuthMiddlewareTest(t, server.URL)
	router := authTestRouter(authMiddleware)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer expired-jwt")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_UnknownProfileDefaultsToUserRole(t *testing.T) {
	server := validProvider(t)
	defer server.Close()

	// No profile row for uuid-1
	authMiddleware, _ := setupAuthMiddlewareTest(t, server.URL)
	router := authTestRouter(authMiddleware)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer valid-jwt")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"user"`)
}

func TestRequireRole_AdminAllowed(t *testing.T) {
	server := validProvider(t)
	defer server.Close()

	authMiddleware, testDB := setupAuthMiddlewareTest(t, server.URL)
	testDB.Create(&model.Profile{
		ID:    "uuid-1",
		Email: "test@example.com",
		Role:  model.RoleAdmin,
	})
	router := authTestRouter(authMiddleware, authMiddleware.RequireRole("admin"))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer valid-jwt")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_UserForbidden(t *testing.T) {
	server := validProvider(t)
	defer server.Close()

	authMiddleware, testDB := setupAuthMiddlewareTest(t, server.URL)
	testDB.Create(&model.Profile{
		ID:    "uuid-1",
		Email: "test@example.com",
		Role:  model.RoleUser,
	})
	router := authTestRouter(authMiddleware, authMiddleware.RequireRole("admin"))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer valid-jwt")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
