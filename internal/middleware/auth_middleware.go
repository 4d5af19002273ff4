package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mixtales/mixtales-backend/internal/app/model"
	"github.com/mixtales/mixtales-backend/internal/app/repository"
	appErrors "github.com/mixtales/mixtales-backend/internal/errors"
	"github.com/mixtales/mixtales-backend/pkg/identity"
	"github.com/mixtales/mixtales-backend/pkg/redis"
)

// Context keys for user information
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
	UserRoleKey  = "user_role"
)

// AuthMiddleware authenticates requests by validating the bearer token
// against the identity provider. Validation results are cached in Redis
// for TokenCacheTTL so hot clients do not hammer the provider.
type AuthMiddleware struct {
	provider      *identity.Client
	profileRepo   repository.ProfileRepository
	tokenCacheTTL time.Duration
}

func NewAuthMiddleware(provider *identity.Client, profileRepo repository.ProfileRepository, tokenCacheTTL time.Duration) *AuthMiddleware {
	return &AuthMiddleware{
		provider:      provider,
		profileRepo:   profileRepo,
		tokenCacheTTL: tokenCacheTTL,
	}
}

// Authenticate validates the bearer token (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Missing authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			appErrors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			appErrors.RespondWithError(c, http.StatusUnauthorized, appErrors.AuthTokenInvalid, "Invalid authorization header")
			c.Abort()
			return
		}
		token := parts[1]

		user, err := m.resolveToken(c, token)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			appErrors.RespondWithError(c, http.StatusUnauthorized, appErrors.AuthTokenInvalid, "Invalid or expired token")
			c.Abort()
			return
		}

		// Role lives in the local profiles table, not in the token, so a
		// role change takes effect on the next request.
		role := model.RoleUser
		profile, err := m.profileRepo.FindByID(user.ID)
		if err == nil {
			role = profile.Role
		}

		c.Set(UserIDKey, user.ID)
		c.Set(UserEmailKey, user.Email)
		c.Set(UserRoleKey, role)

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id": user.ID,
			"email":   user.Email,
			"role":    role,
		})

		c.Next()
	}
}

// resolveToken checks the Redis cache before asking the provider.
func (m *AuthMiddleware) resolveToken(c *gin.Context, token string) (*redis.CachedUser, error) {
	if redis.GetClient() != nil {
		cached, err := redis.GetCachedUser(c.Request.Context(), token)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	user, err := m.provider.GetUser(c.Request.Context(), token)
	if err != nil {
		return nil, err
	}

	resolved := redis.CachedUser{ID: user.ID, Email: user.Email}
	if redis.GetClient() != nil {
		// Best effort; a cache write failure must not fail the request
		_ = redis.CacheUser(c.Request.Context(), token, resolved, m.tokenCacheTTL)
	}

	return &resolved, nil
}

// RequireRole checks if the authenticated user has one of the given roles
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		userRole, exists := c.Get(UserRoleKey)
		if !exists {
			log.Warn("Role information not found in context", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			appErrors.RespondWithError(c, http.StatusForbidden, appErrors.AuthzRoleNotFound, "Role information not found")
			c.Abort()
			return
		}

		role := userRole.(model.UserRole)
		userID, _ := GetUserID(c)

		for _, r := range roles {
			if role == model.UserRole(r) {
				log.Debug("Role check passed", map[string]interface{}{
					"user_id":       userID,
					"user_role":     role,
					"required_role": r,
				})
				c.Next()
				return
			}
		}

		log.Warn("Insufficient permissions", map[string]interface{}{
			"user_id":        userID,
			"user_role":      role,
			"required_roles": roles,
			"path":           c.Request.URL.Path,
		})
		appErrors.Forbidden(c, "Insufficient permissions")
		c.Abort()
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return "", false
	}
	return userID.(string), true
}

// GetUserEmail extracts user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(UserEmailKey)
	if !exists {
		return "", false
	}
	return email.(string), true
}

// GetUserRole extracts user role from context
func GetUserRole(c *gin.Context) (model.UserRole, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	return role.(model.UserRole), true
}
