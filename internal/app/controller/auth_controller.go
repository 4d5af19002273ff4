package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mixtales/mixtales-backend/internal/app/service"
	appErrors "github.com/mixtales/mixtales-backend/internal/errors"
	"github.com/mixtales/mixtales-backend/internal/middleware"
	"github.com/mixtales/mixtales-backend/pkg/identity"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type UpdateProfileRequest struct {
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

// Signup registers a new account
// POST /api/auth/signup
func (ctrl *AuthController) Signup(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid signup request", map[string]interface{}{
			"error": err.Error(),
		})
		appErrors.BadRequest(c, appErrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	profile, err := ctrl.authService.Signup(c.Request.Context(), service.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			log.Warn("Signup rejected: email already registered", map[string]interface{}{
				"email": req.Email,
			})
			appErrors.RespondWithError(c, http.StatusConflict, appErrors.AuthSignupFailed, "Email already registered")
			return
		}
		if errors.Is(err, identity.ErrProviderUnavailable) {
			log.Error("Identity provider unavailable during signup", err, nil)
			appErrors.RespondWithError(c, http.StatusServiceUnavailable, appErrors.AuthProviderError, "Authentication service unavailable")
			return
		}
		log.Error("Failed to sign up user", err, map[string]interface{}{
			"email": req.Email,
		})
		appErrors.InternalError(c, "Failed to create account")
		return
	}

	log.Info("User signed up successfully", map[string]interface{}{
		"user_id": profile.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"data": profile,
	})
}

// Login exchanges credentials for a session
// POST /api/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		appErrors.BadRequest(c, appErrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	session, profile, err := ctrl.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Warn("Login rejected", map[string]interface{}{
				"email": req.Email,
			})
			appErrors.RespondWithError(c, http.StatusUnauthorized, appErrors.AuthInvalidCredentials, "Invalid email or password")
			return
		}
		if errors.Is(err, identity.ErrProviderUnavailable) {
			log.Error("Identity provider unavailable during login", err, nil)
			appErrors.RespondWithError(c, http.StatusServiceUnavailable, appErrors.AuthProviderError, "Authentication service unavailable")
			return
		}
		log.Error("Failed to log in user", err, map[string]interface{}{
			"email": req.Email,
		})
		appErrors.InternalError(c, "Failed to log in")
		return
	}

	log.Info("User logged in successfully", map[string]interface{}{
		"user_id": profile.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"access_token":  session.AccessToken,
			"refresh_token": session.RefreshToken,
			"expires_in":    session.ExpiresIn,
			"user":          profile,
		},
	})
}

// ForgotPassword triggers a password recovery email
// POST /api/auth/forgot-password
func (ctrl *AuthController) ForgotPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErrors.BadRequest(c, appErrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	if err := ctrl.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		log.Error("Failed to request password recovery", err, map[string]interface{}{
			"email": req.Email,
		})
		appErrors.InternalError(c, "Failed to send recovery email")
		return
	}

	// Same response whether or not the address exists
	c.JSON(http.StatusOK, gin.H{
		"message": "If the email is registered, a recovery link has been sent",
	})
}

// GetProfile returns the authenticated user's profile
// GET /api/auth/me
func (ctrl *AuthController) GetProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		appErrors.Unauthorized(c, "")
		return
	}

	profile, err := ctrl.authService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			appErrors.NotFound(c, appErrors.AuthUnauthorized, "Profile not found")
			return
		}
		log.Error("Failed to fetch profile", err, map[string]interface{}{
			"user_id": userID,
		})
		appErrors.InternalError(c, "Failed to fetch profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": profile,
	})
}

// UpdateProfile updates the authenticated user's profile
// PUT /api/auth/me
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		appErrors.Unauthorized(c, "")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid profile update request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		appErrors.BadRequest(c, appErrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	profile, err := ctrl.authService.UpdateProfile(userID, service.UpdateProfileInput{
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			appErrors.NotFound(c, appErrors.AuthUnauthorized, "Profile not found")
			return
		}
		log.Error("Failed to update profile", err, map[string]interface{}{
			"user_id": userID,
		})
		appErrors.InternalError(c, "Failed to update profile")
		return
	}

	log.Info("Profile updated successfully", map[string]interface{}{
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"data": profile,
	})
}
