package service

import (
	"context"
	"errors"

	"github.com/mixtales/mixtales-backend/internal/app/model"
	"github.com/mixtales/mixtales-backend/internal/app/repository"
	"github.com/mixtales/mixtales-backend/pkg/identity"
	"github.com/mixtales/mixtales-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// SignupInput captures a registration request.
type SignupInput struct {
	Email    string
	Password string
	FullName string
}

// UpdateProfileInput carries the editable profile fields. Nil means
// "leave unchanged".
type UpdateProfileInput struct {
	FullName  *string
	AvatarURL *string
}

type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*model.Profile, error)
	Login(ctx context.Context, email, password string) (*identity.Session, *model.Profile, error)
	ForgotPassword(ctx context.Context, email string) error
	GetProfile(userID string) (*model.Profile, error)
	UpdateProfile(userID string, input UpdateProfileInput) (*model.Profile, error)
}

type authService struct {
	profileRepo repository.ProfileRepository
	provider    *identity.Client
}

func NewAuthService(profileRepo repository.ProfileRepository, provider *identity.Client) AuthService {
	return &authService{
		profileRepo: profileRepo,
		provider:    provider,
	}
}

func (s *authService) Signup(ctx context.Context, input SignupInput) (*model.Profile, error) {
	logger.Info("Signing up new user", map[string]interface{}{
		"email": input.Email,
	})

	existing, err := s.profileRepo.FindByEmail(input.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing profile", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, err
	}
	if existing != nil {
		logger.Warn("Signup rejected: email already registered", map[string]interface{}{
			"email": input.Email,
		})
		return nil, ErrEmailAlreadyExists
	}

	user, err := s.provider.AdminCreateUser(ctx, identity.CreateUserRequest{
		Email:    input.Email,
		Password: input.Password,
		UserMetadata: map[string]string{
			"full_name": input.FullName,
		},
	})
	if err != nil {
		if errors.Is(err, identity.ErrSignupRejected) {
			logger.Warn("Signup rejected by identity provider", map[string]interface{}{
				"email": input.Email,
			})
			return nil, ErrEmailAlreadyExists
		}
		logger.Error("Failed to create user at identity provider", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, err
	}

	profile := &model.Profile{
		ID:       user.ID,
		Email:    input.Email,
		FullName: input.FullName,
		Role:     model.RoleUser,
	}
	if err := s.profileRepo.Create(profile); err != nil {
		logger.Error("Failed to create profile", err, map[string]interface{}{
			"user_id": user.ID,
			"email":   input.Email,
		})
		return nil, err
	}

	logger.Info("User signed up successfully", map[string]interface{}{
		"user_id": profile.ID,
		"email":   profile.Email,
	})
	return profile, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*identity.Session, *model.Profile, error) {
	logger.Info("Logging in user", map[string]interface{}{
		"email": email,
	})

	session, err := s.provider.SignInWithPassword(ctx, identity.PasswordGrantRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			logger.Warn("Login rejected: invalid credentials", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to sign in at identity provider", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	profile, err := s.profileRepo.FindByID(session.User.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to fetch profile on login", err, map[string]interface{}{
				"user_id": session.User.ID,
			})
			return nil, nil, err
		}

		// Account exists at the provider but has no local profile yet,
		// e.g. created before this backend took over. Backfill it.
		profile = &model.Profile{
			ID:       session.User.ID,
			Email:    session.User.Email,
			FullName: session.User.UserMetadata["full_name"],
			Role:     model.RoleUser,
		}
		if err := s.profileRepo.Create(profile); err != nil {
			logger.Error("Failed to backfill profile on login", err, map[string]interface{}{
				"user_id": session.User.ID,
			})
			return nil, nil, err
		}
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": profile.ID,
	})
	return session, profile, nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	logger.Info("Requesting password recovery", map[string]interface{}{
		"email": email,
	})

	if err := s.provider.SendRecoveryEmail(ctx, email); err != nil {
		logger.Error("Failed to request password recovery", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	return nil
}

func (s *authService) GetProfile(userID string) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		logger.Error("Failed to fetch profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return profile, nil
}

func (s *authService) UpdateProfile(userID string, input UpdateProfileInput) (*model.Profile, error) {
	logger.Info("Updating profile", map[string]interface{}{
		"user_id": userID,
	})

	profile, err := s.profileRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		logger.Error("Failed to fetch profile for update", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if input.FullName != nil {
		profile.FullName = *input.FullName
	}
	if input.AvatarURL != nil {
		profile.AvatarURL = *input.AvatarURL
	}

	if err := s.profileRepo.Update(profile); err != nil {
		logger.Error("Failed to update profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Profile updated successfully", map[string]interface{}{
		"user_id": userID,
	})
	return profile, nil
}
