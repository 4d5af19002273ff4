package repository

import (
	"github.com/mixtales/mixtales-backend/internal/app/model"
	"github.com/mixtales/mixtales-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(profile *model.Profile) error
	FindAll(page, limit int) ([]model.Profile, int64, error)
	FindByID(id string) (*model.Profile, error)
	FindByEmail(email string) (*model.Profile, error)
	Update(profile *model.Profile) error
	UpdateRole(id string, role model.UserRole) error
	Count() (int64, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(profile *model.Profile) error {
	logger.Debug("Creating profile in database", map[string]interface{}{
		"user_id": profile.ID,
		"email":   profile.Email,
	})

	if err := r.db.Create(profile).Error; err != nil {
		logger.Error("Failed to create profile in database", err, map[string]interface{}{
			"user_id": profile.ID,
			"email":   profile.Email,
		})
		return err
	}

	logger.Debug("Profile created in database", map[string]interface{}{
		"user_id": profile.ID,
	})
	return nil
}

func (r *profileRepository) FindAll(page, limit int) ([]model.Profile, int64, error) {
	logger.Debug("Finding profiles in database", map[string]interface{}{
		"page":  page,
		"limit": limit,
	})

	query := r.db.Model(&model.Profile{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count profiles in database", err, nil)
		return nil, 0, err
	}

	if page > 0 && limit > 0 {
		query = query.Offset((page - 1) * limit).Limit(limit)
	}

	var profiles []model.Profile
	if err := query.Order("created_at DESC").Find(&profiles).Error; err != nil {
		logger.Error("Failed to find profiles in database", err, nil)
		return nil, 0, err
	}

	return profiles, total, nil
}

func (r *profileRepository) FindByID(id string) (*model.Profile, error) {
	logger.Debug("Finding profile by ID in database", map[string]interface{}{
		"user_id": id,
	})

	var profile model.Profile
	if err := r.db.Where("id = ?", id).First(&profile).Error; err != nil {
		logger.Error("Failed to find profile by ID in database", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepository) FindByEmail(email string) (*model.Profile, error) {
	logger.Debug("Finding profile by email in database", map[string]interface{}{
		"email": email,
	})

	var profile model.Profile
	if err := r.db.Where("email = ?", email).First(&profile).Error; err != nil {
		logger.Error("Failed to find profile by email in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepository) Update(profile *model.Profile) error {
	logger.Debug("Updating profile in database", map[string]interface{}{
		"user_id": profile.ID,
	})

	if err := r.db.Save(profile).Error; err != nil {
		logger.Error("Failed to update profile in database", err, map[string]interface{}{
			"user_id": profile.ID,
		})
		return err
	}

	logger.Debug("Profile updated in database", map[string]interface{}{
		"user_id": profile.ID,
	})
	return nil
}

func (r *profileRepository) UpdateRole(id string, role model.UserRole) error {
	logger.Debug("Updating profile role in database", map[string]interface{}{
		"user_id": id,
		"role":    role,
	})

	if err := r.db.Model(&model.Profile{}).Where("id = ?", id).
		Update("role", role).Error; err != nil {
		logger.Error("Failed to update profile role in database", err, map[string]interface{}{
			"user_id": id,
			"role":    role,
		})
		return err
	}

	return nil
}

func (r *profileRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Profile{}).Count(&count).Error; err != nil {
		logger.Error("Failed to count profiles in database", err, nil)
		return 0, err
	}
	return count, nil
}
