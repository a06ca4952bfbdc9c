package services

import (
	"context"
	"errors"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vermakhushbu723/Laundry-Backend/internal/models"
	"github.com/vermakhushbu723/Laundry-Backend/internal/utils"
)

// UserService exposes customer profiles to their owners and to admins.
type UserService struct {
	db *gorm.DB
}

// NewUserService constructs UserService.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// ProfilePatch carries optional profile updates; nil fields are left untouched.
type ProfilePatch struct {
	Name              *string `json:"name"`
	Email             *string `json:"email"`
	Address           *string `json:"address"`
	DeviceToken       *string `json:"deviceToken"`
	SmsPermission     *bool   `json:"smsPermission"`
	ContactPermission *bool   `json:"contactPermission"`
}

// AdminUserPatch extends ProfilePatch with fields only admins may change.
type AdminUserPatch struct {
	ProfilePatch
	IsVerified *bool `json:"isVerified"`
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("user not found")
		}
		return nil, ErrInternal("failed to load user", err)
	}
	return &user, nil
}

// UpdateProfile applies patch and recomputes the profile-complete flag.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) (*models.User, error) {
	return s.apply(ctx, id, patch, nil)
}

// AdminUpdate applies an admin patch.
func (s *UserService) AdminUpdate(ctx context.Context, id uuid.UUID, patch AdminUserPatch) (*models.User, error) {
	return s.apply(ctx, id, patch.ProfilePatch, patch.IsVerified)
}

// List returns users newest first with an optional name or phone search.
func (s *UserService) List(ctx context.Context, search string, page utils.Pagination) ([]models.User, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.User{})
	if search = strings.ToLower(strings.TrimSpace(search)); search != "" {
		pattern := utils.ContainsPattern(search)
		query = query.Where("(LOWER(name) LIKE ? ESCAPE '\\' OR phone_number LIKE ? ESCAPE '\\')", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, ErrInternal("failed to count users", err)
	}

	var users []models.User
	if err := query.Order("created_at desc").Limit(page.Limit).Offset(page.Offset).Find(&users).Error; err != nil {
		return nil, 0, ErrInternal("failed to list users", err)
	}
	return users, total, nil
}

// Delete removes the user with their contacts and messages. Orders are kept.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Contact{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Sms{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound("user not found")
		}
		return nil
	})
	if err == nil || IsKind(err, KindNotFound) {
		return err
	}
	return ErrInternal("failed to delete user", err)
}

func (s *UserService) apply(ctx context.Context, id uuid.UUID, patch ProfilePatch, verified *bool) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		user.Name = strings.TrimSpace(*patch.Name)
		updates["name"] = user.Name
	}
	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if email != "" && !govalidator.IsEmail(email) {
			return nil, ErrValidation("invalid email address")
		}
		updates["email"] = email
	}
	if patch.Address != nil {
		user.Address = strings.TrimSpace(*patch.Address)
		updates["address"] = user.Address
	}
	if patch.DeviceToken != nil {
		updates["device_token"] = *patch.DeviceToken
	}
	if patch.SmsPermission != nil {
		updates["sms_permission"] = *patch.SmsPermission
	}
	if patch.ContactPermission != nil {
		updates["contact_permission"] = *patch.ContactPermission
	}
	if verified != nil {
		updates["is_verified"] = *verified
	}
	if len(updates) == 0 {
		return nil, ErrValidation("no fields to update")
	}
	updates["is_profile_complete"] = user.ProfileComplete()

	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, ErrInternal("failed to update user", err)
	}
	return s.Get(ctx, id)
}
