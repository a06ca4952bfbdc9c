package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vermakhushbu723/Laundry-Backend/internal/models"
)

const (
	defaultEstimatedDays = 2
	errServiceNameTaken  = "a service with this name already exists"
)

// CatalogService manages the laundry service catalog.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService constructs CatalogService.
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ServiceInput carries the fields of a new catalog entry.
type ServiceInput struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	Icon          string  `json:"icon"`
	Image         string  `json:"image"`
	EstimatedDays int     `json:"estimatedDays"`
}

// ServicePatch carries optional updates; nil fields are left untouched.
type ServicePatch struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	Icon          *string  `json:"icon"`
	Image         *string  `json:"image"`
	EstimatedDays *int     `json:"estimatedDays"`
	IsActive      *bool    `json:"isActive"`
}

// List returns catalog entries ordered by name. Inactive entries are
// included only when includeInactive is set.
func (s *CatalogService) List(ctx context.Context, includeInactive bool) ([]models.Service, error) {
	query := s.db.WithContext(ctx).Model(&models.Service{})
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var items []models.Service
	if err := query.Order("name asc").Find(&items).Error; err != nil {
		return nil, ErrInternal("failed to list services", err)
	}
	return items, nil
}

// Get returns a single catalog entry.
func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var item models.Service
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("service not found")
		}
		return nil, ErrInternal("failed to load service", err)
	}
	return &item, nil
}

// Create validates and stores a new active catalog entry.
func (s *CatalogService) Create(ctx context.Context, in ServiceInput) (*models.Service, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrValidation("service name is required")
	}
	if in.Price < 0 {
		return nil, ErrValidation("price cannot be negative")
	}
	days := in.EstimatedDays
	if days == 0 {
		days = defaultEstimatedDays
	}
	if days < 1 {
		return nil, ErrValidation("estimated days must be at least 1")
	}

	if err := s.ensureNameFree(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}

	item := models.Service{
		Name:          name,
		Description:   in.Description,
		Price:         in.Price,
		Icon:          in.Icon,
		Image:         in.Image,
		IsActive:      true,
		EstimatedDays: days,
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, nameWriteError(err, "failed to create service")
	}
	return &item, nil
}

// Update applies patch field by field.
func (s *CatalogService) Update(ctx context.Context, id uuid.UUID, patch ServicePatch) (*models.Service, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, ErrValidation("service name cannot be empty")
		}
		if err := s.ensureNameFree(ctx, name, item.ID); err != nil {
			return nil, err
		}
		updates["name"] = name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Price != nil {
		if *patch.Price < 0 {
			return nil, ErrValidation("price cannot be negative")
		}
		updates["price"] = *patch.Price
	}
	if patch.Icon != nil {
		updates["icon"] = *patch.Icon
	}
	if patch.Image != nil {
		updates["image"] = *patch.Image
	}
	if patch.EstimatedDays != nil {
		if *patch.EstimatedDays < 1 {
			return nil, ErrValidation("estimated days must be at least 1")
		}
		updates["estimated_days"] = *patch.EstimatedDays
	}
	if patch.IsActive != nil {
		updates["is_active"] = *patch.IsActive
	}
	if len(updates) == 0 {
		return nil, ErrValidation("no fields to update")
	}

	if err := s.db.WithContext(ctx).Model(&models.Service{}).Where("id = ?", item.ID).Updates(updates).Error; err != nil {
		return nil, nameWriteError(err, "failed to update service")
	}
	return s.Get(ctx, item.ID)
}

// Deactivate hides the entry from the public catalog.
func (s *CatalogService) Deactivate(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	return s.setActive(ctx, id, func(bool) bool { return false })
}

// Toggle flips the active flag.
func (s *CatalogService) Toggle(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	return s.setActive(ctx, id, func(active bool) bool { return !active })
}

// Delete removes the entry permanently. Existing orders keep their
// denormalized service name.
func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.Service{}, "id = ?", id)
	if res.Error != nil {
		return ErrInternal("failed to delete service", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound("service not found")
	}
	return nil
}

func (s *CatalogService) setActive(ctx context.Context, id uuid.UUID, next func(bool) bool) (*models.Service, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	item.IsActive = next(item.IsActive)
	if err := s.db.WithContext(ctx).Model(&models.Service{}).Where("id = ?", item.ID).
		Update("is_active", item.IsActive).Error; err != nil {
		return nil, ErrInternal("failed to update service", err)
	}
	return item, nil
}

// nameWriteError reports a unique-index hit as a name conflict. The index
// catches concurrent writers that both passed ensureNameFree.
func nameWriteError(err error, msg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict(errServiceNameTaken)
	}
	return ErrInternal(msg, err)
}

func (s *CatalogService) ensureNameFree(ctx context.Context, name string, except uuid.UUID) error {
	query := s.db.WithContext(ctx).Model(&models.Service{}).Where("LOWER(name) = ?", strings.ToLower(name))
	if except != uuid.Nil {
		query = query.Where("id <> ?", except)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return ErrInternal("failed to check service name", err)
	}
	if count > 0 {
		return ErrConflict(errServiceNameTaken)
	}
	return nil
}
