package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vermakhushbu723/Laundry-Backend/internal/models"
	"github.com/vermakhushbu723/Laundry-Backend/internal/utils"
)

const (
	contactBatchSize = 200
	selfContactName  = "Me"
)

// ContactService merges device address books into the contacts table.
type ContactService struct {
	db     *gorm.DB
	region string
	now    func() time.Time
}

// NewContactService constructs ContactService. region is the default
// region used to normalize numbers written without a country code.
func NewContactService(db *gorm.DB, region string) *ContactService {
	return &ContactService{db: db, region: region, now: time.Now}
}

// ContactInput is one address-book entry sent by the device.
type ContactInput struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
}

// ContactSyncResult reports what a sync call did.
type ContactSyncResult struct {
	NothingToDo bool `json:"nothingToDo"`
	Total       int  `json:"total"`
	Inserted    int  `json:"inserted"`
	Updated     int  `json:"updated"`
	Dropped     int  `json:"dropped"`
}

// ContactFilter narrows contact listings.
type ContactFilter struct {
	UserID uuid.UUID
	Search string
	Page   utils.Pagination
}

// Sync upserts contacts for userID keyed on phone number. A nil slice is
// rejected; an empty one is reported as nothing to do. Re-sending the same
// batch converges on the same rows.
func (s *ContactService) Sync(ctx context.Context, userID uuid.UUID, contacts []ContactInput, ownPhoneNumber string) (*ContactSyncResult, error) {
	if contacts == nil {
		return nil, ErrValidation("contacts must be a list")
	}
	if len(contacts) == 0 {
		return &ContactSyncResult{NothingToDo: true}, nil
	}

	if own := strings.TrimSpace(ownPhoneNumber); own != "" {
		contacts = append(contacts, ContactInput{Name: selfContactName, PhoneNumber: own})
	}

	now := s.now()
	rows, order, dropped := s.collapse(userID, contacts, now)
	result := &ContactSyncResult{Total: len(contacts), Dropped: dropped}

	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Update("contact_permission", true).Error; err != nil {
		return nil, ErrInternal("failed to update contact permission", err)
	}

	if len(rows) == 0 {
		return result, nil
	}

	var existing []string
	if err := s.db.WithContext(ctx).Model(&models.Contact{}).
		Where("user_id = ? AND phone_number IN ?", userID, order).
		Pluck("phone_number", &existing).Error; err != nil {
		return nil, ErrInternal("failed to load contacts", err)
	}

	batch := make([]models.Contact, 0, len(rows))
	for _, phone := range order {
		batch = append(batch, rows[phone])
	}

	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "phone_number"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "synced_at", "updated_at"}),
	}).CreateInBatches(&batch, contactBatchSize).Error; err != nil {
		return nil, ErrInternal("failed to sync contacts", err)
	}

	result.Updated = len(existing)
	result.Inserted = len(batch) - len(existing)
	return result, nil
}

// ListForUser returns the user's contacts sorted by name.
func (s *ContactService) ListForUser(ctx context.Context, userID uuid.UUID, search string, page utils.Pagination) ([]models.Contact, int64, error) {
	return s.list(ctx, ContactFilter{UserID: userID, Search: search, Page: page}, "name asc")
}

// ListAll returns contacts across users, newest first.
func (s *ContactService) ListAll(ctx context.Context, filter ContactFilter) ([]models.Contact, int64, error) {
	return s.list(ctx, filter, "created_at desc")
}

// DeleteForUser removes every contact of userID and clears the contact permission.
func (s *ContactService) DeleteForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ?", userID).Delete(&models.Contact{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return tx.Model(&models.User{}).Where("id = ?", userID).Update("contact_permission", false).Error
	})
	if err != nil {
		return 0, ErrInternal("failed to delete contacts", err)
	}
	return deleted, nil
}

func (s *ContactService) list(ctx context.Context, filter ContactFilter, orderBy string) ([]models.Contact, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Contact{})
	if filter.UserID != uuid.Nil {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		pattern := utils.ContainsPattern(search)
		query = query.Where("(LOWER(name) LIKE ? ESCAPE '\\' OR phone_number LIKE ? ESCAPE '\\')", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, ErrInternal("failed to count contacts", err)
	}

	var contacts []models.Contact
	if err := query.Order(orderBy).Limit(filter.Page.Limit).Offset(filter.Page.Offset).
		Find(&contacts).Error; err != nil {
		return nil, 0, ErrInternal("failed to list contacts", err)
	}
	return contacts, total, nil
}

// collapse normalizes numbers and keeps the last entry per number, in
// first-seen order. Entries without a usable number are counted as dropped.
func (s *ContactService) collapse(userID uuid.UUID, contacts []ContactInput, now time.Time) (map[string]models.Contact, []string, int) {
	rows := make(map[string]models.Contact, len(contacts))
	order := make([]string, 0, len(contacts))
	dropped := 0

	for _, in := range contacts {
		phone := utils.NormalizePhone(in.PhoneNumber, s.region)
		if phone == "" {
			dropped++
			continue
		}
		if _, seen := rows[phone]; !seen {
			order = append(order, phone)
		}
		rows[phone] = models.Contact{
			UserID:      userID,
			Name:        strings.TrimSpace(in.Name),
			PhoneNumber: phone,
			Email:       strings.TrimSpace(in.Email),
			SyncedAt:    now,
		}
	}
	return rows, order, dropped
}
