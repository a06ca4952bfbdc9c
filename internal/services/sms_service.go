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

// SmsService stores message logs synced from devices.
type SmsService struct {
	db *gorm.DB
}

// NewSmsService constructs SmsService.
func NewSmsService(db *gorm.DB) *SmsService {
	return &SmsService{db: db}
}

// SmsItem is one message as reported by the device. Date is in epoch milliseconds.
type SmsItem struct {
	SmsID   string `json:"smsId"`
	Address string `json:"address"`
	Body    string `json:"body"`
	Date    int64  `json:"date"`
	Type    string `json:"type"`
}

// SmsItemError names an item that could not be stored.
type SmsItemError struct {
	SmsID   string `json:"smsId"`
	Message string `json:"message"`
}

// SmsBatchResult splits a batch into stored, duplicate and failed items.
type SmsBatchResult struct {
	Total   int            `json:"total"`
	Synced  int            `json:"synced"`
	Skipped int            `json:"skipped"`
	Errors  []SmsItemError `json:"errors"`
}

// SmsFilter narrows message listings.
type SmsFilter struct {
	UserID uuid.UUID
	Type   string
	Search string
	Page   utils.Pagination
}

// SmsStats summarizes stored messages.
type SmsStats struct {
	TotalMessages int64 `json:"totalMessages"`
	Inbox         int64 `json:"inboxMessages"`
	Sent          int64 `json:"sentMessages"`
	Users         int64 `json:"uniqueUsers"`
}

// SyncOne stores item unless the user already has a message with the same
// device id. The returned flag reports whether a row was inserted.
func (s *SmsService) SyncOne(ctx context.Context, userID uuid.UUID, item *SmsItem) (bool, error) {
	if userID == uuid.Nil || item == nil {
		return false, ErrValidation("user id and sms are required")
	}

	created, err := s.store(ctx, userID, *item)
	if err != nil {
		return false, err
	}
	if err := s.grantPermission(ctx, userID); err != nil {
		return false, err
	}
	return created, nil
}

// SyncBatch stores every item it can. A failing item is recorded and the
// rest of the batch continues.
func (s *SmsService) SyncBatch(ctx context.Context, userID uuid.UUID, items []SmsItem) (*SmsBatchResult, error) {
	if userID == uuid.Nil {
		return nil, ErrValidation("user id is required")
	}
	if items == nil {
		return nil, ErrValidation("messages must be a list")
	}

	result := &SmsBatchResult{Total: len(items), Errors: []SmsItemError{}}
	for _, item := range items {
		created, err := s.store(ctx, userID, item)
		switch {
		case err != nil:
			result.Errors = append(result.Errors, SmsItemError{SmsID: item.SmsID, Message: MessageOf(err)})
		case created:
			result.Synced++
		default:
			result.Skipped++
		}
	}

	if len(items) > 0 {
		if err := s.grantPermission(ctx, userID); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ListForUser returns the user's messages, newest first.
func (s *SmsService) ListForUser(ctx context.Context, userID uuid.UUID, filter SmsFilter) ([]models.Sms, int64, error) {
	filter.UserID = userID
	return s.list(ctx, filter)
}

// ListAll returns messages across users, newest first.
func (s *SmsService) ListAll(ctx context.Context, filter SmsFilter) ([]models.Sms, int64, error) {
	return s.list(ctx, filter)
}

// Statistics counts messages by direction and the users that sent any.
func (s *SmsService) Statistics(ctx context.Context) (*SmsStats, error) {
	stats := &SmsStats{}
	count := func(dst *int64, query string, args ...interface{}) error {
		q := s.db.WithContext(ctx).Model(&models.Sms{})
		if query != "" {
			q = q.Where(query, args...)
		}
		return q.Count(dst).Error
	}

	if err := count(&stats.TotalMessages, ""); err != nil {
		return nil, ErrInternal("failed to count sms", err)
	}
	if err := count(&stats.Inbox, "type = ?", models.SmsTypeInbox); err != nil {
		return nil, ErrInternal("failed to count sms", err)
	}
	if err := count(&stats.Sent, "type = ?", models.SmsTypeSent); err != nil {
		return nil, ErrInternal("failed to count sms", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.Sms{}).Distinct("user_id").Count(&stats.Users).Error; err != nil {
		return nil, ErrInternal("failed to count sms users", err)
	}
	return stats, nil
}

// DeleteForUser removes the user's messages and clears the SMS permission.
func (s *SmsService) DeleteForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ?", userID).Delete(&models.Sms{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return tx.Model(&models.User{}).Where("id = ?", userID).Update("sms_permission", false).Error
	})
	if err != nil {
		return 0, ErrInternal("failed to delete sms", err)
	}
	return deleted, nil
}

func (s *SmsService) store(ctx context.Context, userID uuid.UUID, item SmsItem) (bool, error) {
	row, err := smsFromItem(userID, item)
	if err != nil {
		return false, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Sms{}).
		Where("user_id = ? AND sms_id = ?", userID, row.SmsID).
		Count(&count).Error; err != nil {
		return false, ErrInternal("failed to check sms", err)
	}
	if count > 0 {
		return false, nil
	}

	// a concurrent sync of the same message lands here as a no-op
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return false, ErrInternal("failed to store sms", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *SmsService) grantPermission(ctx context.Context, userID uuid.UUID) error {
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Update("sms_permission", true).Error; err != nil {
		return ErrInternal("failed to update sms permission", err)
	}
	return nil
}

func (s *SmsService) list(ctx context.Context, filter SmsFilter) ([]models.Sms, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Sms{})
	if filter.UserID != uuid.Nil {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Type != "" {
		if filter.Type != models.SmsTypeInbox && filter.Type != models.SmsTypeSent {
			return nil, 0, ErrValidation("type must be inbox or sent")
		}
		query = query.Where("type = ?", filter.Type)
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		pattern := utils.ContainsPattern(search)
		query = query.Where("(LOWER(body) LIKE ? ESCAPE '\\' OR LOWER(address) LIKE ? ESCAPE '\\')", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, ErrInternal("failed to count sms", err)
	}

	var messages []models.Sms
	if err := query.Order("date desc").Limit(filter.Page.Limit).Offset(filter.Page.Offset).
		Find(&messages).Error; err != nil {
		return nil, 0, ErrInternal("failed to list sms", err)
	}
	return messages, total, nil
}

func smsFromItem(userID uuid.UUID, item SmsItem) (models.Sms, error) {
	smsID := strings.TrimSpace(item.SmsID)
	if smsID == "" {
		return models.Sms{}, ErrValidation("smsId is required")
	}
	address := strings.TrimSpace(item.Address)
	if address == "" {
		return models.Sms{}, ErrValidation("address is required")
	}
	if item.Date <= 0 {
		return models.Sms{}, ErrValidation("date must be a positive epoch in milliseconds")
	}

	kind := strings.ToLower(strings.TrimSpace(item.Type))
	switch kind {
	case "":
		kind = models.SmsTypeInbox
	case models.SmsTypeInbox, models.SmsTypeSent:
	default:
		return models.Sms{}, ErrValidation("type must be inbox or sent")
	}

	return models.Sms{
		UserID:  userID,
		SmsID:   smsID,
		Address: address,
		Body:    item.Body,
		Date:    time.UnixMilli(item.Date).UTC(),
		Type:    kind,
	}, nil
}

