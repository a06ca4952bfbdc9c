package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/vermakhushbu723/Laundry-Backend/internal/services"
	"github.com/vermakhushbu723/Laundry-Backend/internal/utils"
)

// SmsHandler manages message log sync endpoints.
type SmsHandler struct {
	sms *services.SmsService
}

// NewSmsHandler constructs SmsHandler.
func NewSmsHandler(sms *services.SmsService) *SmsHandler {
	return &SmsHandler{sms: sms}
}

type syncBatchRequest struct {
	Messages []services.SmsItem `json:"messages"`
}

// SyncSms stores a single message for the caller.
func (h *SmsHandler) SyncSms(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var item services.SmsItem
	if err := parseBody(c, &item); err != nil {
		return err
	}

	created, err := h.sms.SyncOne(c.UserContext(), user.ID, &item)
	if err != nil {
		return err
	}
	if !created {
		return okMessage(c, "sms already synced", fiber.Map{"synced": false})
	}
	return ok(c, fiber.StatusCreated, fiber.Map{"synced": true})
}

// SyncSmsBatch stores a batch of messages for the caller.
func (h *SmsHandler) SyncSmsBatch(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req syncBatchRequest
	if err := parseBody(c, &req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "messages must be a list")
	}

	result, err := h.sms.SyncBatch(c.UserContext(), user.ID, req.Messages)
	if err != nil {
		return err
	}
	return okMessage(c, "sms batch processed", result)
}

// GetUserSms lists the caller's messages. Callers may only read their own log.
func (h *SmsHandler) GetUserSms(c *fiber.Ctx) error {
	userID, err := h.ownedUserID(c)
	if err != nil {
		return err
	}

	pg := utils.ParsePagination(c)
	messages, total, err := h.sms.ListForUser(c.UserContext(), userID, services.SmsFilter{
		Type:   c.Query("type"),
		Search: c.Query("search"),
		Page:   pg,
	})
	if err != nil {
		return err
	}
	return okPage(c, messages, pg, total)
}

// DeleteUserSms removes the caller's messages.
func (h *SmsHandler) DeleteUserSms(c *fiber.Ctx) error {
	userID, err := h.ownedUserID(c)
	if err != nil {
		return err
	}

	deleted, err := h.sms.DeleteForUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return okMessage(c, "sms deleted", fiber.Map{"deleted": deleted})
}

// GetAllSms lists messages across users. Admin only.
func (h *SmsHandler) GetAllSms(c *fiber.Ctx) error {
	filter := services.SmsFilter{
		Type:   c.Query("type"),
		Search: c.Query("search"),
		Page:   utils.ParsePagination(c),
	}
	if raw := c.Query("userId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid userId")
		}
		filter.UserID = id
	}

	messages, total, err := h.sms.ListAll(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return okPage(c, messages, filter.Page, total)
}

// GetSmsStatistics returns message counts. Admin only.
func (h *SmsHandler) GetSmsStatistics(c *fiber.Ctx) error {
	stats, err := h.sms.Statistics(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, stats)
}

func (h *SmsHandler) ownedUserID(c *fiber.Ctx) (uuid.UUID, error) {
	user, err := currentUser(c)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := parseID(c, "userId")
	if err != nil {
		return uuid.Nil, err
	}
	if id != user.ID {
		return uuid.Nil, services.ErrForbidden("you can only access your own messages")
	}
	return id, nil
}
