package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/vermakhushbu723/Laundry-Backend/internal/services"
	"github.com/vermakhushbu723/Laundry-Backend/internal/utils"
)

// ContactHandler manages address-book sync endpoints.
type ContactHandler struct {
	contacts *services.ContactService
}

// NewContactHandler constructs ContactHandler.
func NewContactHandler(contacts *services.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

type syncContactsRequest struct {
	Contacts        []services.ContactInput `json:"contacts"`
	UserPhoneNumber string                  `json:"userPhoneNumber"`
}

// SyncContacts upserts the caller's device contacts.
func (h *ContactHandler) SyncContacts(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req syncContactsRequest
	if err := parseBody(c, &req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "contacts must be a list")
	}

	result, err := h.contacts.Sync(c.UserContext(), user.ID, req.Contacts, req.UserPhoneNumber)
	if err != nil {
		return err
	}
	if result.NothingToDo {
		return okMessage(c, "no contacts to sync", result)
	}
	return okMessage(c, "contacts synced", result)
}

// GetMyContacts lists the caller's contacts.
func (h *ContactHandler) GetMyContacts(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	pg := utils.ParsePagination(c)
	contacts, total, err := h.contacts.ListForUser(c.UserContext(), user.ID, c.Query("search"), pg)
	if err != nil {
		return err
	}
	return okPage(c, contacts, pg, total)
}

// DeleteMyContacts removes the caller's contacts.
func (h *ContactHandler) DeleteMyContacts(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	deleted, err := h.contacts.DeleteForUser(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return okMessage(c, "contacts deleted", fiber.Map{"deleted": deleted})
}

// GetAllContacts lists contacts across users. Admin only.
func (h *ContactHandler) GetAllContacts(c *fiber.Ctx) error {
	filter := services.ContactFilter{
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

	contacts, total, err := h.contacts.ListAll(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return okPage(c, contacts, filter.Page, total)
}
