package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vermakhushbu723/Laundry-Backend/internal/services"
	"github.com/vermakhushbu723/Laundry-Backend/internal/utils"
)

// AdminHandler manages admin-only user endpoints.
type AdminHandler struct {
	users *services.UserService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(users *services.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

// ListAllUsers returns users with optional search.
func (h *AdminHandler) ListAllUsers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	users, total, err := h.users.List(c.UserContext(), c.Query("search"), pg)
	if err != nil {
		return err
	}
	return okPage(c, users, pg, total)
}

// GetUser returns a user by id.
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.users.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, user)
}

// UpdateUser applies an admin patch.
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var patch services.AdminUserPatch
	if err := parseBody(c, &patch); err != nil {
		return err
	}

	user, err := h.users.AdminUpdate(c.UserContext(), id, patch)
	if err != nil {
		return err
	}
	return okMessage(c, "user updated", user)
}

// DeleteUser removes a user with their synced data.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.users.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return okMessage(c, "user deleted", fiber.Map{"id": id})
}
