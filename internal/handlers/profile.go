package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vermakhushbu723/Laundry-Backend/internal/services"
)

// ProfileHandler manages user profile endpoints.
type ProfileHandler struct {
	users  *services.UserService
	orders *services.OrderService
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(users *services.UserService, orders *services.OrderService) *ProfileHandler {
	return &ProfileHandler{users: users, orders: orders}
}

// GetProfile returns authenticated user profile.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, user)
}

// UpdateProfile updates user profile fields.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var patch services.ProfilePatch
	if err := parseBody(c, &patch); err != nil {
		return err
	}

	updated, err := h.users.UpdateProfile(c.UserContext(), user.ID, patch)
	if err != nil {
		return err
	}
	return okMessage(c, "profile updated", updated)
}

// Dashboard returns the caller's order summary.
func (h *ProfileHandler) Dashboard(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	dashboard, err := h.orders.Dashboard(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{
		"user":         user,
		"stats":        dashboard.Stats,
		"recentOrders": dashboard.RecentOrders,
	})
}
