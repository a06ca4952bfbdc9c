package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/vermakhushbu723/Laundry-Backend/internal/middleware"
	"github.com/vermakhushbu723/Laundry-Backend/internal/models"
	"github.com/vermakhushbu723/Laundry-Backend/internal/utils"
)

func ok(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func okMessage(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func okPage(c *fiber.Ctx, data interface{}, pg utils.Pagination, total int64) error {
	return c.JSON(fiber.Map{
		"success":    true,
		"data":       data,
		"pagination": pg.Meta(total),
	})
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+param)
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return nil
}

func currentUser(c *fiber.Ctx) (*models.User, error) {
	user, found := middleware.CurrentUser(c)
	if !found {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	return user, nil
}
