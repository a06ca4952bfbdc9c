package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vermakhushbu723/Laundry-Backend/internal/services"
)

// CatalogHandler manages the laundry service catalog.
type CatalogHandler struct {
	catalog *services.CatalogService
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListServices returns active services, or every service with ?all=true.
func (h *CatalogHandler) ListServices(c *fiber.Ctx) error {
	items, err := h.catalog.List(c.UserContext(), c.QueryBool("all", false))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, items)
}

// GetService returns a single service by ID.
func (h *CatalogHandler) GetService(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	item, err := h.catalog.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, item)
}

// CreateService adds a service.
func (h *CatalogHandler) CreateService(c *fiber.Ctx) error {
	var req services.ServiceInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	item, err := h.catalog.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, item)
}

// UpdateService patches a service.
func (h *CatalogHandler) UpdateService(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var patch services.ServicePatch
	if err := parseBody(c, &patch); err != nil {
		return err
	}

	item, err := h.catalog.Update(c.UserContext(), id, patch)
	if err != nil {
		return err
	}
	return okMessage(c, "service updated", item)
}

// DeleteService hides a service from the public catalog.
func (h *CatalogHandler) DeleteService(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	item, err := h.catalog.Deactivate(c.UserContext(), id)
	if err != nil {
		return err
	}
	return okMessage(c, "service deactivated", item)
}

// PermanentDeleteService removes a service for good.
func (h *CatalogHandler) PermanentDeleteService(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.catalog.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return okMessage(c, "service deleted", fiber.Map{"id": id})
}

// ToggleService flips the active flag.
func (h *CatalogHandler) ToggleService(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	item, err := h.catalog.Toggle(c.UserContext(), id)
	if err != nil {
		return err
	}
	return okMessage(c, "service status updated", item)
}
