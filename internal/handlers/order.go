package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/vermakhushbu723/Laundry-Backend/internal/logger"
	"github.com/vermakhushbu723/Laundry-Backend/internal/models"
	"github.com/vermakhushbu723/Laundry-Backend/internal/services"
	"github.com/vermakhushbu723/Laundry-Backend/internal/utils"
)

// OrderHandler manages order and booking endpoints.
type OrderHandler struct {
	orders   *services.OrderService
	notifier services.OrderNotifier
	log      logger.Logger
}

// NewOrderHandler constructs OrderHandler. notifier may be nil.
func NewOrderHandler(orders *services.OrderService, notifier services.OrderNotifier, log logger.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, notifier: notifier, log: log}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// CreateOrder allows authenticated users to place an order.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	return h.create(c, false)
}

// CreateBooking places an order that must carry a pickup slot.
func (h *OrderHandler) CreateBooking(c *fiber.Ctx) error {
	return h.create(c, true)
}

// ListOrders returns orders for authenticated user.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	pg := utils.ParsePagination(c)
	orders, total, err := h.orders.List(c.UserContext(), services.OrderFilter{
		UserID: user.ID,
		Status: c.Query("status"),
		Page:   pg,
	})
	if err != nil {
		return err
	}
	return okPage(c, orders, pg, total)
}

// GetOrder returns a single order for the authenticated user.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orders.GetForUser(c.UserContext(), user.ID, id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, order)
}

// CancelOrder cancels one of the caller's orders.
func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orders.Cancel(c.UserContext(), user.ID, id)
	if err != nil {
		return err
	}

	h.notify(order, "cancellation", func(n services.OrderNotifier, o *models.Order) error {
		return n.NotifyOrderCancelled(o)
	})
	return okMessage(c, "order cancelled", order)
}

// UpdateOrderStatus sets the status of any order. Admin only.
func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	order, err := h.orders.UpdateStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return err
	}
	return okMessage(c, "order status updated", order)
}

// ListAllOrders returns every order with status and search filters. Admin only.
func (h *OrderHandler) ListAllOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	orders, total, err := h.orders.List(c.UserContext(), services.OrderFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   pg,
	})
	if err != nil {
		return err
	}
	return okPage(c, orders, pg, total)
}

// OrderStats returns counts per status and revenue. Admin only.
func (h *OrderHandler) OrderStats(c *fiber.Ctx) error {
	stats, err := h.orders.Stats(c.UserContext(), uuid.Nil)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, stats)
}

// RescheduleBooking changes pickup details of one of the caller's bookings.
func (h *OrderHandler) RescheduleBooking(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "orderId")
	if err != nil {
		return err
	}

	var patch services.ReschedulePatch
	if err := parseBody(c, &patch); err != nil {
		return err
	}

	order, err := h.orders.Reschedule(c.UserContext(), user.ID, id, patch)
	if err != nil {
		return err
	}
	return okMessage(c, "booking updated", order)
}

func (h *OrderHandler) create(c *fiber.Ctx, booking bool) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req services.OrderInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	order, err := h.orders.Create(c.UserContext(), user, req, booking)
	if err != nil {
		return err
	}

	h.notify(order, "new order", func(n services.OrderNotifier, o *models.Order) error {
		return n.NotifyNewOrder(o)
	})
	return ok(c, fiber.StatusCreated, order)
}

// notify runs send in the background; a failed notification never fails the request.
func (h *OrderHandler) notify(order *models.Order, event string, send func(services.OrderNotifier, *models.Order) error) {
	if h.notifier == nil {
		return
	}

	snapshot := *order
	go func() {
		if err := send(h.notifier, &snapshot); err != nil {
			h.log.WithField("order_id", snapshot.ID).Warn(fmt.Sprintf("telegram %s notification failed: %v", event, err))
		}
	}()
}
