package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vermakhushbu723/Laundry-Backend/internal/models"
	"github.com/vermakhushbu723/Laundry-Backend/internal/utils"
)

const recentOrdersLimit = 5

var pickupDateLayouts = []string{"2006-01-02", time.RFC3339}

// OrderService manages orders and bookings.
type OrderService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewOrderService constructs OrderService.
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db, now: time.Now}
}

// OrderInput is the payload for a new order or booking.
type OrderInput struct {
	ServiceID   string   `json:"serviceId"`
	ServiceName string   `json:"serviceName"`
	PickupDate  string   `json:"pickupDate"`
	PickupTime  string   `json:"pickupTime"`
	Amount      *float64 `json:"amount"`
	Address     string   `json:"address"`
	Notes       string   `json:"notes"`
}

// ReschedulePatch carries optional booking changes.
type ReschedulePatch struct {
	PickupDate *string `json:"pickupDate"`
	PickupTime *string `json:"pickupTime"`
	Address    *string `json:"address"`
	Notes      *string `json:"notes"`
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	UserID uuid.UUID
	Status string
	Search string
	Page   utils.Pagination
}

// OrderStats aggregates order counts.
type OrderStats struct {
	Total    int64            `json:"totalOrders"`
	ByStatus map[string]int64 `json:"ordersByStatus"`
	Revenue  float64          `json:"totalRevenue"`
}

// UserDashboard is the home screen summary for a customer.
type UserDashboard struct {
	Stats        OrderStats     `json:"stats"`
	RecentOrders []models.Order `json:"recentOrders"`
}

// Create places an order for user. Bookings additionally require a pickup time.
func (s *OrderService) Create(ctx context.Context, user *models.User, in OrderInput, requirePickupTime bool) (*models.Order, error) {
	serviceName := strings.TrimSpace(in.ServiceName)
	amount := 0.0

	// the reference stays opaque; a catalog match only fills defaults
	catalog, err := s.lookupService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if catalog != nil {
		if serviceName == "" {
			serviceName = catalog.Name
		}
		amount = catalog.Price
	}

	if serviceName == "" {
		return nil, ErrValidation("serviceId or serviceName is required")
	}
	if in.PickupDate == "" {
		return nil, ErrValidation("pickupDate is required")
	}
	pickupDate, err := parsePickupDate(in.PickupDate)
	if err != nil {
		return nil, err
	}
	if requirePickupTime && strings.TrimSpace(in.PickupTime) == "" {
		return nil, ErrValidation("pickupTime is required")
	}

	address := strings.TrimSpace(in.Address)
	if address == "" {
		address = user.Address
	}
	if address == "" {
		return nil, ErrValidation("address is required")
	}

	if in.Amount != nil {
		amount = *in.Amount
	}
	if amount < 0 {
		return nil, ErrValidation("amount cannot be negative")
	}

	order := models.Order{
		UserID:        user.ID,
		ServiceID:     in.ServiceID,
		ServiceName:   serviceName,
		PickupDate:    pickupDate,
		PickupTime:    strings.TrimSpace(in.PickupTime),
		Status:        models.OrderStatusPending,
		Amount:        amount,
		Address:       address,
		Notes:         in.Notes,
		CustomerName:  user.Name,
		CustomerPhone: user.PhoneNumber,
		PlacedAt:      s.now(),
	}

	if err := s.db.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, ErrInternal("failed to create order", err)
	}
	return &order, nil
}

// List returns a page of orders matching filter, newest first.
func (s *OrderService) List(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{})

	if filter.UserID != uuid.Nil {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		if !models.ValidOrderStatus(filter.Status) {
			return nil, 0, ErrValidation("invalid status filter")
		}
		query = query.Where("status = ?", filter.Status)
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		pattern := utils.ContainsPattern(search)
		query = query.Where(
			"(LOWER(customer_name) LIKE ? ESCAPE '\\' OR customer_phone LIKE ? ESCAPE '\\' OR LOWER(service_name) LIKE ? ESCAPE '\\')",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, ErrInternal("failed to count orders", err)
	}

	var orders []models.Order
	if err := query.Order("placed_at desc").
		Limit(filter.Page.Limit).Offset(filter.Page.Offset).
		Find(&orders).Error; err != nil {
		return nil, 0, ErrInternal("failed to list orders", err)
	}
	return orders, total, nil
}

// GetForUser returns an order owned by userID.
func (s *OrderService) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrForbidden("you do not have access to this order")
	}
	return order, nil
}

// Cancel cancels an order owned by userID unless it is already delivered or cancelled.
func (s *OrderService) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.GetForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Cancellable() {
		return nil, ErrInvalidState("order can not be cancelled once " + order.Status)
	}

	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status NOT IN ?", order.ID, []string{models.OrderStatusDelivered, models.OrderStatusCancelled}).
		Update("status", models.OrderStatusCancelled)
	if res.Error != nil {
		return nil, ErrInternal("failed to cancel order", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidState("order status changed, please refresh")
	}

	order.Status = models.OrderStatusCancelled
	return order, nil
}

// UpdateStatus sets any lifecycle status. Transitions are not restricted.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, ErrValidation("invalid status, expected one of " + strings.Join(models.OrderStatuses, ", "))
	}

	order, err := s.get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", order.ID).
		Update("status", status).Error; err != nil {
		return nil, ErrInternal("failed to update order status", err)
	}

	order.Status = status
	return order, nil
}

// Reschedule lets the owner change pickup details before the laundry is in process.
func (s *OrderService) Reschedule(ctx context.Context, userID, orderID uuid.UUID, patch ReschedulePatch) (*models.Order, error) {
	order, err := s.GetForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusPicked {
		return nil, ErrInvalidState("booking can not be changed once " + order.Status)
	}

	updates := map[string]interface{}{}
	if patch.PickupDate != nil {
		date, err := parsePickupDate(*patch.PickupDate)
		if err != nil {
			return nil, err
		}
		updates["pickup_date"] = date
	}
	if patch.PickupTime != nil {
		updates["pickup_time"] = strings.TrimSpace(*patch.PickupTime)
	}
	if patch.Address != nil {
		address := strings.TrimSpace(*patch.Address)
		if address == "" {
			return nil, ErrValidation("address cannot be empty")
		}
		updates["address"] = address
	}
	if patch.Notes != nil {
		updates["notes"] = *patch.Notes
	}
	if len(updates) == 0 {
		return nil, ErrValidation("no fields to update")
	}

	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
		return nil, ErrInternal("failed to update booking", err)
	}
	return s.get(ctx, order.ID)
}

// Stats counts orders per status. A non-nil userID limits the scope to one customer.
func (s *OrderService) Stats(ctx context.Context, userID uuid.UUID) (*OrderStats, error) {
	scope := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.Order{})
		if userID != uuid.Nil {
			q = q.Where("user_id = ?", userID)
		}
		return q
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	if err := scope().Select("status, count(*) as count").Group("status").Scan(&rows).Error; err != nil {
		return nil, ErrInternal("failed to count orders", err)
	}

	stats := &OrderStats{ByStatus: make(map[string]int64, len(models.OrderStatuses))}
	for _, status := range models.OrderStatuses {
		stats.ByStatus[status] = 0
	}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
		stats.Total += row.Count
	}

	if err := scope().Where("status <> ?", models.OrderStatusCancelled).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&stats.Revenue).Error; err != nil {
		return nil, ErrInternal("failed to sum revenue", err)
	}
	return stats, nil
}

// Dashboard returns the customer's stats and most recent orders.
func (s *OrderService) Dashboard(ctx context.Context, userID uuid.UUID) (*UserDashboard, error) {
	stats, err := s.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}

	orders, _, err := s.List(ctx, OrderFilter{UserID: userID, Page: utils.NewPagination(1, recentOrdersLimit)})
	if err != nil {
		return nil, err
	}
	return &UserDashboard{Stats: *stats, RecentOrders: orders}, nil
}

func (s *OrderService) get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("order not found")
		}
		return nil, ErrInternal("failed to load order", err)
	}
	return &order, nil
}

// lookupService resolves ref to a catalog entry. A ref that is not a known
// service id yields nil without error.
func (s *OrderService) lookupService(ctx context.Context, ref string) (*models.Service, error) {
	id, err := uuid.Parse(ref)
	if err != nil {
		return nil, nil
	}
	var item models.Service
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, ErrInternal("failed to load service", err)
	}
	return &item, nil
}

func parsePickupDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range pickupDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrValidation("pickupDate must be YYYY-MM-DD or RFC3339")
}
