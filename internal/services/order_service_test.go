package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vermakhushbu723/Laundry-Backend/internal/models"
	"github.com/vermakhushbu723/Laundry-Backend/internal/testutil"
	"github.com/vermakhushbu723/Laundry-Backend/internal/utils"
)

func createUser(t *testing.T, db *gorm.DB, phone string) *models.User {
	t.Helper()
	user := &models.User{PhoneNumber: phone, Name: "Asha", Address: "12 MG Road", IsVerified: true}
	require.NoError(t, db.Create(user).Error)
	return user
}

func setStatus(t *testing.T, db *gorm.DB, id uuid.UUID, status string) {
	t.Helper()
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", id).Update("status", status).Error)
}

func TestOrderCreate(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewOrderService(db)
	ctx := context.Background()
	user := createUser(t, db, "9876543210")

	_, err := svc.Create(ctx, user, OrderInput{PickupDate: "2026-01-10"}, false)
	assert.True(t, IsKind(err, KindValidation))

	_, err = svc.Create(ctx, user, OrderInput{ServiceName: "Wash"}, false)
	assert.True(t, IsKind(err, KindValidation))

	_, err = svc.Create(ctx, user, OrderInput{ServiceName: "Wash", PickupDate: "10/01/2026"}, false)
	assert.True(t, IsKind(err, KindValidation))

	negative := -1.0
	_, err = svc.Create(ctx, user, OrderInput{ServiceName: "Wash", PickupDate: "2026-01-10", Amount: &negative}, false)
	assert.True(t, IsKind(err, KindValidation))

	order, err := svc.Create(ctx, user, OrderInput{ServiceID: "legacy-42", ServiceName: "Wash", PickupDate: "2026-01-10"}, false)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "legacy-42", order.ServiceID)
	assert.Equal(t, "12 MG Road", order.Address)
	assert.Equal(t, "Asha", order.CustomerName)
	assert.Equal(t, "9876543210", order.CustomerPhone)
}

func TestOrderCreateFillsFromCatalog(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewOrderService(db)
	ctx := context.Background()
	user := createUser(t, db, "9876543210")

	item, err := NewCatalogService(db).Create(ctx, ServiceInput{Name: "Dry Clean", Price: 150})
	require.NoError(t, err)

	order, err := svc.Create(ctx, user, OrderInput{ServiceID: item.ID.String(), PickupDate: "2026-01-10"}, false)
	require.NoError(t, err)
	assert.Equal(t, "Dry Clean", order.ServiceName)
	assert.Equal(t, 150.0, order.Amount)

	// the order keeps its denormalized name after the catalog entry goes away
	require.NoError(t, NewCatalogService(db).Delete(ctx, item.ID))
	loaded, err := svc.GetForUser(ctx, user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dry Clean", loaded.ServiceName)
}

func TestOrderCreateCatalogLookupFailure(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewOrderService(db)
	ctx := context.Background()
	user := createUser(t, db, "9876543210")

	// an unknown service id is just an opaque reference
	_, err := svc.Create(ctx, user, OrderInput{ServiceID: uuid.NewString(), PickupDate: "2026-01-10"}, false)
	assert.True(t, IsKind(err, KindValidation))

	require.NoError(t, db.Migrator().DropTable(&models.Service{}))
	_, err = svc.Create(ctx, user, OrderInput{ServiceID: uuid.NewString(), PickupDate: "2026-01-10"}, false)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindInternal))
	assert.Equal(t, "failed to load service", MessageOf(err))
}

func TestBookingRequiresPickupTime(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewOrderService(db)
	user := createUser(t, db, "9876543210")

	_, err := svc.Create(context.Background(), user, OrderInput{ServiceName: "Wash", PickupDate: "2026-01-10"}, true)
	assert.True(t, IsKind(err, KindValidation))

	booking, err := svc.Create(context.Background(), user, OrderInput{
		ServiceName: "Wash",
		PickupDate:  "2026-01-10T09:00:00Z",
		PickupTime:  "09:00-11:00",
	}, true)
	require.NoError(t, err)
	assert.Equal(t, "09:00-11:00", booking.PickupTime)
}

func TestOrderCancel(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewOrderService(db)
	ctx := context.Background()
	user := createUser(t, db, "9876543210")

	for _, status := range []string{models.OrderStatusPending, models.OrderStatusPicked, models.OrderStatusInProcess} {
		order, err := svc.Create(ctx, user, OrderInput{ServiceName: "Wash", PickupDate: "2026-01-10"}, false)
		require.NoError(t, err)
		setStatus(t, db, order.ID, status)

		cancelled, err := svc.Cancel(ctx, user.ID, order.ID)
		require.NoError(t, err, status)
		assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	}

	for _, status := range []string{models.OrderStatusDelivered, models.OrderStatusCancelled} {
		order, err := svc.Create(ctx, user, OrderInput{ServiceName: "Wash", PickupDate: "2026-01-10"}, false)
		require.NoError(t, err)
		setStatus(t, db, order.ID, status)

		_, err = svc.Cancel(ctx, user.ID, order.ID)
		assert.True(t, IsKind(err, KindInvalidState), status)

		var stored models.Order
		require.NoError(t, db.First(&stored, "id = ?", order.ID).Error)
		assert.Equal(t, status, stored.Status)
	}
}

func TestOrderOwnership(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewOrderService(db)
	ctx := context.Background()
	owner := createUser(t, db, "9876543210")
	other := createUser(t, db, "9123456789")

	order, err := svc.Create(ctx, owner, OrderInput{ServiceName: "Wash", PickupDate: "2026-01-10"}, false)
	require.NoError(t, err)

	_, err = svc.GetForUser(ctx, other.ID, order.ID)
	assert.True(t, IsKind(err, KindForbidden))

	_, err = svc.Cancel(ctx, other.ID, order.ID)
	assert.True(t, IsKind(err, KindForbidden))

	_, err = svc.GetForUser(ctx, owner.ID, uuid.New())
	assert.True(t, IsKind(err, KindNotFound))
}

func TestOrderUpdateStatusIsPermissive(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewOrderService(db)
	ctx := context.Background()
	user := createUser(t, db, "9876543210")

	order, err := svc.Create(ctx, user, OrderInput{ServiceName: "Wash", PickupDate: "2026-01-10"}, false)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, order.ID, "lost")
	assert.True(t, IsKind(err, KindValidation))

	updated, err := svc.UpdateStatus(ctx, order.ID, models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, updated.Status)

	updated, err = svc.UpdateStatus(ctx, order.ID, models.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, updated.Status)

	_, err = svc.UpdateStatus(ctx, uuid.New(), models.OrderStatusPicked)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestBookingReschedule(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewOrderService(db)
	ctx := context.Background()
	user := createUser(t, db, "9876543210")

	booking, err := svc.Create(ctx, user, OrderInput{ServiceName: "Wash", PickupDate: "2026-01-10", PickupTime: "09:00"}, true)
	require.NoError(t, err)

	_, err = svc.Reschedule(ctx, user.ID, booking.ID, ReschedulePatch{})
	assert.True(t, IsKind(err, KindValidation))

	date := "2026-01-12"
	slot := "14:00"
	updated, err := svc.Reschedule(ctx, user.ID, booking.ID, ReschedulePatch{PickupDate: &date, PickupTime: &slot})
	require.NoError(t, err)
	assert.Equal(t, "14:00", updated.PickupTime)
	assert.Equal(t, 12, updated.PickupDate.Day())

	setStatus(t, db, booking.ID, models.OrderStatusInProcess)
	_, err = svc.Reschedule(ctx, user.ID, booking.ID, ReschedulePatch{PickupTime: &slot})
	assert.True(t, IsKind(err, KindInvalidState))
}

func TestOrderListStatsAndDashboard(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewOrderService(db)
	ctx := context.Background()
	asha := createUser(t, db, "9876543210")
	ravi := createUser(t, db, "9123456789")

	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	for i, amount := range []float64{100, 200, 300, 400, 500, 600} {
		at := base.Add(time.Duration(i) * time.Hour)
		svc.now = func() time.Time { return at }
		a := amount
		_, err := svc.Create(ctx, asha, OrderInput{ServiceName: "Wash", PickupDate: "2026-01-10", Amount: &a}, false)
		require.NoError(t, err)
	}
	other, err := svc.Create(ctx, ravi, OrderInput{ServiceName: "Iron", PickupDate: "2026-01-10"}, false)
	require.NoError(t, err)

	mine, total, err := svc.List(ctx, OrderFilter{UserID: asha.ID, Page: utils.NewPagination(1, 4)})
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
	require.Len(t, mine, 4)
	assert.Equal(t, 600.0, mine[0].Amount)

	_, err = svc.Cancel(ctx, asha.ID, mine[0].ID)
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.Total)
	assert.Equal(t, int64(6), stats.ByStatus[models.OrderStatusPending])
	assert.Equal(t, int64(1), stats.ByStatus[models.OrderStatusCancelled])
	assert.Equal(t, int64(0), stats.ByStatus[models.OrderStatusDelivered])
	assert.Equal(t, 1500.0, stats.Revenue)

	cancelled, total, err := svc.List(ctx, OrderFilter{Status: models.OrderStatusCancelled, Page: utils.NewPagination(1, 10)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, mine[0].ID, cancelled[0].ID)

	found, _, err := svc.List(ctx, OrderFilter{Search: "IRON", Page: utils.NewPagination(1, 10)})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, other.ID, found[0].ID)

	_, _, err = svc.List(ctx, OrderFilter{Status: "lost", Page: utils.NewPagination(1, 10)})
	assert.True(t, IsKind(err, KindValidation))

	dash, err := svc.Dashboard(ctx, asha.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), dash.Stats.Total)
	assert.Len(t, dash.RecentOrders, recentOrdersLimit)
}
