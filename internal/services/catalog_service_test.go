package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vermakhushbu723/Laundry-Backend/internal/models"
	"github.com/vermakhushbu723/Laundry-Backend/internal/testutil"
)

func TestCatalogCreateValidation(t *testing.T) {
	svc := NewCatalogService(testutil.NewDB(t))
	ctx := context.Background()

	_, err := svc.Create(ctx, ServiceInput{Name: "Wash & Fold", Price: -1})
	assert.True(t, IsKind(err, KindValidation))

	_, err = svc.Create(ctx, ServiceInput{Name: "   ", Price: 10})
	assert.True(t, IsKind(err, KindValidation))

	created, err := svc.Create(ctx, ServiceInput{Name: " Wash & Fold ", Price: 0})
	require.NoError(t, err)
	assert.Equal(t, "Wash & Fold", created.Name)
	assert.Equal(t, 2, created.EstimatedDays)
	assert.True(t, created.IsActive)
}

func TestCatalogNameConflictIncludesInactive(t *testing.T) {
	svc := NewCatalogService(testutil.NewDB(t))
	ctx := context.Background()

	active, err := svc.Create(ctx, ServiceInput{Name: "Dry Clean", Price: 120})
	require.NoError(t, err)

	_, err = svc.Create(ctx, ServiceInput{Name: "dry clean", Price: 99})
	assert.True(t, IsKind(err, KindConflict))

	_, err = svc.Deactivate(ctx, active.ID)
	require.NoError(t, err)

	_, err = svc.Create(ctx, ServiceInput{Name: "Dry Clean", Price: 99})
	assert.True(t, IsKind(err, KindConflict))
}

func TestCatalogUpdate(t *testing.T) {
	svc := NewCatalogService(testutil.NewDB(t))
	ctx := context.Background()

	ironing, err := svc.Create(ctx, ServiceInput{Name: "Ironing", Price: 40})
	require.NoError(t, err)
	_, err = svc.Create(ctx, ServiceInput{Name: "Steam Press", Price: 60})
	require.NoError(t, err)

	negative := -5.0
	_, err = svc.Update(ctx, ironing.ID, ServicePatch{Price: &negative})
	assert.True(t, IsKind(err, KindValidation))

	taken := "Steam Press"
	_, err = svc.Update(ctx, ironing.ID, ServicePatch{Name: &taken})
	assert.True(t, IsKind(err, KindConflict))

	same := "Ironing"
	price := 45.0
	updated, err := svc.Update(ctx, ironing.ID, ServicePatch{Name: &same, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 45.0, updated.Price)

	_, err = svc.Update(ctx, ironing.ID, ServicePatch{})
	assert.True(t, IsKind(err, KindValidation))

	_, err = svc.Update(ctx, uuid.New(), ServicePatch{Price: &price})
	assert.True(t, IsKind(err, KindNotFound))
}

func TestCatalogListToggleDelete(t *testing.T) {
	svc := NewCatalogService(testutil.NewDB(t))
	ctx := context.Background()

	a, err := svc.Create(ctx, ServiceInput{Name: "Alpha", Price: 1})
	require.NoError(t, err)
	_, err = svc.Create(ctx, ServiceInput{Name: "Beta", Price: 2})
	require.NoError(t, err)

	toggled, err := svc.Toggle(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	public, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Beta", public[0].Name)

	all, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	toggled, err = svc.Toggle(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)

	require.NoError(t, svc.Delete(ctx, a.ID))
	assert.True(t, IsKind(svc.Delete(ctx, a.ID), KindNotFound))

	_, err = svc.Get(ctx, a.ID)
	assert.True(t, IsKind(err, KindNotFound))
}

// commitCompetingService stores a service named name between the name
// pre-check and the write of the statement running on tx.
func commitCompetingService(t *testing.T, tx *gorm.DB, name string) {
	t.Helper()
	competitor := &models.Service{Name: name, IsActive: true, EstimatedDays: defaultEstimatedDays}
	require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).Create(competitor).Error)
}

// autocommitDB runs every statement outside a default transaction so a
// competing row commits on its own.
func autocommitDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.NewDB(t).Session(&gorm.Session{SkipDefaultTransaction: true})
}

func TestCatalogCreateLosingRaceIsConflict(t *testing.T) {
	db := autocommitDB(t)
	svc := NewCatalogService(db)

	raced := false
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:competing_create", func(tx *gorm.DB) {
		item, ok := tx.Statement.Dest.(*models.Service)
		if !ok || raced {
			return
		}
		raced = true
		commitCompetingService(t, tx, item.Name)
	}))

	_, err := svc.Create(context.Background(), ServiceInput{Name: "Wash", Price: 80})
	require.Error(t, err)
	assert.True(t, raced)
	assert.True(t, IsKind(err, KindConflict), err.Error())
	assert.Equal(t, "a service with this name already exists", MessageOf(err))

	var count int64
	require.NoError(t, db.Model(&models.Service{}).Where("name = ?", "Wash").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCatalogRenameLosingRaceIsConflict(t *testing.T) {
	db := autocommitDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	steam, err := svc.Create(ctx, ServiceInput{Name: "Steam Press", Price: 60})
	require.NoError(t, err)

	raced := false
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:competing_rename", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Model.(*models.Service); !ok || raced {
			return
		}
		raced = true
		commitCompetingService(t, tx, "Pressing")
	}))

	name := "Pressing"
	_, err = svc.Update(ctx, steam.ID, ServicePatch{Name: &name})
	require.Error(t, err)
	assert.True(t, raced)
	assert.True(t, IsKind(err, KindConflict), err.Error())

	reloaded, err := svc.Get(ctx, steam.ID)
	require.NoError(t, err)
	assert.Equal(t, "Steam Press", reloaded.Name)
}
