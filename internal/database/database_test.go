package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vermakhushbu723/Laundry-Backend/internal/config"
	"github.com/vermakhushbu723/Laundry-Backend/internal/logger"
	"github.com/vermakhushbu723/Laundry-Backend/internal/models"
)

func TestConnectSQLiteMigrates(t *testing.T) {
	cfg := &config.Config{
		DatabaseDialect: DialectSQLite,
		DatabaseURL:     filepath.Join(t.TempDir(), "laundry.db"),
	}

	db, err := Connect(cfg, logger.NewNop())
	require.NoError(t, err)
	defer Close(db)

	for _, model := range models.All() {
		assert.True(t, db.Migrator().HasTable(model))
	}
	assert.True(t, db.Migrator().HasIndex(&models.Contact{}, "idx_contacts_user_phone"))
	assert.True(t, db.Migrator().HasIndex(&models.Sms{}, "idx_sms_user_sms"))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, maxOpenConns, sqlDB.Stats().MaxOpenConnections)
}

func TestOpenTranslatesDuplicateKeys(t *testing.T) {
	db, err := Open(sqlite.Open(filepath.Join(t.TempDir(), "dup.db")), gormlogger.Silent)
	require.NoError(t, err)
	defer Close(db)
	require.NoError(t, Migrate(db))

	require.NoError(t, db.Create(&models.Service{Name: "Wash", EstimatedDays: 2}).Error)
	err = db.Create(&models.Service{Name: "Wash", EstimatedDays: 2}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestConnectRejectsUnknownDialect(t *testing.T) {
	_, err := Connect(&config.Config{DatabaseDialect: "mongo"}, logger.NewNop())
	assert.Error(t, err)
}

func TestEnsureDatabaseSkipsNonURLDSN(t *testing.T) {
	assert.NoError(t, ensureDatabase("host=localhost user=postgres dbname=laundry"))
	assert.NoError(t, ensureDatabase("postgres://localhost:5432/"))
}
