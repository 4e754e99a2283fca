// Package dbtest opens isolated in-memory SQLite databases for repository
// tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
)

// Open returns a fresh database migrated with every domain model. Each call
// gets its own shared-cache memory database so tests never see each other's
// rows.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// One connection keeps transactions from hitting shared-cache table locks.
	sqlDB.SetMaxOpenConns(1)

	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return conn
}

// SeedUser inserts a user with a unique email.
func SeedUser(t testing.TB, conn *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Email:   fmt.Sprintf("user_%s@example.com", uuid.NewString()),
		Name:    "Test User",
		Picture: "/uploads/no-user-image.png",
	}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// SeedStore inserts a store owned by userID.
func SeedStore(t testing.TB, conn *gorm.DB, userID uuid.UUID) *models.Store {
	t.Helper()
	store := &models.Store{Title: "Test Store", UserID: userID}
	if err := conn.Create(store).Error; err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return store
}
