// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"testing"

	"campfire/internal/database"
	"campfire/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a migrated in-memory SQLite database private to t.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// Each connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(database.Models()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

// NewTestRedis starts a miniredis server and returns a client for it.
func NewTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}

// TestPassword satisfies the password policy.
const TestPassword = "Campfire#2024!"

// CreateUser persists a user with a bcrypt-hashed TestPassword.
func CreateUser(t *testing.T, db *gorm.DB, username, email string, opts ...func(*models.User)) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{Username: username, Email: email, Password: string(hash)}
	for _, opt := range opts {
		opt(user)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

// AsAdmin marks a user created through CreateUser as an administrator.
func AsAdmin(u *models.User) {
	u.IsAdmin = true
}

// CreateCamp persists a camp profile owned by owner.
func CreateCamp(t *testing.T, db *gorm.DB, owner *models.User, name string) *models.CampProfile {
	t.Helper()
	camp := &models.CampProfile{OwnerID: owner.ID, Name: name}
	if err := db.Create(camp).Error; err != nil {
		t.Fatalf("create camp %s: %v", name, err)
	}
	return camp
}
