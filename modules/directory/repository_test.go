package directory

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&Room{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func TestRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	room := &Room{Key: "A1B2C3", Name: "General"}
	if err := repo.Create(room); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	var found Room
	if err := db.First(&found, "key = ?", "A1B2C3").Error; err != nil {
		t.Fatalf("failed to find created room: %v", err)
	}

	if found.Name != "General" {
		t.Errorf("expected name %q, got %q", "General", found.Name)
	}
	if found.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set on create")
	}
}

func TestRepository_FindByKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	if err := repo.Create(&Room{Key: "DEAD00", Name: "Lobby"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	room, err := repo.FindByKey("DEAD00")
	if err != nil {
		t.Fatalf("FindByKey() error = %v", err)
	}
	if room.Name != "Lobby" {
		t.Errorf("expected name %q, got %q", "Lobby", room.Name)
	}
}

func TestRepository_FindByKey_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByKey("FFFFFF")
	if !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("FindByKey() error = %v, want ErrRoomNotFound", err)
	}
}

func TestRepository_Exists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	if err := repo.Create(&Room{Key: "C0FFEE", Name: "Cafe"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	exists, err := repo.Exists("C0FFEE")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("Exists() = false for a created room, want true")
	}

	exists, err = repo.Exists("BADBAD")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() = true for a missing room, want false")
	}
}

func TestRepository_Create_DuplicateKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	if err := repo.Create(&Room{Key: "AAAAAA", Name: "First"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// The key is the primary key, so a second insert must fail.
	if err := repo.Create(&Room{Key: "AAAAAA", Name: "Second"}); err == nil {
		t.Error("Create() expected error for duplicate key, got nil")
	}
}
