package database

import (
	"testing"

	"baggr-backend/models"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := Connect("sqlite::memory:")
	if err != nil {
		t.Fatal(err)
	}
	if err := MigrateAuth(db); err != nil {
		t.Fatal(err)
	}
	if err := MigrateDirectory(db); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestMigrateIsRepeatable(t *testing.T) {
	db := setupTestDB(t)
	if err := MigrateDirectory(db); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
	if err := MigrateAuth(db); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

func TestSchemaHasEveryTable(t *testing.T) {
	db := setupTestDB(t)
	for _, table := range append(append([]string{}, DirectoryTables...), AuthTables...) {
		if !db.Migrator().HasTable(table) {
			t.Errorf("expected table %s to exist", table)
		}
	}
}

func TestCategoryNameUniqueTranslated(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Create(&models.Category{Name: "Food", Slug: "food", IsActive: true}).Error; err != nil {
		t.Fatal(err)
	}
	err := db.Create(&models.Category{Name: "Food", Slug: "food-2", IsActive: true}).Error
	if err == nil {
		t.Fatal("expected unique constraint error")
	}
}

func TestTruncate(t *testing.T) {
	db := setupTestDB(t)
	db.Create(&models.Tag{Name: "wifi"})

	if err := Truncate(db, DirectoryTables...); err != nil {
		t.Fatal(err)
	}

	var count int64
	db.Model(&models.Tag{}).Count(&count)
	if count != 0 {
		t.Errorf("expected empty tags table, got %d rows", count)
	}
}

func TestCreateDefaultStaff(t *testing.T) {
	db := setupTestDB(t)
	t.Setenv("ADMIN_EMAIL", "testadmin@test.com")
	t.Setenv("ADMIN_PASSWORD", "Testpassword123")

	for i := 0; i < 2; i++ {
		if err := CreateDefaultStaff(db); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}

	var users []models.User
	db.Where("email = ?", "testadmin@test.com").Find(&users)
	if len(users) != 1 {
		t.Fatalf("expected exactly one staff user after two runs, got %d", len(users))
	}
	admin := users[0]
	if !admin.IsStaff || !admin.IsSuperuser || !admin.EmailVerified || !admin.IsActive {
		t.Errorf("unexpected flags on default user: %+v", admin)
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("Testpassword123")) != nil {
		t.Error("expected ADMIN_PASSWORD to be stored as a bcrypt hash")
	}

	var profiles int64
	db.Model(&models.Profile{}).Where("user_id = ?", admin.ID).Count(&profiles)
	if profiles != 1 {
		t.Errorf("expected a profile for the staff user, got %d", profiles)
	}
}

func TestCreateDefaultStaffDefaults(t *testing.T) {
	db := setupTestDB(t)
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ADMIN_PASSWORD", "")

	if err := CreateDefaultStaff(db); err != nil {
		t.Fatal(err)
	}

	var admin models.User
	if err := db.Where("email = ?", "admin@baggr.local").First(&admin).Error; err != nil {
		t.Fatalf("expected fallback admin email to be used: %v", err)
	}
	if len(admin.Password) == 0 || admin.Password == "admin" {
		t.Error("expected a generated password hash")
	}
}

func TestGormLoggerReportsFailedQueries(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	db, err := Connect("sqlite::memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.Logger = NewGormLogger(zap.New(core)).LogMode(gormlogger.Error)

	db.Exec("SELECT * FROM missing_table")

	if logs.FilterMessage("query failed").Len() != 1 {
		t.Errorf("expected one failed query log, got %d", logs.Len())
	}
}
