// Package testutil provides shared fixtures for store and guard tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"studio-service/internal/model"
)

// dbSeq makes every test database name unique. A bare :memory: DSN is shared
// process-wide by the driver, so tests would otherwise see each other's rows.
var dbSeq atomic.Int64

// NewDB opens an isolated in-memory SQLite database migrated with the full
// schema.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Studio{},
		&model.Schedule{},
		&model.Lesson{},
		&model.Discussion{},
		&model.Post{},
	); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return db
}

// SeedUser inserts a user and returns it. The email doubles as the slug so
// seeded users never collide on the slug unique index.
func SeedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()

	user := &model.User{Email: email, DisplayName: email, Slug: email}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return user
}

// SeedStudio inserts a studio owned by teacherID with the given extra members.
func SeedStudio(t *testing.T, db *gorm.DB, name, slug string, teacherID uint, memberIDs ...uint) *model.Studio {
	t.Helper()

	studio := &model.Studio{
		Name:      name,
		Slug:      slug,
		TeacherID: teacherID,
		MemberIDs: model.IDList{teacherID}.Union(memberIDs...),
	}
	if err := db.Create(studio).Error; err != nil {
		t.Fatalf("seed studio %s: %v", name, err)
	}
	return studio
}
