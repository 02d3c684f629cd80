package store

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/solvehub/server/internal/models"
)

// Open connects to the relational backend and runs migrations. A non-empty
// databaseURL selects Postgres; otherwise the embedded SQLite engine is used
// at sqlitePath. Dialect differences (placeholders, error codes) stay inside
// GORM and its drivers; callers of PostStore never see them.
//
// TranslateError is required: it is what folds both drivers' unique-violation
// errors into gorm.ErrDuplicatedKey, which Register depends on.
func Open(databaseURL, sqlitePath string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if databaseURL != "" {
		dialector = postgres.Open(databaseURL)
	} else {
		dialector = sqlite.Open(sqliteDSN(sqlitePath))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Post{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return db, nil
}

// sqliteDSN enables foreign key enforcement so the posts.user_id cascade
// actually fires on SQLite, and waits on the write lock instead of failing.
func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_foreign_keys=on&_busy_timeout=5000"
}
