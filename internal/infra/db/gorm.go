package db

import (
	"fmt"

	"restobill/internal/config"
	"restobill/internal/domain/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
// DB_DRIVER=sqlite ならファイル、postgres なら DATABASE_URL / POSTGRES_* を使う。
func Connect(cfg config.Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	switch cfg.DBDriver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.PostgresDSN()), gcfg)
	case "sqlite":
		return OpenSQLite(cfg.SQLitePath, gcfg)
	default:
		return nil, fmt.Errorf("unsupported db driver: %s", cfg.DBDriver)
	}
}

// OpenSQLite はテストでも使う。
func OpenSQLite(path string, gcfg *gorm.Config) (*gorm.DB, error) {
	if gcfg == nil {
		gcfg = &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	}
	return gorm.Open(sqlite.Open(path), gcfg)
}

// Migrate はスナップショットと監査ログのテーブルを作る。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.SnapshotEntry{}, &model.AuditLog{})
}
