package db

import (
	"fmt"

	"github.com/openstreets/server/config"
	dbmysql "github.com/openstreets/server/db/mysql"
	dbsqlite "github.com/openstreets/server/db/sqlite"
	"gorm.io/gorm"
)

const (
	ModeSQLite = "sqlite"
	ModeMySQL  = "mysql"
)

// Open returns a *gorm.DB for the configured database mode.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	switch cfg.Mode {
	case ModeSQLite:
		return dbsqlite.Open(cfg.SQLitePath)
	case ModeMySQL:
		return dbmysql.Open(cfg.MySQLDSN, cfg.MySQLMaxOpen, cfg.MySQLMaxIdle, cfg.MySQLMaxLife)
	default:
		return nil, fmt.Errorf("db: unknown mode %q", cfg.Mode)
	}
}
