package migrate

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/angelmondragon/rocketshoes-cart/pkg/config"
)

// OpenSQL opens a plain database/sql handle for goose, using lib/pq for
// Postgres and go-sqlite3 for SQLite.
func OpenSQL(cfg config.DBConfig) (*sql.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}
	driver := "postgres"
	if cfg.IsSQLite() {
		driver = "sqlite3"
	}
	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return db, nil
}
