package database

import (
	"fmt"

	"securequote/internal/infrastructure/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// driverName maps STORE_DRIVER to the registered database/sql driver.
func driverName(store string) (string, error) {
	switch store {
	case config.StoreSQLite:
		return "sqlite", nil
	case config.StorePostgres:
		return "postgres", nil
	default:
		return "", fmt.Errorf("%w: %q is not a sql store", config.ErrUnknownStoreDriver, store)
	}
}

// ConnectSQL opens and pings the relational store.
func ConnectSQL(store, dsn string) (*sqlx.DB, error) {
	driver, err := driverName(store)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if driver == "sqlite" {
		// SQLite serializes writers; one connection also keeps :memory: databases alive.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}
