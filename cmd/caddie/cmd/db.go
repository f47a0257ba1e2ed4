package cmd

import (
	"fmt"

	"github.com/caddieai/caddie/internal/config"
	"github.com/caddieai/caddie/internal/db"
	"github.com/jmoiron/sqlx"
)

// openDB connects using DB_DRIVER and DB_CONNECTION. migrate also brings the
// schema up to date, which every command except "migrate" wants.
func openDB(migrate bool) (*sqlx.DB, string, error) {
	driver, connection := config.LoadDatabase()

	database, err := db.Init(driver, connection)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database: %w", err)
	}

	if migrate {
		err = db.RunMigrations(database.DB, driver)
		if err != nil {
			_ = database.Close()
			return nil, "", err
		}
	}

	return database, driver, nil
}
