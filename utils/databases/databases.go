package databases

import (
	"fmt"
	"pso2-news/models/constants"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func New(driver, sqliteDSN, postgresDSN string) (SqlConnection, error) {
	switch driver {
	case constants.DriverSqlite:
		return NewSqlite(sqliteDSN), nil
	case constants.DriverPostgres:
		return NewPostgres(postgresDSN), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

func ping(db *gorm.DB) bool {
	if db == nil {
		return false
	}

	dbSQL, errSQL := db.DB()
	if errSQL != nil {
		return false
	}

	if errPing := dbSQL.Ping(); errPing != nil {
		return false
	}

	return true
}

func shutdown(db *gorm.DB) {
	if db == nil {
		return
	}

	dbSQL, err := db.DB()
	if err != nil {
		log.Error().Err(err).Msgf("Failed to shutdown database connection")
		return
	}

	if errClose := dbSQL.Close(); errClose != nil {
		log.Error().Err(errClose).Msgf("Failed to shutdown database connection")
	}
}
