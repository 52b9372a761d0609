package databases

import (
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type sqliteConnection struct {
	dsn string
	db  *gorm.DB
}

func NewSqlite(dsn string) SqlConnection {
	return &sqliteConnection{
		dsn: dsn,
	}
}

func (c *sqliteConnection) GetDB() *gorm.DB {
	return c.db
}

func (c *sqliteConnection) IsConnected() bool {
	return ping(c.db)
}

func (c *sqliteConnection) Run() error {
	if c.dsn == "" {
		return ErrMissingDSN
	}

	db, err := gorm.Open(sqlite.Open(c.dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return err
	}

	dbSQL, errSQL := db.DB()
	if errSQL != nil {
		return errSQL
	}
	// sqlite accepts a single writer, pipelines share one connection.
	dbSQL.SetMaxOpenConns(1)

	c.db = db
	log.Info().Msg("Connected to Sqlite")
	return nil
}

func (c *sqliteConnection) Shutdown() {
	log.Info().Msg("Shutdown the connection to Sqlite")
	shutdown(c.db)
}
