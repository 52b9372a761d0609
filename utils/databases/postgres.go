package databases

import (
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type postgresConnection struct {
	dsn string
	db  *gorm.DB
}

func NewPostgres(dsn string) SqlConnection {
	return &postgresConnection{
		dsn: dsn,
	}
}

func (c *postgresConnection) GetDB() *gorm.DB {
	return c.db
}

func (c *postgresConnection) IsConnected() bool {
	return ping(c.db)
}

func (c *postgresConnection) Run() error {
	if c.dsn == "" {
		return ErrMissingDSN
	}

	db, err := gorm.Open(postgres.Open(c.dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return err
	}

	c.db = db
	log.Info().Msg("Connected to Postgres")
	return nil
}

func (c *postgresConnection) Shutdown() {
	log.Info().Msg("Shutdown the connection to Postgres")
	shutdown(c.db)
}
