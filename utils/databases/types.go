package databases

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrUnknownDriver = errors.New("unknown database driver")
	ErrMissingDSN    = errors.New("database connection string is missing")
)

type SqlConnection interface {
	GetDB() *gorm.DB
	IsConnected() bool
	Run() error
	Shutdown()
}
