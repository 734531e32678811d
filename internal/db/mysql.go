package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// NewMySQL opens the platform's MySQL database through GORM. The DSN comes
// from configuration; migrations run separately at startup.
func NewMySQL(dsn string) (*gorm.DB, error) {
	conn, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open mysql database: %w", err)
	}
	return conn, nil
}
