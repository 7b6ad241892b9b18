package client

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"studymart-checkout/internal/model"
)

// InitDBClient opens the order database. databaseURL is "sqlite://<path>" or
// "mysql://<dsn>"; a bare value is treated as a mysql DSN.
func InitDBClient(databaseURL string) (*gorm.DB, error) {
	dialector, pooled, err := dialectorFor(databaseURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	if pooled {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(time.Hour)
	} else {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return db, nil
}

func dialectorFor(databaseURL string) (gorm.Dialector, bool, error) {
	switch {
	case strings.HasPrefix(databaseURL, "sqlite://"):
		path := strings.TrimPrefix(databaseURL, "sqlite://")
		if path == "" {
			return nil, false, fmt.Errorf("empty sqlite path in %q", databaseURL)
		}
		return sqlite.Open(path), false, nil
	case strings.HasPrefix(databaseURL, "mysql://"):
		return mysql.Open(strings.TrimPrefix(databaseURL, "mysql://")), true, nil
	case databaseURL == "":
		return nil, false, fmt.Errorf("database url is empty")
	}
	return mysql.Open(databaseURL), true, nil
}
