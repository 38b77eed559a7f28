package database

import (
	"fmt"
	"net"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Guyuepp/tweetfeed/internal/config"
)

const (
	maxRetry      = 10
	retryInterval = 2 * time.Second
)

// Dialector picks the gorm dialector for the configured driver.
func Dialector(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		dsn := mysqldriver.Config{
			User:                 cfg.User,
			Passwd:               cfg.Pass,
			Net:                  "tcp",
			Addr:                 net.JoinHostPort(cfg.Host, cfg.Port),
			DBName:               cfg.Name,
			ParseTime:            true,
			Loc:                  time.UTC,
			AllowNativePasswords: true,
		}
		return mysql.Open(dsn.FormatDSN()), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.Host, cfg.Port, cfg.User, cfg.Pass, cfg.Name)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Open connects to the database, retrying while it comes up.
func Open(cfg config.Database) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	var db *gorm.DB
	for i := range maxRetry {
		db, err = gorm.Open(dialector, &gorm.Config{TranslateError: true})
		if err != nil {
			logrus.Warnf("failed to open connection to database (attempt %d/%d): %v", i+1, maxRetry, err)
			time.Sleep(retryInterval)
			continue
		}

		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			err = dbErr
			logrus.Warnf("failed to get sql.DB from gorm.DB (attempt %d/%d): %v", i+1, maxRetry, err)
			time.Sleep(retryInterval)
			continue
		}
		if err = sqlDB.Ping(); err == nil {
			return db, nil
		}
		logrus.Warnf("failed to ping database (attempt %d/%d): %v", i+1, maxRetry, err)
		_ = sqlDB.Close()
		time.Sleep(retryInterval)
	}
	return nil, fmt.Errorf("could not connect to database after %d attempts: %w", maxRetry, err)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
