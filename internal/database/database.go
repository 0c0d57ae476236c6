// Package database opens the Postgres connection pool shared by the ORM and migrations.
package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB holds the lib/pq pool and the gorm handle layered on it
type DB struct {
	SQL  *sql.DB
	Gorm *gorm.DB
}

// Open connects to Postgres with lib/pq, pings it and wraps the pool with gorm
func Open(dsn string, log *logrus.Logger) (*DB, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	gdb, err := Wrap(sqlDB, log)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	return &DB{SQL: sqlDB, Gorm: gdb}, nil
}

// Wrap layers gorm over an already opened pool. Errors keep lib/pq's *pq.Error type.
func Wrap(sqlDB *sql.DB, log *logrus.Logger) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.New(log, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLogLevel(log.GetLevel()),
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}
	return gdb, nil
}

// Close releases the pool
func (d *DB) Close() error {
	return d.SQL.Close()
}

func gormLogLevel(level logrus.Level) gormlogger.LogLevel {
	switch {
	case level >= logrus.TraceLevel:
		return gormlogger.Info
	case level >= logrus.WarnLevel:
		return gormlogger.Warn
	case level >= logrus.ErrorLevel:
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}
