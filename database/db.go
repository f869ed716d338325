package database

import (
	"fmt"

	"tagdo/tagdo/config"

	"github.com/charmbracelet/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	DB *gorm.DB
}

// Dialector picks the gorm driver named by cfg.DBDriver.
func Dialector(cfg config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "postgres", "postgresql":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
			cfg.DBSSLMode,
		)
		return postgres.Open(dsn), nil
	case "sqlite", "":
		return sqlite.Open(cfg.SQLitePath), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

func Setup(cfg config.Config) (*Database, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Warn
	if cfg.IsDevelopment() {
		logLevel = logger.Info
	}

	gormConfig := &gorm.Config{
		Logger:                 logger.Default.LogMode(logLevel),
		AllowGlobalUpdate:      false,
		SkipDefaultTransaction: true,
	}

	db, err := Open(dialector, gormConfig)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if dialector.Name() == "sqlite" {
		// sqlite allows one writer; a single connection avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}

	log.Info("Running database migrations...", "driver", dialector.Name())
	if err := RunMigrations(db.DB); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("Database migrations completed successfully")

	return db, nil
}

// Open connects without running migrations.
func Open(dialector gorm.Dialector, gormConfig *gorm.Config) (*Database, error) {
	if gormConfig == nil {
		gormConfig = &gorm.Config{}
	}
	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Database{DB: db}, nil
}

func (d *Database) Close() {
	if d.DB == nil {
		log.Warn("Database connection is nil, nothing to close")
		return
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		log.Error("Failed to get database connection", "err", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("Failed to close database connection", "err", err)
	}
}

func (d *Database) Query(query string, args ...interface{}) (*gorm.DB, error) {
	result := d.DB.Raw(query, args...)
	return result, result.Error
}

func (d *Database) Execute(query string, args ...interface{}) error {
	result := d.DB.Exec(query, args...)
	return result.Error
}
