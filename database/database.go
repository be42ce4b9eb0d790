package database

import (
	"fmt"
	"time"

	"vaultgrow/config"
	"vaultgrow/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DbInstance wraps the shared connection pool. It is built once in main and
// handed to every service; nothing in this package keeps a global copy.
type DbInstance struct {
	Db *gorm.DB
}

// PoolOptions tunes the underlying *sql.DB.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Silent          bool
}

// Dialector builds the GORM dialector for the configured driver.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "postgres", "":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
		)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
		)
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(cfg.DBName), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Connect opens the configured store and runs migrations.
func Connect(cfg *config.Config) (*DbInstance, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	opts := PoolOptions{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	}
	// SQLite allows a single writer; serialising connections avoids "database is locked".
	if cfg.DBDriver == "sqlite" {
		opts.MaxOpenConns = 1
		opts.MaxIdleConns = 1
	}

	inst, err := Open(dialector, opts)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(inst.Db); err != nil {
		inst.Close()
		return nil, err
	}
	return inst, nil
}

// Open connects with the given dialector and pool settings without migrating.
func Open(dialector gorm.Dialector, opts PoolOptions) (*DbInstance, error) {
	gormCfg := &gorm.Config{TranslateError: true}
	if opts.Silent {
		gormCfg.Logger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}

	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime) // 0 = no timeout

	return &DbInstance{Db: db}, nil
}

// OpenMemory returns a migrated in-memory SQLite store, used by tests and local runs.
func OpenMemory() (*DbInstance, error) {
	inst, err := Open(sqlite.Open("file::memory:"), PoolOptions{MaxOpenConns: 1, MaxIdleConns: 1, Silent: true})
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(inst.Db); err != nil {
		inst.Close()
		return nil, err
	}
	return inst, nil
}

// Close releases the connection pool.
func (d *DbInstance) Close() error {
	sqlDB, err := d.Db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RunMigrations performs database migrations
func RunMigrations(db *gorm.DB) error {
	logrus.WithField("component", "database").Info("Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Investment{},
		&models.Payment{},
		&models.Withdrawal{},
		&models.LedgerEntry{},
		&models.LoginHistory{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logrus.WithField("component", "database").Info("Migrations completed successfully.")
	return nil
}
