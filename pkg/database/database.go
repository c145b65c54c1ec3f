package database

import (
	"fmt"
	"strings"

	"github.com/capital/finance/pkg/config"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the configured database, checks the connection and runs migrations.
func InitDB(dbc config.Database) (*gorm.DB, error) {
	db, err := Open(dbc)
	if err != nil {
		return nil, err
	}

	if err := AutoMigrate(db); err != nil {
		zap.L().Error("migration failed", zap.Error(err))
		return nil, fmt.Errorf("migrate: %w", err)
	}
	zap.L().Info("database migrations completed successfully")

	return db, nil
}

// Open connects without migrating.
func Open(dbc config.Database) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: false,
		TranslateError:                           true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch dbc.Driver {
	case config.DriverSQLite:
		db, err = gorm.Open(sqlite.Open(sqliteDSN(dbc.Path)), gormConfig)
	case config.DriverPostgres, "":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbc.Host, dbc.Port, dbc.User, dbc.Pass, dbc.Name)
		db, err = gorm.Open(
			postgres.New(
				postgres.Config{
					DSN:                  dsn,
					PreferSimpleProtocol: true,
				},
			),
			gormConfig,
		)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", dbc.Driver)
	}
	if err != nil {
		zap.L().Error("failed to initialize database", zap.String("driver", dbc.Driver), zap.Error(err))
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("underlying connection: %w", err)
	}
	if dbc.Driver == config.DriverSQLite && isMemory(dbc.Path) {
		// every new connection to :memory: is a fresh empty database
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		zap.L().Error("failed to ping database", zap.Error(err))
		return nil, err
	}

	zap.L().Info("database connection established successfully", zap.String("driver", dbc.Driver))
	return db, nil
}

func isMemory(path string) bool {
	return path == "" || strings.Contains(path, ":memory:")
}

func sqliteDSN(path string) string {
	if path == "" {
		path = ":memory:"
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}
