package infra

import (
	"database/sql"
	"fmt"

	"github.com/venky2821/finalproject/internal/model"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var dbAttrs = []attribute.KeyValue{attribute.String("db.system", "postgresql")}

// NewDatabase opens PostgreSQL through an otelsql-wrapped pgx driver, hands
// the pool to GORM and brings the schema up to date.
func NewDatabase(dsn string) (*gorm.DB, error) {
	driverName, err := otelsql.Register("pgx", otelsql.WithAttributes(dbAttrs...))
	if err != nil {
		return nil, fmt.Errorf("register otelsql driver: %w", err)
	}
	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := otelsql.RegisterDBStatsMetrics(sqlDB, otelsql.WithAttributes(dbAttrs...)); err != nil {
		return nil, fmt.Errorf("register db stats metrics: %w", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates every table and seeds the fixed roles.
// Safe to call on every start.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	roles := model.DefaultRoles
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&roles).Error; err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	return nil
}
