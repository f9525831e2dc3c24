package database

import (
	"fmt"
	"time"

	"taller/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string, logger gormlogger.Interface) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// Migrate creates or updates every table. Order matters for foreign keys.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.Usuario{},
		&model.Especializacion{},
		&model.Tecnico{},
		&model.Cliente{},
		&model.Equipo{},
		&model.Reparacion{},
		&model.Presupuesto{},
		&model.MedioCobro{},
		&model.Factura{},
		&model.Cobro{},
		&model.DetalleCobro{},
		&model.Repuesto{},
		&model.Proveedor{},
		&model.ProveedorRepuesto{},
		&model.Compra{},
		&model.ReparacionRepuesto{},
		&model.AjusteStock{},
		&model.HistorialStock{},
		&model.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
