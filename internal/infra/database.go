package infra

import (
	"fmt"

	"github.com/MrCorrectoMX/POSQuimo/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies idempotent SQL patches and seed
// rows that GORM cannot express.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates the schema and applies seed rows. Safe to
// re-run: AutoMigrate is additive and every patch is guarded.
func RunMigrations(db *gorm.DB) error {
	// gen_random_uuid() needs pgcrypto on PostgreSQL < 13.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Producto{},
		&model.MateriaPrima{},
		&model.Formula{},
		&model.Presentacion{},
		&model.Produccion{},
		&model.ProductoReventa{},
		&model.Cliente{},
		&model.Venta{},
		&model.VentaArchivada{},
		&model.MovimientoFondo{},
		&model.Usuario{},
		&model.Configuracion{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	return applySeedPatches(db)
}

// applySeedPatches inserts the rows the application assumes exist.
func applySeedPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Walk-in sales attach to this client when none is given.
		{"seed Cliente General",
			`INSERT INTO clientes (nombre) VALUES ('Cliente General')
			 ON CONFLICT (nombre) DO NOTHING`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("seed %q: %w", p.descr, err)
		}
	}
	return nil
}
