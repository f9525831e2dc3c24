package main

import (
	"context"
	"fmt"
	"os"

	"taller/internal/apperror"
	"taller/internal/authz"
	"taller/internal/config"
	"taller/internal/database"
	"taller/internal/logger"
	"taller/internal/model"
	"taller/internal/repository"
	"taller/internal/service"

	"go.uber.org/zap"
)

var mediosCobro = []string{"Efectivo", "Transferencia", "Tarjeta de débito", "Tarjeta de crédito"}

// seed creates the initial administrador account and the default payment
// methods. Running it again is a no-op.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer func() { _ = log.Sync() }()

	db, err := database.NewConnection(cfg.DSN(), logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.DBLogLevel)))
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("database migration failed", zap.Error(err))
	}

	ctx := context.Background()
	txManager := repository.NewTransactionManager(db)

	usuarios := service.NewUsuarioService(
		repository.NewUsuarioRepository(db),
		authz.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL()),
		authz.NewResolver(authz.DefaultTable()),
		txManager,
	)
	_, err = usuarios.Create(ctx, service.CreateUsuarioRequest{
		Nombre:   cfg.AdminNombre,
		Tipo:     model.TipoAdministrador,
		Password: cfg.AdminPassword,
	})
	switch {
	case err == nil:
		log.Info("administrador created", zap.String("nombre", cfg.AdminNombre))
	case apperror.Is(err, apperror.KindConflict):
		log.Info("administrador already exists", zap.String("nombre", cfg.AdminNombre))
	default:
		log.Fatal("create administrador", zap.Error(err))
	}

	medios := service.NewMedioCobroService(repository.NewMedioCobroRepository(db), txManager)
	for _, nombre := range mediosCobro {
		_, err := medios.Create(ctx, service.NombreRequest{Nombre: nombre})
		if err != nil && !apperror.Is(err, apperror.KindConflict) {
			log.Fatal("create medio de cobro", zap.String("nombre", nombre), zap.Error(err))
		}
	}
	log.Info("seed finished", zap.Int("medios_cobro", len(mediosCobro)))
}
