package service

import (
	"context"
	"time"

	"taller/internal/apperror"
	"taller/internal/model"
	"taller/internal/repository"
)

type StatisticsService interface {
	// GetStatistics aggregates billing over [desde, hasta]. Zero bounds default
	// to the current calendar month.
	GetStatistics(ctx context.Context, desde, hasta time.Time) (model.Estadisticas, error)
}

type statisticsService struct {
	statsRepo      repository.StatisticsRepository
	reparacionRepo repository.ReparacionRepository
	repuestoRepo   repository.RepuestoRepository
	now            func() time.Time
}

func NewStatisticsService(
	statsRepo repository.StatisticsRepository,
	reparacionRepo repository.ReparacionRepository,
	repuestoRepo repository.RepuestoRepository,
) StatisticsService {
	return &statisticsService{
		statsRepo:      statsRepo,
		reparacionRepo: reparacionRepo,
		repuestoRepo:   repuestoRepo,
		now:            nowUTC,
	}
}

func (s *statisticsService) GetStatistics(ctx context.Context, desde, hasta time.Time) (model.Estadisticas, error) {
	var res model.Estadisticas

	now := s.now()
	if desde.IsZero() {
		desde = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	if hasta.IsZero() {
		hasta = now
	}
	if hasta.Before(desde) {
		return res, apperror.NewValidation("La fecha hasta debe ser posterior a la fecha desde")
	}
	res.TimeRangeStartDate = desde
	res.TimeRangeEndDate = hasta

	var err error
	if res.TotalFacturado, res.CantidadFacturas, err = s.statsRepo.Facturado(ctx, desde, hasta); err != nil {
		return res, apperror.NewInternal(err)
	}
	if res.TotalCobrado, err = s.statsRepo.Cobrado(ctx, desde, hasta); err != nil {
		return res, apperror.NewInternal(err)
	}
	if res.SaldoPendiente, err = s.statsRepo.SaldoPendiente(ctx); err != nil {
		return res, apperror.NewInternal(err)
	}
	if res.ReparacionesPorEstado, err = s.reparacionRepo.CountByEstado(ctx); err != nil {
		return res, apperror.NewInternal(err)
	}
	if res.RepuestosSinStock, err = s.repuestoRepo.CountSinStock(ctx); err != nil {
		return res, apperror.NewInternal(err)
	}
	return res, nil
}
