package service

import (
	"strings"
	"time"

	"taller/internal/apperror"

	"github.com/google/uuid"
)

// Live event names broadcast after a successful commit.
const (
	EventStockActualizado = "stock.actualizado"
	EventFacturaCreada    = "factura.creada"
	EventCobroRegistrado  = "cobro.registrado"
)

// EventPublisher broadcasts events to connected clients. Publish must not block.
type EventPublisher interface {
	Publish(event string, data any)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, any) {}

// publisherOrNop lets callers pass nil when no live clients exist (seeding, tests).
func publisherOrNop(p EventPublisher) EventPublisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

// wrapErr normalizes a transaction result into an *apperror.AppError.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	return apperror.As(err)
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

// actorPtr turns the authenticated user id into the nullable column value.
func actorPtr(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

// parseFecha accepts "2006-01-02" or RFC3339. Empty input yields def.
func parseFecha(raw string, def time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, apperror.NewValidation("Fecha inválida: %q (formato esperado AAAA-MM-DD)", raw)
}
