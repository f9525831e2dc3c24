package service

import (
	"context"
	"encoding/json"
	"fmt"

	"taller/internal/apperror"
	"taller/internal/model"
	"taller/internal/repository"
	"taller/pkg/pagination"

	"github.com/google/uuid"
)

type AuditLogResponse struct {
	ID        string `json:"id"`
	UsuarioID string `json:"usuario_id"`
	Usuario   string `json:"usuario"`
	Accion    string `json:"accion"`
	EntidadID string `json:"entidad_id"`
	Entidad   string `json:"entidad"`
	Detalles  string `json:"detalles"`
	CreatedAt string `json:"created_at"`
}

// AuditEntry describes one audited write. Detalles is serialized as JSON.
type AuditEntry struct {
	UsuarioID uuid.UUID
	Accion    string
	EntidadID uuid.UUID
	Entidad   string
	Detalles  any
}

type AuditService interface {
	// Record writes the entry inside the transaction carried by ctx, if any.
	Record(ctx context.Context, entry AuditEntry) error
	GetAuditLogs(ctx context.Context, p pagination.Params, accion string) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) Record(ctx context.Context, entry AuditEntry) error {
	details, err := json.Marshal(entry.Detalles)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}
	log := &model.AuditLog{
		UsuarioID: actorPtr(entry.UsuarioID),
		Accion:    entry.Accion,
		EntidadID: entry.EntidadID.String(),
		Entidad:   entry.Entidad,
		Detalles:  string(details),
	}
	if err := s.auditRepo.Log(ctx, log); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// GetAuditLogs retrieves paginated records, newest first, with users preloaded
func (s *auditService) GetAuditLogs(ctx context.Context, p pagination.Params, accion string) ([]AuditLogResponse, int64, error) {
	logs, total, err := s.auditRepo.List(ctx, p, accion)
	if err != nil {
		return nil, 0, apperror.NewInternal(err)
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		nombre := "Sistema"
		usuarioID := ""
		if l.Usuario != nil {
			nombre = l.Usuario.Nombre
		}
		if l.UsuarioID != nil {
			usuarioID = l.UsuarioID.String()
		}

		res = append(res, AuditLogResponse{
			ID:        l.ID.String(),
			UsuarioID: usuarioID,
			Usuario:   nombre,
			Accion:    l.Accion,
			EntidadID: l.EntidadID,
			Entidad:   l.Entidad,
			Detalles:  l.Detalles,
			CreatedAt: l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return res, total, nil
}
