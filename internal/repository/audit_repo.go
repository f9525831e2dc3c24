package repository

import (
	"context"

	"taller/internal/model"
	"taller/pkg/pagination"

	"gorm.io/gorm"
)

type AuditRepository interface {
	Log(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, p pagination.Params, accion string) ([]model.AuditLog, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	return GetDB(ctx, r.db).Omit("Usuario").Create(entry).Error
}

func (r *auditRepository) List(ctx context.Context, p pagination.Params, accion string) ([]model.AuditLog, int64, error) {
	var logs []model.AuditLog
	var total int64

	db := applyScopes(GetDB(ctx, r.db).Model(&model.AuditLog{}),
		WhereEq("accion", accion),
		SearchScope(p, "entidad", "entidad_id", "detalles"),
	)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Preload("Usuario").Order("created_at desc").Offset(p.Offset).Limit(p.Limit).Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
