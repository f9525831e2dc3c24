package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionCreateFactura = "CREATE_FACTURA"
	ActionUpdateFactura = "UPDATE_FACTURA"
	ActionDeleteFactura = "DELETE_FACTURA"
	ActionCreateCobro   = "CREATE_COBRO"
	ActionCreateCompra  = "CREATE_COMPRA"
	ActionAjusteStock   = "AJUSTE_STOCK"
	ActionAsignarRep    = "ASIGNAR_REPUESTO"
	ActionAceptarPresup = "ACEPTAR_PRESUPUESTO"
)

// AuditLog tracks Who, What, and When for billing and stock changes
type AuditLog struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UsuarioID *uuid.UUID `gorm:"type:uuid;index" json:"usuario_id"` // nil for system/seed actions
	Usuario   *Usuario   `gorm:"foreignKey:UsuarioID" json:"usuario,omitempty"`
	Accion    string     `gorm:"type:varchar(50);not null;index" json:"accion"`
	EntidadID string     `gorm:"type:varchar(50);index" json:"entidad_id"`
	Entidad   string     `gorm:"type:varchar(255)" json:"entidad,omitempty"` // human readable name
	Detalles  string     `gorm:"type:text" json:"detalles"`                  // serialized JSON payload of the action
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
}

func (AuditLog) TableName() string { return "auditoria" }

func (a *AuditLog) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
