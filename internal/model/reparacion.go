package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repair states seen in practice. The column is free text; only
// EstadoFinalizada carries a rule (it gates invoicing).
const (
	EstadoPendiente  = "pendiente"
	EstadoEnProceso  = "en_proceso"
	EstadoFinalizada = "finalizada"
	EstadoCancelada  = "cancelada"
)

// Reparacion associates an equipment with the technician working on it
type Reparacion struct {
	Base
	EquipoID    uuid.UUID `gorm:"type:uuid;not null;index" json:"equipo_id"`
	Equipo      *Equipo   `gorm:"foreignKey:EquipoID" json:"equipo,omitempty"`
	TecnicoID   uuid.UUID `gorm:"type:uuid;not null;index" json:"tecnico_id"`
	Tecnico     *Tecnico  `gorm:"foreignKey:TecnicoID" json:"tecnico,omitempty"`
	Descripcion string    `gorm:"type:text;not null" json:"descripcion"`
	Fecha       time.Time `gorm:"not null" json:"fecha"`
	Estado      string    `gorm:"type:varchar(30);not null;default:'pendiente';index" json:"estado"`
}

func (Reparacion) TableName() string { return "reparaciones" }

// Finalizada compares the state case-insensitively against "finalizada".
func (r Reparacion) Finalizada() bool {
	return strings.EqualFold(strings.TrimSpace(r.Estado), EstadoFinalizada)
}

// Presupuesto is a cost proposal for a repair. Only accepted budgets can be invoiced.
type Presupuesto struct {
	Base
	ReparacionID uuid.UUID        `gorm:"type:uuid;not null;index" json:"reparacion_id"`
	Reparacion   *Reparacion      `gorm:"foreignKey:ReparacionID" json:"reparacion,omitempty"`
	Fecha        time.Time        `gorm:"not null" json:"fecha"`
	MontoTotal   *decimal.Decimal `gorm:"type:decimal(12,2)" json:"monto_total"`
	Aceptado     bool             `gorm:"not null;default:false" json:"aceptado"`
}

func (Presupuesto) TableName() string { return "presupuestos" }

// ReparacionRepuesto records parts consumed by a repair. Each row has a
// matching ASIGNACION_REPUESTO movement in the stock ledger.
type ReparacionRepuesto struct {
	Base
	ReparacionID uuid.UUID  `gorm:"type:uuid;not null;index" json:"reparacion_id"`
	RepuestoID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"repuesto_id"`
	Repuesto     *Repuesto  `gorm:"foreignKey:RepuestoID" json:"repuesto,omitempty"`
	Cantidad     int        `gorm:"type:int;not null" json:"cantidad"`
	UsuarioID    *uuid.UUID `gorm:"type:uuid" json:"usuario_id"`
}

func (ReparacionRepuesto) TableName() string { return "reparacion_repuestos" }
