package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repuesto is a spare part kept in inventory. Stock is only changed through
// the stock ledger (purchases, repair assignments, adjustments).
type Repuesto struct {
	Base
	Nombre    string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"nombre"`
	Stock     int             `gorm:"type:int;default:0;not null" json:"stock"`
	CostoBase decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"costo_base"`
}

func (Repuesto) TableName() string { return "repuestos" }

// Compra is a parts purchase. Creating one appends a COMPRA movement.
type Compra struct {
	Base
	ProveedorID   *uuid.UUID      `gorm:"type:uuid;index" json:"proveedor_id"`
	Proveedor     *Proveedor      `gorm:"foreignKey:ProveedorID" json:"proveedor,omitempty"`
	RepuestoID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"repuesto_id"`
	Repuesto      *Repuesto       `gorm:"foreignKey:RepuestoID" json:"repuesto,omitempty"`
	Cantidad      int             `gorm:"type:int;not null" json:"cantidad"`
	CostoUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"costo_unitario"`
	Fecha         time.Time       `gorm:"not null" json:"fecha"`
	UsuarioID     *uuid.UUID      `gorm:"type:uuid" json:"usuario_id"`
}

func (Compra) TableName() string { return "compras" }
