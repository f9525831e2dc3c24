package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Proveedor is a parts supplier
type Proveedor struct {
	Base
	RazonSocial string              `gorm:"type:varchar(255);not null" json:"razon_social"`
	CUIT        string              `gorm:"column:cuit;type:varchar(20);uniqueIndex;not null" json:"cuit"`
	Email       string              `gorm:"type:varchar(255)" json:"email"`
	Telefono    string              `gorm:"type:varchar(50)" json:"telefono"`
	Direccion   string              `gorm:"type:varchar(255)" json:"direccion"`
	Activo      bool                `gorm:"not null" json:"activo"`
	Repuestos   []ProveedorRepuesto `gorm:"foreignKey:ProveedorID;constraint:OnDelete:CASCADE" json:"repuestos,omitempty"`
}

// TableName overrides GORM's default pluralization (proveedors → proveedores).
func (Proveedor) TableName() string { return "proveedores" }

// ProveedorRepuesto links a supplier with a part it sells and its price
type ProveedorRepuesto struct {
	Base
	ProveedorID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_proveedor_repuesto" json:"proveedor_id"`
	RepuestoID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_proveedor_repuesto" json:"repuesto_id"`
	Repuesto    *Repuesto       `gorm:"foreignKey:RepuestoID" json:"repuesto,omitempty"`
	Precio      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"precio"`
	Activo      bool            `gorm:"not null" json:"activo"`
}

func (ProveedorRepuesto) TableName() string { return "proveedor_repuestos" }
