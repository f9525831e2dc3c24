package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice letters
const (
	LetraA = "A"
	LetraB = "B"
	LetraC = "C"
)

// Factura is issued from exactly one accepted budget whose repair is finished.
// presupuesto_id is unique: at most one invoice per budget.
type Factura struct {
	Base
	PresupuestoID uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"presupuesto_id"`
	Presupuesto   *Presupuesto    `gorm:"foreignKey:PresupuestoID;constraint:OnDelete:CASCADE" json:"presupuesto,omitempty"`
	Numero        string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"numero"`
	Letra         string          `gorm:"type:varchar(1);not null" json:"letra"`
	Fecha         time.Time       `gorm:"not null" json:"fecha"`
	MontoTotal    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"monto_total"`
	Detalle       string          `gorm:"type:text" json:"detalle"`
	Cobros        []Cobro         `gorm:"foreignKey:FacturaID;constraint:OnDelete:CASCADE" json:"cobros,omitempty"`
}

func (Factura) TableName() string { return "facturas" }

// Cobro is a payment applied against an invoice. The sum of an invoice's
// payments never exceeds its total.
type Cobro struct {
	Base
	FacturaID uuid.UUID       `gorm:"type:uuid;not null;index" json:"factura_id"`
	Monto     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"monto"`
	Fecha     time.Time       `gorm:"not null" json:"fecha"`
	Detalles  []DetalleCobro  `gorm:"foreignKey:CobroID;constraint:OnDelete:CASCADE" json:"detalles,omitempty"`
}

func (Cobro) TableName() string { return "cobros" }

// DetalleCobro splits a payment across payment methods
type DetalleCobro struct {
	Base
	CobroID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"cobro_id"`
	MedioCobroID uuid.UUID       `gorm:"type:uuid;not null;index" json:"medio_cobro_id"`
	MedioCobro   *MedioCobro     `gorm:"foreignKey:MedioCobroID" json:"medio_cobro,omitempty"`
	MontoPagado  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"monto_pagado"`
	Fecha        time.Time       `gorm:"not null" json:"fecha"`
}

func (DetalleCobro) TableName() string { return "detalle_cobros" }

// MedioCobro is a payment method lookup (efectivo, transferencia, ...)
type MedioCobro struct {
	Base
	Nombre string `gorm:"type:varchar(100);uniqueIndex;not null" json:"nombre"`
}

func (MedioCobro) TableName() string { return "medios_cobro" }
