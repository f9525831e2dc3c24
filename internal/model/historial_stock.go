package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TipoMovimiento classifies a stock ledger row
type TipoMovimiento string

const (
	MovCompra             TipoMovimiento = "COMPRA"
	MovAsignacionRepuesto TipoMovimiento = "ASIGNACION_REPUESTO"
	MovAjuste             TipoMovimiento = "AJUSTE"
	MovDevolucion         TipoMovimiento = "DEVOLUCION"
	MovVenta              TipoMovimiento = "VENTA"
	MovBaja               TipoMovimiento = "BAJA"
)

// Valid reports whether t is a known movement type.
func (t TipoMovimiento) Valid() bool {
	switch t {
	case MovCompra, MovAsignacionRepuesto, MovAjuste, MovDevolucion, MovVenta, MovBaja:
		return true
	}
	return false
}

// Origin type tags as persisted in historial_stock.origen_tipo
const (
	OrigenTipoCompra     = "compra"
	OrigenTipoReparacion = "reparacion_repuesto"
	OrigenTipoAjuste     = "ajuste_stock"
)

// Origen is the record that caused a stock movement. The set of
// implementations is closed: OrigenCompra, OrigenReparacion, OrigenAjuste.
type Origen interface {
	OrigenID() uuid.UUID
	OrigenTipo() string
	sealed()
}

// OrigenCompra points at a Compra
type OrigenCompra struct{ CompraID uuid.UUID }

// OrigenReparacion points at a ReparacionRepuesto assignment
type OrigenReparacion struct{ AsignacionID uuid.UUID }

// OrigenAjuste points at an AjusteStock
type OrigenAjuste struct{ AjusteID uuid.UUID }

func (o OrigenCompra) OrigenID() uuid.UUID { return o.CompraID }
func (OrigenCompra) OrigenTipo() string    { return OrigenTipoCompra }
func (OrigenCompra) sealed()               {}

func (o OrigenReparacion) OrigenID() uuid.UUID { return o.AsignacionID }
func (OrigenReparacion) OrigenTipo() string    { return OrigenTipoReparacion }
func (OrigenReparacion) sealed()               {}

func (o OrigenAjuste) OrigenID() uuid.UUID { return o.AjusteID }
func (OrigenAjuste) OrigenTipo() string    { return OrigenTipoAjuste }
func (OrigenAjuste) sealed()               {}

// ParseOrigen rebuilds the typed origin from its persisted pair.
func ParseOrigen(tipo string, id uuid.UUID) (Origen, error) {
	switch tipo {
	case OrigenTipoCompra:
		return OrigenCompra{CompraID: id}, nil
	case OrigenTipoReparacion:
		return OrigenReparacion{AsignacionID: id}, nil
	case OrigenTipoAjuste:
		return OrigenAjuste{AjusteID: id}, nil
	}
	return nil, fmt.Errorf("unknown stock movement origin %q", tipo)
}

// HistorialStock is an append-only ledger row. It is written in the same
// transaction as the stock update it describes and is never modified.
type HistorialStock struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RepuestoID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"repuesto_id"`
	Repuesto      *Repuesto      `gorm:"foreignKey:RepuestoID" json:"repuesto,omitempty"`
	TipoMov       TipoMovimiento `gorm:"type:varchar(30);not null;index" json:"tipo_mov"`
	Cantidad      int            `gorm:"type:int;not null" json:"cantidad"` // signed delta
	StockAnterior int            `gorm:"type:int;not null" json:"stock_anterior"`
	StockNuevo    int            `gorm:"type:int;not null" json:"stock_nuevo"`
	OrigenID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_historial_origen" json:"origen_id"`
	OrigenTipo    string         `gorm:"type:varchar(30);not null;index:idx_historial_origen" json:"origen_tipo"`
	UsuarioID     *uuid.UUID     `gorm:"type:uuid;index" json:"usuario_id"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
}

func (HistorialStock) TableName() string { return "historial_stock" }

func (h *HistorialStock) BeforeCreate(*gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// SetOrigen stores the typed origin in the persisted columns.
func (h *HistorialStock) SetOrigen(o Origen) {
	h.OrigenID = o.OrigenID()
	h.OrigenTipo = o.OrigenTipo()
}

// Origen decodes the persisted origin columns.
func (h HistorialStock) Origen() (Origen, error) {
	return ParseOrigen(h.OrigenTipo, h.OrigenID)
}

// AjusteStock is a manual stock correction (count adjustment, return, sale, write-off)
type AjusteStock struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RepuestoID uuid.UUID      `gorm:"type:uuid;not null;index" json:"repuesto_id"`
	Tipo       TipoMovimiento `gorm:"type:varchar(30);not null" json:"tipo"`
	Cantidad   int            `gorm:"type:int;not null" json:"cantidad"`
	Motivo     string         `gorm:"type:text" json:"motivo"`
	UsuarioID  *uuid.UUID     `gorm:"type:uuid" json:"usuario_id"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (AjusteStock) TableName() string { return "ajustes_stock" }

func (a *AjusteStock) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
