package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estadisticas aggregates billing totals for a period plus repair counts by state
type Estadisticas struct {
	TotalFacturado        decimal.Decimal  `json:"total_facturado"`
	TotalCobrado          decimal.Decimal  `json:"total_cobrado"`
	SaldoPendiente        decimal.Decimal  `json:"saldo_pendiente"`
	CantidadFacturas      int64            `json:"cantidad_facturas"`
	ReparacionesPorEstado []EstadoCantidad `json:"reparaciones_por_estado"`
	RepuestosSinStock     int64            `json:"repuestos_sin_stock"`
	TimeRangeStartDate    time.Time        `json:"time_range_start_date"`
	TimeRangeEndDate      time.Time        `json:"time_range_end_date"`
}

// EstadoCantidad is the number of repairs in a given state
type EstadoCantidad struct {
	Estado   string `json:"estado"`
	Cantidad int64  `json:"cantidad"`
}
