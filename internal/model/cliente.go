package model

import "github.com/google/uuid"

// Cliente is a workshop customer
type Cliente struct {
	Base
	Nombre    string   `gorm:"type:varchar(100);not null" json:"nombre"`
	Apellido  string   `gorm:"type:varchar(100);not null" json:"apellido"`
	DNI       string   `gorm:"column:dni;type:varchar(20);uniqueIndex;not null" json:"dni"`
	Email     *string  `gorm:"type:varchar(255);uniqueIndex" json:"email"` // optional, unique when present
	Telefono  string   `gorm:"type:varchar(50)" json:"telefono"`
	Direccion string   `gorm:"type:varchar(255)" json:"direccion"`
	Equipos   []Equipo `gorm:"foreignKey:ClienteID" json:"equipos,omitempty"`
}

func (Cliente) TableName() string { return "clientes" }

// Equipo is a device brought in by a client for repair
type Equipo struct {
	Base
	ClienteID   uuid.UUID `gorm:"type:uuid;not null;index" json:"cliente_id"`
	Cliente     *Cliente  `gorm:"foreignKey:ClienteID" json:"cliente,omitempty"`
	Tipo        string    `gorm:"type:varchar(100);not null" json:"tipo"` // notebook, impresora, celular...
	Marca       string    `gorm:"type:varchar(100)" json:"marca"`
	Modelo      string    `gorm:"type:varchar(100)" json:"modelo"`
	NumeroSerie string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"numero_serie"`
}

func (Equipo) TableName() string { return "equipos" }
