package model

import "github.com/google/uuid"

// Especializacion is a technician skill area (e.g. "Electrónica", "Impresoras")
type Especializacion struct {
	Base
	Nombre string `gorm:"type:varchar(100);uniqueIndex;not null" json:"nombre"`
}

func (Especializacion) TableName() string { return "especializaciones" }

// Tecnico performs repairs
type Tecnico struct {
	Base
	Nombre            string           `gorm:"type:varchar(100);not null" json:"nombre"`
	Apellido          string           `gorm:"type:varchar(100);not null" json:"apellido"`
	Telefono          string           `gorm:"type:varchar(50)" json:"telefono"`
	EspecializacionID *uuid.UUID       `gorm:"type:uuid;index" json:"especializacion_id"`
	Especializacion   *Especializacion `gorm:"foreignKey:EspecializacionID" json:"especializacion,omitempty"`
}

func (Tecnico) TableName() string { return "tecnicos" }
