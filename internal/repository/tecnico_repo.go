package repository

import (
	"taller/internal/model"

	"gorm.io/gorm"
)

func NewTecnicoRepository(db *gorm.DB) CatalogRepository[model.Tecnico] {
	return NewCatalogRepository[model.Tecnico](db, []string{"nombre", "apellido", "telefono"}, "Especializacion")
}

func NewEspecializacionRepository(db *gorm.DB) CatalogRepository[model.Especializacion] {
	return NewCatalogRepository[model.Especializacion](db, []string{"nombre"})
}

func NewMedioCobroRepository(db *gorm.DB) CatalogRepository[model.MedioCobro] {
	return NewCatalogRepository[model.MedioCobro](db, []string{"nombre"})
}
