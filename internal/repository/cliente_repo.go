package repository

import (
	"taller/internal/model"

	"gorm.io/gorm"
)

func NewClienteRepository(db *gorm.DB) CatalogRepository[model.Cliente] {
	return NewCatalogRepository[model.Cliente](db, []string{"nombre", "apellido", "dni", "email"})
}

func NewEquipoRepository(db *gorm.DB) CatalogRepository[model.Equipo] {
	return NewCatalogRepository[model.Equipo](db, []string{"tipo", "marca", "modelo", "numero_serie"}, "Cliente")
}
