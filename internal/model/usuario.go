package model

// User types. Permissions are derived from the type, never stored.
const (
	TipoAdministrador = "administrador"
	TipoTecnico       = "tecnico"
	TipoUsuario       = "usuario"
)

// Usuario is an account that can log into the workshop API
type Usuario struct {
	Base
	Nombre   string `gorm:"type:varchar(100);uniqueIndex;not null" json:"nombre"`
	Tipo     string `gorm:"type:varchar(20);not null;index" json:"tipo"`
	Password string `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash, never serialized
}

func (Usuario) TableName() string { return "usuarios" }

// ValidTipo reports whether tipo is one of the known user types.
func ValidTipo(tipo string) bool {
	return tipo == TipoAdministrador || tipo == TipoTecnico || tipo == TipoUsuario
}
