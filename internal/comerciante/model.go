package comerciante

import (
	"time"

	"gorm.io/gorm"
)

// Roles del sistema. El rol determina la pantalla de aterrizaje tras el login y
// los permisos de publicación en el foro.
const (
	RolComerciante = "COMERCIANTE"
	RolProveedor   = "PROVEEDOR"
	RolAdmin       = "ADMIN"
	RolTecnico     = "TECNICO"
)

type Comerciante struct {
	gorm.Model
	NombreApellido  string     `gorm:"size:100;not null" json:"nombreApellido"`
	Email           string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash    string     `gorm:"size:255;not null" json:"-"`
	Whatsapp        string     `gorm:"size:12" json:"whatsapp"`
	Rol             string     `gorm:"size:20;not null;default:'COMERCIANTE'" json:"rol"`
	RelacionNegocio string     `gorm:"size:50" json:"relacionNegocio"`
	TipoNegocio     string     `gorm:"size:50" json:"tipoNegocio"`
	Comuna          string     `gorm:"size:50" json:"comuna"`
	NombreNegocio   string     `gorm:"size:100" json:"nombreNegocio"`
	FotoPerfil      string     `gorm:"size:255" json:"fotoPerfil"`
	EsProveedor     bool       `gorm:"default:false" json:"esProveedor"`
	Intereses       string     `gorm:"size:255" json:"intereses"` // códigos separados por coma
	Puntos          int        `gorm:"default:0" json:"puntos"`
	NivelActual     string     `gorm:"size:20;default:'BRONCE'" json:"nivelActual"`
	UltimaConexion  *time.Time `json:"ultimaConexion"`
}
