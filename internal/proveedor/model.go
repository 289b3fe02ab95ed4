package proveedor

import (
	"time"

	"github.com/clubalmacen/api-comunidad/internal/comerciante"
	"gorm.io/gorm"
)

// Coberturas geográficas posibles de un proveedor, de menor a mayor alcance.
var Coberturas = []string{"local", "comunal", "regional", "nacional", "internacional"}

func EsCoberturaValida(cobertura string) bool {
	for _, c := range Coberturas {
		if c == cobertura {
			return true
		}
	}
	return false
}

type CategoriaProveedor struct {
	gorm.Model
	Nombre string `gorm:"size:60;not null" json:"nombre"`
	Slug   string `gorm:"size:60;uniqueIndex;not null" json:"slug"`
}

func (CategoriaProveedor) TableName() string {
	return "categorias_proveedor"
}

// Proveedor es el perfil comercial público de un comerciante. Los contadores de
// visitas y contactos se actualizan siempre con UPDATE atómicos.
type Proveedor struct {
	gorm.Model
	ComercianteID uint                    `gorm:"uniqueIndex;not null" json:"comercianteId"`
	Comerciante   comerciante.Comerciante `gorm:"foreignKey:ComercianteID" json:"-"`

	NombreEmpresa string               `gorm:"size:150;not null" json:"nombreEmpresa"`
	Descripcion   string               `gorm:"type:text" json:"descripcion"`
	Categorias    []CategoriaProveedor `gorm:"many2many:proveedor_categorias" json:"categorias"`

	Email     string `gorm:"size:255;not null" json:"email"`
	Telefono  string `gorm:"size:20" json:"telefono"`
	Whatsapp  string `gorm:"size:12" json:"whatsapp"`
	SitioWeb  string `gorm:"size:255" json:"sitioWeb"`
	Instagram string `gorm:"size:255" json:"instagram"`
	Facebook  string `gorm:"size:255" json:"facebook"`
	Logo      string `gorm:"size:255" json:"logo"`

	Pais      string `gorm:"size:60;default:'Chile'" json:"pais"`
	Region    string `gorm:"size:10;index" json:"region"`
	Comuna    string `gorm:"size:60;index" json:"comuna"`
	Direccion string `gorm:"size:255" json:"direccion"`
	Cobertura string `gorm:"size:20" json:"cobertura"`

	Activo     bool `json:"activo"`
	Verificado bool `json:"verificado"`
	Destacado  bool `json:"destacado"`

	Visitas            int `json:"visitas"`
	ContactosEnviados  int `json:"contactosEnviados"`
	ContactosAceptados int `json:"contactosAceptados"`

	UltimaConexion *time.Time `json:"ultimaConexion"`
}

func (Proveedor) TableName() string {
	return "proveedores"
}

// TasaAceptacion es el porcentaje de solicitudes de contacto aceptadas.
func (p Proveedor) TasaAceptacion() int {
	if p.ContactosEnviados == 0 {
		return 0
	}
	return p.ContactosAceptados * 100 / p.ContactosEnviados
}
