package beneficio

import (
	"time"

	"gorm.io/gorm"
)

var Categorias = []string{"DESCUENTOS", "CAPACITACIONES", "PRODUCTOS", "SERVICIOS", "EVENTOS", "OTROS"}

func EsCategoriaValida(categoria string) bool {
	for _, c := range Categorias {
		if c == categoria {
			return true
		}
	}
	return false
}

type Beneficio struct {
	gorm.Model
	Titulo           string     `gorm:"size:150;not null" json:"titulo"`
	Descripcion      string     `gorm:"type:text" json:"descripcion"`
	Foto             string     `gorm:"size:255" json:"foto"`
	Categoria        string     `gorm:"size:30;not null;index" json:"categoria"`
	Vence            *time.Time `json:"vence"`
	Activo           bool       `json:"activo"`
	PuntosRequeridos int        `gorm:"default:0" json:"puntosRequeridos"`
}
