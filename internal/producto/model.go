package producto

import "gorm.io/gorm"

var Categorias = []string{"ALIMENTOS", "BEBIDAS", "ROPA", "HOGAR", "SERVICIOS", "OTRO"}

func EsCategoriaValida(categoria string) bool {
	for _, c := range Categorias {
		if c == categoria {
			return true
		}
	}
	return false
}

// Producto pertenece siempre a un proveedor; todas las operaciones se acotan al
// dueño.
type Producto struct {
	gorm.Model
	ProveedorID      uint    `gorm:"not null;index" json:"proveedorId"`
	Nombre           string  `gorm:"size:150;not null" json:"nombre"`
	Descripcion      string  `gorm:"type:text" json:"descripcion"`
	PrecioReferencia float64 `json:"precioReferencia"`
	Imagen           string  `gorm:"size:255" json:"imagen"`
	Categoria        string  `gorm:"size:30;not null" json:"categoria"`
	Activo           bool    `json:"activo"`
	Destacado        bool    `json:"destacado"`
}
