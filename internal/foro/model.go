package foro

import (
	"github.com/clubalmacen/api-comunidad/internal/comerciante"
	"gorm.io/gorm"
)

type Publicacion struct {
	gorm.Model
	ComercianteID uint                    `gorm:"not null;index" json:"comercianteId"`
	Comerciante   comerciante.Comerciante `gorm:"foreignKey:ComercianteID" json:"-"`
	Titulo        string                  `gorm:"size:150" json:"titulo"`
	Contenido     string                  `gorm:"type:text;not null" json:"contenido"`
	Categoria     string                  `gorm:"size:30;not null;index" json:"categoria"`
	ImagenURL     string                  `gorm:"size:255" json:"imagenUrl"`
	Etiquetas     string                  `gorm:"size:255" json:"etiquetas"`
}

type Comentario struct {
	gorm.Model
	PublicacionID uint                    `gorm:"not null;index" json:"publicacionId"`
	ComercianteID uint                    `gorm:"not null" json:"comercianteId"`
	Comerciante   comerciante.Comerciante `gorm:"foreignKey:ComercianteID" json:"-"`
	Contenido     string                  `gorm:"type:text;not null" json:"contenido"`
}

// Like es único por (publicación, comerciante); el endpoint de like lo alterna.
type Like struct {
	gorm.Model
	PublicacionID uint `gorm:"not null;uniqueIndex:idx_like_unico" json:"publicacionId"`
	ComercianteID uint `gorm:"not null;uniqueIndex:idx_like_unico" json:"comercianteId"`
}
