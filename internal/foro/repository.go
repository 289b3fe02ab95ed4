package foro

import (
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	CrearPublicacion(db *gorm.DB, p *Publicacion) error
	BuscarPublicacion(db *gorm.DB, id uint) (Publicacion, error)
	ListarPublicaciones(db *gorm.DB, categorias []string, categoria string) ([]Publicacion, error)
	ActualizarPublicacion(db *gorm.DB, p *Publicacion) error
	EliminarPublicacion(db *gorm.DB, id uint) error

	CrearComentario(db *gorm.DB, c *Comentario) error
	BuscarComentario(db *gorm.DB, id uint) (Comentario, error)
	ListarComentarios(db *gorm.DB, publicacionID uint) ([]Comentario, error)
	EliminarComentario(db *gorm.DB, id uint) error

	ContarComentarios(db *gorm.DB, publicacionIDs []uint) (map[uint]int64, error)
	ContarLikes(db *gorm.DB, publicacionIDs []uint) (map[uint]int64, error)
	LikesDelComerciante(db *gorm.DB, comercianteID uint, publicacionIDs []uint) (map[uint]bool, error)
	ToggleLike(db *gorm.DB, publicacionID, comercianteID uint) (bool, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) CrearPublicacion(db *gorm.DB, p *Publicacion) error {
	return db.Create(p).Error
}

func (r *repositoryImpl) BuscarPublicacion(db *gorm.DB, id uint) (Publicacion, error) {
	var p Publicacion
	err := db.Preload("Comerciante").First(&p, id).Error
	return p, err
}

// ListarPublicaciones trae la partición indicada, opcionalmente acotada a una
// categoría que pertenezca a ella, de la más nueva a la más antigua.
func (r *repositoryImpl) ListarPublicaciones(db *gorm.DB, categorias []string, categoria string) ([]Publicacion, error) {
	consulta := db.Preload("Comerciante").Where("categoria IN ?", categorias)
	if categoria != "" && contiene(categorias, categoria) {
		consulta = consulta.Where("categoria = ?", categoria)
	}

	var publicaciones []Publicacion
	err := consulta.Order("created_at DESC").Find(&publicaciones).Error
	return publicaciones, err
}

func (r *repositoryImpl) ActualizarPublicacion(db *gorm.DB, p *Publicacion) error {
	return db.Save(p).Error
}

func (r *repositoryImpl) EliminarPublicacion(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("publicacion_id = ?", id).Delete(&Comentario{}).Error; err != nil {
			return err
		}
		if err := tx.Where("publicacion_id = ?", id).Delete(&Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Publicacion{}, id).Error
	})
}

func (r *repositoryImpl) CrearComentario(db *gorm.DB, c *Comentario) error {
	return db.Create(c).Error
}

func (r *repositoryImpl) BuscarComentario(db *gorm.DB, id uint) (Comentario, error) {
	var c Comentario
	err := db.Preload("Comerciante").First(&c, id).Error
	return c, err
}

func (r *repositoryImpl) ListarComentarios(db *gorm.DB, publicacionID uint) ([]Comentario, error) {
	var comentarios []Comentario
	err := db.Preload("Comerciante").
		Where("publicacion_id = ?", publicacionID).
		Order("created_at ASC").
		Find(&comentarios).Error
	return comentarios, err
}

func (r *repositoryImpl) EliminarComentario(db *gorm.DB, id uint) error {
	return db.Delete(&Comentario{}, id).Error
}

type conteoPorPublicacion struct {
	PublicacionID uint
	Total         int64
}

func (r *repositoryImpl) ContarComentarios(db *gorm.DB, publicacionIDs []uint) (map[uint]int64, error) {
	return contarAgrupado(db, &Comentario{}, publicacionIDs)
}

func (r *repositoryImpl) ContarLikes(db *gorm.DB, publicacionIDs []uint) (map[uint]int64, error) {
	return contarAgrupado(db, &Like{}, publicacionIDs)
}

func contarAgrupado(db *gorm.DB, modelo interface{}, publicacionIDs []uint) (map[uint]int64, error) {
	conteos := map[uint]int64{}
	if len(publicacionIDs) == 0 {
		return conteos, nil
	}

	var filas []conteoPorPublicacion
	err := db.Model(modelo).
		Select("publicacion_id, COUNT(*) AS total").
		Where("publicacion_id IN ?", publicacionIDs).
		Group("publicacion_id").
		Scan(&filas).Error
	if err != nil {
		return nil, err
	}
	for _, f := range filas {
		conteos[f.PublicacionID] = f.Total
	}
	return conteos, nil
}

func (r *repositoryImpl) LikesDelComerciante(db *gorm.DB, comercianteID uint, publicacionIDs []uint) (map[uint]bool, error) {
	marcados := map[uint]bool{}
	if len(publicacionIDs) == 0 {
		return marcados, nil
	}

	var likes []Like
	err := db.Where("comerciante_id = ? AND publicacion_id IN ?", comercianteID, publicacionIDs).
		Find(&likes).Error
	if err != nil {
		return nil, err
	}
	for _, l := range likes {
		marcados[l.PublicacionID] = true
	}
	return marcados, nil
}

// ToggleLike crea el like si no existe y lo elimina si ya existía. Devuelve el
// estado resultante.
func (r *repositoryImpl) ToggleLike(db *gorm.DB, publicacionID, comercianteID uint) (bool, error) {
	var activo bool
	err := db.Transaction(func(tx *gorm.DB) error {
		var existente Like
		err := tx.Where("publicacion_id = ? AND comerciante_id = ?", publicacionID, comercianteID).
			First(&existente).Error
		if err == nil {
			activo = false
			return tx.Unscoped().Delete(&existente).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		activo = true
		return tx.Create(&Like{PublicacionID: publicacionID, ComercianteID: comercianteID}).Error
	})
	return activo, err
}
