package aviso

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Crear(db *gorm.DB, a *Aviso) error
	BuscarPorID(db *gorm.DB, id uint) (Aviso, error)
	ListarTodos(db *gorm.DB) ([]Aviso, error)
	ListarVigentes(db *gorm.DB, hoy time.Time) ([]Aviso, error)
	MarcarLeidos(db *gorm.DB, comercianteID uint, avisoIDs []uint) error
	ContarNoLeidos(db *gorm.DB, comercianteID uint, hoy time.Time) (int64, error)
	Actualizar(db *gorm.DB, a *Aviso) error
	Eliminar(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Crear(db *gorm.DB, a *Aviso) error {
	return db.Create(a).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (Aviso, error) {
	var a Aviso
	err := db.First(&a, id).Error
	return a, err
}

func (r *repositoryImpl) ListarTodos(db *gorm.DB) ([]Aviso, error) {
	var avisos []Aviso
	err := db.Order("created_at DESC").Find(&avisos).Error
	return avisos, err
}

func (r *repositoryImpl) ListarVigentes(db *gorm.DB, hoy time.Time) ([]Aviso, error) {
	dia := SoloFecha(hoy)
	var avisos []Aviso
	err := db.Where("vence IS NULL OR vence >= ?", dia).
		Order("created_at DESC").
		Find(&avisos).Error
	return avisos, err
}

// MarcarLeidos inserta las filas de lectura que falten; las existentes se
// ignoran, así que la operación es idempotente.
func (r *repositoryImpl) MarcarLeidos(db *gorm.DB, comercianteID uint, avisoIDs []uint) error {
	if len(avisoIDs) == 0 {
		return nil
	}
	lecturas := make([]AvisoLeido, 0, len(avisoIDs))
	for _, id := range avisoIDs {
		lecturas = append(lecturas, AvisoLeido{AvisoID: id, ComercianteID: comercianteID})
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&lecturas).Error
}

// ContarNoLeidos cuenta los avisos vigentes sin fila de lectura del comerciante.
func (r *repositoryImpl) ContarNoLeidos(db *gorm.DB, comercianteID uint, hoy time.Time) (int64, error) {
	dia := SoloFecha(hoy)
	var total int64
	err := db.Model(&Aviso{}).
		Where("(vence IS NULL OR vence >= ?)", dia).
		Where("id NOT IN (?)", db.Model(&AvisoLeido{}).
			Select("aviso_id").
			Where("comerciante_id = ?", comercianteID)).
		Count(&total).Error
	return total, err
}

func (r *repositoryImpl) Actualizar(db *gorm.DB, a *Aviso) error {
	return db.Save(a).Error
}

func (r *repositoryImpl) Eliminar(db *gorm.DB, id uint) error {
	return db.Delete(&Aviso{}, id).Error
}
