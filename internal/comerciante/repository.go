package comerciante

import (
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Crear(db *gorm.DB, c *Comerciante) error
	BuscarPorID(db *gorm.DB, id uint) (Comerciante, error)
	BuscarPorEmail(db *gorm.DB, email string) (Comerciante, error)
	ExisteEmail(db *gorm.DB, email string) (bool, error)
	Actualizar(db *gorm.DB, c *Comerciante) error
	ActualizarCampos(db *gorm.DB, id uint, campos map[string]interface{}) error
	RegistrarConexion(db *gorm.DB, id uint, momento time.Time, nivel string) error
	Listar(db *gorm.DB) ([]Comerciante, error)
	Eliminar(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Crear(db *gorm.DB, c *Comerciante) error {
	return db.Create(c).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (Comerciante, error) {
	var c Comerciante
	err := db.First(&c, id).Error
	return c, err
}

func (r *repositoryImpl) BuscarPorEmail(db *gorm.DB, email string) (Comerciante, error) {
	var c Comerciante
	err := db.Where("email = ?", email).First(&c).Error
	return c, err
}

func (r *repositoryImpl) ExisteEmail(db *gorm.DB, email string) (bool, error) {
	var total int64
	err := db.Model(&Comerciante{}).Where("email = ?", email).Count(&total).Error
	return total > 0, err
}

func (r *repositoryImpl) Actualizar(db *gorm.DB, c *Comerciante) error {
	return db.Save(c).Error
}

func (r *repositoryImpl) ActualizarCampos(db *gorm.DB, id uint, campos map[string]interface{}) error {
	return db.Model(&Comerciante{}).Where("id = ?", id).Updates(campos).Error
}

// RegistrarConexion estampa la última conexión y sincroniza el nivel derivado
// de los puntos. Se ejecuta en cada login exitoso.
func (r *repositoryImpl) RegistrarConexion(db *gorm.DB, id uint, momento time.Time, nivel string) error {
	return db.Model(&Comerciante{}).Where("id = ?", id).Updates(map[string]interface{}{
		"ultima_conexion": momento,
		"nivel_actual":    nivel,
	}).Error
}

func (r *repositoryImpl) Listar(db *gorm.DB) ([]Comerciante, error) {
	var comerciantes []Comerciante
	err := db.Order("created_at DESC").Find(&comerciantes).Error
	return comerciantes, err
}

func (r *repositoryImpl) Eliminar(db *gorm.DB, id uint) error {
	return db.Delete(&Comerciante{}, id).Error
}
