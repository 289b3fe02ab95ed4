package promocion

import (
	"time"

	"gorm.io/gorm"
)

// Filtro acota el listado del panel del proveedor.
type Filtro struct {
	Estado   string // "activas" | "inactivas" | ""
	Vigencia string // "vigentes" | "programadas" | "vencidas" | ""
	Buscar   string
	Desde    *time.Time
	Hasta    *time.Time
}

type Repository interface {
	Crear(db *gorm.DB, p *Promocion) error
	BuscarDelProveedor(db *gorm.DB, proveedorID, id uint) (Promocion, error)
	ListarDelProveedor(db *gorm.DB, proveedorID uint, f Filtro, hoy time.Time) ([]Promocion, error)
	VigentesDeProveedor(db *gorm.DB, proveedorID uint, hoy time.Time) ([]Promocion, error)
	ContarVigentes(db *gorm.DB, proveedorID uint, hoy time.Time) (int64, error)
	Actualizar(db *gorm.DB, p *Promocion) error
	EliminarDelProveedor(db *gorm.DB, proveedorID, id uint) (int64, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Crear(db *gorm.DB, p *Promocion) error {
	return db.Create(p).Error
}

func (r *repositoryImpl) BuscarDelProveedor(db *gorm.DB, proveedorID, id uint) (Promocion, error) {
	var p Promocion
	err := db.Where("proveedor_id = ?", proveedorID).First(&p, id).Error
	return p, err
}

func (r *repositoryImpl) ListarDelProveedor(db *gorm.DB, proveedorID uint, f Filtro, hoy time.Time) ([]Promocion, error) {
	dia := SoloFecha(hoy)
	consulta := db.Where("proveedor_id = ?", proveedorID)

	switch f.Estado {
	case "activas":
		consulta = consulta.Where("activo = ?", true)
	case "inactivas":
		consulta = consulta.Where("activo = ?", false)
	}
	switch f.Vigencia {
	case "vigentes":
		consulta = consulta.Where("activo = ? AND fecha_inicio <= ? AND fecha_fin >= ?", true, dia, dia)
	case "programadas":
		consulta = consulta.Where("fecha_inicio > ?", dia)
	case "vencidas":
		consulta = consulta.Where("fecha_fin < ?", dia)
	}
	if f.Buscar != "" {
		patron := "%" + f.Buscar + "%"
		consulta = consulta.Where("LOWER(titulo) LIKE LOWER(?) OR LOWER(descripcion) LIKE LOWER(?)", patron, patron)
	}
	if f.Desde != nil {
		consulta = consulta.Where("fecha_inicio >= ?", SoloFecha(*f.Desde))
	}
	if f.Hasta != nil {
		consulta = consulta.Where("fecha_fin <= ?", SoloFecha(*f.Hasta))
	}

	var promociones []Promocion
	err := consulta.Order("fecha_inicio DESC").Find(&promociones).Error
	return promociones, err
}

// VigentesDeProveedor alimenta la vitrina pública: solo promociones activas
// cuya ventana cubre el día de hoy.
func (r *repositoryImpl) VigentesDeProveedor(db *gorm.DB, proveedorID uint, hoy time.Time) ([]Promocion, error) {
	dia := SoloFecha(hoy)
	var promociones []Promocion
	err := db.Where("proveedor_id = ? AND activo = ? AND fecha_inicio <= ? AND fecha_fin >= ?",
		proveedorID, true, dia, dia).
		Order("fecha_fin ASC").
		Find(&promociones).Error
	return promociones, err
}

func (r *repositoryImpl) ContarVigentes(db *gorm.DB, proveedorID uint, hoy time.Time) (int64, error) {
	dia := SoloFecha(hoy)
	var total int64
	err := db.Model(&Promocion{}).
		Where("proveedor_id = ? AND activo = ? AND fecha_inicio <= ? AND fecha_fin >= ?",
			proveedorID, true, dia, dia).
		Count(&total).Error
	return total, err
}

func (r *repositoryImpl) Actualizar(db *gorm.DB, p *Promocion) error {
	return db.Save(p).Error
}

func (r *repositoryImpl) EliminarDelProveedor(db *gorm.DB, proveedorID, id uint) (int64, error) {
	res := db.Where("proveedor_id = ?", proveedorID).Delete(&Promocion{}, id)
	return res.RowsAffected, res.Error
}
