package contacto

import (
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Crear(db *gorm.DB, s *SolicitudContacto) error
	BuscarPorID(db *gorm.DB, id uint) (SolicitudContacto, error)
	ListarDelProveedor(db *gorm.DB, proveedorID uint, estado string) ([]SolicitudContacto, error)
	ListarDelComerciante(db *gorm.DB, comercianteID uint) ([]SolicitudContacto, error)
	CambiarEstadoDesdePendiente(db *gorm.DB, id uint, nuevoEstado string, fechaRespuesta *time.Time) (int64, error)
	ContarPendientes(db *gorm.DB, proveedorID uint) (int64, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Crear(db *gorm.DB, s *SolicitudContacto) error {
	return db.Create(s).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (SolicitudContacto, error) {
	var s SolicitudContacto
	err := db.Preload("Comerciante").First(&s, id).Error
	return s, err
}

func (r *repositoryImpl) ListarDelProveedor(db *gorm.DB, proveedorID uint, estado string) ([]SolicitudContacto, error) {
	consulta := db.Preload("Comerciante").Where("proveedor_id = ?", proveedorID)
	if estado != "" && EsEstadoValido(estado) {
		consulta = consulta.Where("estado = ?", estado)
	}

	var solicitudes []SolicitudContacto
	err := consulta.Order("created_at DESC").Find(&solicitudes).Error
	return solicitudes, err
}

func (r *repositoryImpl) ListarDelComerciante(db *gorm.DB, comercianteID uint) ([]SolicitudContacto, error) {
	var solicitudes []SolicitudContacto
	err := db.Where("comerciante_id = ?", comercianteID).
		Order("created_at DESC").
		Find(&solicitudes).Error
	return solicitudes, err
}

// CambiarEstadoDesdePendiente solo transiciona solicitudes pendientes; cero
// filas afectadas significa que ya fue respondida o cancelada. Este guard evita
// el doble conteo al aceptar dos veces.
func (r *repositoryImpl) CambiarEstadoDesdePendiente(db *gorm.DB, id uint, nuevoEstado string, fechaRespuesta *time.Time) (int64, error) {
	campos := map[string]interface{}{"estado": nuevoEstado}
	if fechaRespuesta != nil {
		campos["fecha_respuesta"] = *fechaRespuesta
	}
	res := db.Model(&SolicitudContacto{}).
		Where("id = ? AND estado = ?", id, EstadoPendiente).
		Updates(campos)
	return res.RowsAffected, res.Error
}

func (r *repositoryImpl) ContarPendientes(db *gorm.DB, proveedorID uint) (int64, error) {
	var total int64
	err := db.Model(&SolicitudContacto{}).
		Where("proveedor_id = ? AND estado = ?", proveedorID, EstadoPendiente).
		Count(&total).Error
	return total, err
}
