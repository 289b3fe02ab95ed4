package contacto

import (
	"time"

	"github.com/clubalmacen/api-comunidad/internal/comerciante"
	"gorm.io/gorm"
)

// Estados de una solicitud de contacto. Solo una solicitud pendiente puede
// cambiar de estado.
const (
	EstadoPendiente = "pendiente"
	EstadoAceptada  = "aceptada"
	EstadoRechazada = "rechazada"
	EstadoCancelada = "cancelada"
)

func EsEstadoValido(estado string) bool {
	switch estado {
	case EstadoPendiente, EstadoAceptada, EstadoRechazada, EstadoCancelada:
		return true
	}
	return false
}

type SolicitudContacto struct {
	gorm.Model
	ProveedorID    uint                    `gorm:"not null;index" json:"proveedorId"`
	ComercianteID  uint                    `gorm:"not null;index" json:"comercianteId"`
	Comerciante    comerciante.Comerciante `gorm:"foreignKey:ComercianteID" json:"-"`
	Mensaje        string                  `gorm:"type:text" json:"mensaje"`
	Estado         string                  `gorm:"size:15;not null;default:'pendiente'" json:"estado"`
	FechaRespuesta *time.Time              `json:"fechaRespuesta"`
}

func (SolicitudContacto) TableName() string {
	return "solicitudes_contacto"
}
