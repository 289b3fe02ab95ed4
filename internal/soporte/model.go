package soporte

import (
	"github.com/clubalmacen/api-comunidad/internal/comerciante"
	"gorm.io/gorm"
)

// Estados del ciclo de vida de un ticket.
const (
	EstadoAbierto   = "ABIERTO"
	EstadoEnProceso = "EN_PROCESO"
	EstadoResuelto  = "RESUELTO"
	EstadoCerrado   = "CERRADO"
)

// Acciones del panel técnico y el estado al que llevan. Cualquier acción se
// acepta desde cualquier estado; una acción desconocida no cambia nada.
var acciones = map[string]string{
	"tomar":    EstadoEnProceso,
	"resolver": EstadoResuelto,
	"cerrar":   EstadoCerrado,
}

// EstadoDeAccion traduce la acción pedida al estado resultante.
func EstadoDeAccion(accion string) (string, bool) {
	estado, ok := acciones[accion]
	return estado, ok
}

type TicketSoporte struct {
	gorm.Model
	Asunto        string                  `gorm:"size:150;not null" json:"asunto"`
	Descripcion   string                  `gorm:"type:text;not null" json:"descripcion"`
	ComercianteID uint                    `gorm:"not null;index" json:"comercianteId"`
	Comerciante   comerciante.Comerciante `gorm:"foreignKey:ComercianteID" json:"-"`
	Estado        string                  `gorm:"size:15;not null;default:'ABIERTO'" json:"estado"`
	TecnicoID     *uint                   `json:"tecnicoId"`
}

func (TicketSoporte) TableName() string {
	return "tickets_soporte"
}
