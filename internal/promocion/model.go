package promocion

import (
	"time"

	"gorm.io/gorm"
)

// Promocion tiene una ventana de vigencia con ambos extremos inclusivos.
type Promocion struct {
	gorm.Model
	ProveedorID uint      `gorm:"not null;index" json:"proveedorId"`
	Titulo      string    `gorm:"size:150;not null" json:"titulo"`
	Descripcion string    `gorm:"type:text" json:"descripcion"`
	Imagen      string    `gorm:"size:255" json:"imagen"`
	FechaInicio time.Time `gorm:"not null" json:"fechaInicio"`
	FechaFin    time.Time `gorm:"not null" json:"fechaFin"`
	Activo      bool      `json:"activo"`
}

func (Promocion) TableName() string {
	return "promociones"
}

// SoloFecha descarta la hora y fija el día en UTC, la misma zona en que se
// guardan las fechas de vigencia. Así la comparación es por día calendario
// aunque el servidor corra en otra zona horaria.
func SoloFecha(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EstaVigente evalúa activo ∧ inicio ≤ día ≤ fin, con ambos límites inclusivos.
func (p Promocion) EstaVigente(hoy time.Time) bool {
	if !p.Activo {
		return false
	}
	dia := SoloFecha(hoy)
	return !dia.Before(SoloFecha(p.FechaInicio)) && !dia.After(SoloFecha(p.FechaFin))
}
