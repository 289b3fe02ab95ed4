package aviso

import (
	"time"

	"gorm.io/gorm"
)

var Tipos = []string{"INFORMATIVO", "URGENTE", "MANTENCION", "EVENTO"}

// Aviso es un comunicado del club. Sin fecha de vencimiento queda vigente para
// siempre; con fecha, rige hasta ese día inclusive.
type Aviso struct {
	gorm.Model
	Titulo    string     `gorm:"size:150;not null" json:"titulo"`
	Contenido string     `gorm:"type:text;not null" json:"contenido"`
	Tipo      string     `gorm:"size:20;default:'INFORMATIVO'" json:"tipo"`
	Vence     *time.Time `json:"vence"`
}

// SoloFecha descarta la hora y fija el día en UTC, la misma zona en que se
// guardan las fechas de vencimiento.
func SoloFecha(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EstaVigente evalúa vence IS NULL ∨ vence ≥ hoy (por día calendario).
func (a Aviso) EstaVigente(hoy time.Time) bool {
	if a.Vence == nil {
		return true
	}
	return !SoloFecha(*a.Vence).Before(SoloFecha(hoy))
}

// AvisoLeido registra que un comerciante ya vio un aviso; única por par.
type AvisoLeido struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	AvisoID       uint      `gorm:"not null;uniqueIndex:idx_aviso_leido" json:"avisoId"`
	ComercianteID uint      `gorm:"not null;uniqueIndex:idx_aviso_leido" json:"comercianteId"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (AvisoLeido) TableName() string {
	return "avisos_leidos"
}
