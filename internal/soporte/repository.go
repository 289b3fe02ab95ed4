package soporte

import "gorm.io/gorm"

type Repository interface {
	Crear(db *gorm.DB, t *TicketSoporte) error
	BuscarPorID(db *gorm.DB, id uint) (TicketSoporte, error)
	ListarTodos(db *gorm.DB, estado string) ([]TicketSoporte, error)
	ListarDelComerciante(db *gorm.DB, comercianteID uint) ([]TicketSoporte, error)
	AplicarAccion(db *gorm.DB, id uint, estado string, tecnicoID uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Crear(db *gorm.DB, t *TicketSoporte) error {
	return db.Create(t).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (TicketSoporte, error) {
	var t TicketSoporte
	err := db.Preload("Comerciante").First(&t, id).Error
	return t, err
}

func (r *repositoryImpl) ListarTodos(db *gorm.DB, estado string) ([]TicketSoporte, error) {
	consulta := db.Preload("Comerciante")
	if estado != "" {
		consulta = consulta.Where("estado = ?", estado)
	}

	var tickets []TicketSoporte
	err := consulta.Order("created_at DESC").Find(&tickets).Error
	return tickets, err
}

func (r *repositoryImpl) ListarDelComerciante(db *gorm.DB, comercianteID uint) ([]TicketSoporte, error) {
	var tickets []TicketSoporte
	err := db.Where("comerciante_id = ?", comercianteID).
		Order("created_at DESC").
		Find(&tickets).Error
	return tickets, err
}

// AplicarAccion cambia el estado y estampa siempre al técnico que actuó.
func (r *repositoryImpl) AplicarAccion(db *gorm.DB, id uint, estado string, tecnicoID uint) error {
	return db.Model(&TicketSoporte{}).Where("id = ?", id).Updates(map[string]interface{}{
		"estado":     estado,
		"tecnico_id": tecnicoID,
	}).Error
}
