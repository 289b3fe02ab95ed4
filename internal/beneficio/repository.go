package beneficio

import "gorm.io/gorm"

// ordenes es la lista blanca de claves de ordenamiento del catálogo. Cualquier
// clave desconocida cae en "más recientes primero".
var ordenes = map[string]string{
	"vence":              "vence ASC",
	"-vence":             "vence DESC",
	"puntos_requeridos":  "puntos_requeridos ASC",
	"-puntos_requeridos": "puntos_requeridos DESC",
	"-fecha_creacion":    "created_at DESC",
}

const ordenPorDefecto = "created_at DESC"

// OrdenSQL resuelve la clave pedida contra la lista blanca.
func OrdenSQL(clave string) string {
	if orden, ok := ordenes[clave]; ok {
		return orden
	}
	return ordenPorDefecto
}

type Repository interface {
	Crear(db *gorm.DB, b *Beneficio) error
	BuscarPorID(db *gorm.DB, id uint) (Beneficio, error)
	ListarActivos(db *gorm.DB, categoria, orden string) ([]Beneficio, error)
	ListarTodos(db *gorm.DB) ([]Beneficio, error)
	Actualizar(db *gorm.DB, b *Beneficio) error
	Eliminar(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Crear(db *gorm.DB, b *Beneficio) error {
	return db.Create(b).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (Beneficio, error) {
	var b Beneficio
	err := db.First(&b, id).Error
	return b, err
}

// ListarActivos arma el catálogo público: solo beneficios activos, filtrados por
// categoría ("TODOS" o vacío no filtra) y ordenados por la clave pedida.
func (r *repositoryImpl) ListarActivos(db *gorm.DB, categoria, orden string) ([]Beneficio, error) {
	consulta := db.Where("activo = ?", true)
	if categoria != "" && categoria != "TODOS" {
		consulta = consulta.Where("categoria = ?", categoria)
	}

	var beneficios []Beneficio
	err := consulta.Order(OrdenSQL(orden)).Find(&beneficios).Error
	return beneficios, err
}

func (r *repositoryImpl) ListarTodos(db *gorm.DB) ([]Beneficio, error) {
	var beneficios []Beneficio
	err := db.Order("created_at DESC").Find(&beneficios).Error
	return beneficios, err
}

func (r *repositoryImpl) Actualizar(db *gorm.DB, b *Beneficio) error {
	return db.Save(b).Error
}

func (r *repositoryImpl) Eliminar(db *gorm.DB, id uint) error {
	return db.Delete(&Beneficio{}, id).Error
}
