package producto

import "gorm.io/gorm"

// Filtro acota el listado del panel del proveedor.
type Filtro struct {
	Categoria string
	Estado    string // "activos" | "inactivos" | ""
	Buscar    string
}

type Repository interface {
	Crear(db *gorm.DB, p *Producto) error
	BuscarDelProveedor(db *gorm.DB, proveedorID, id uint) (Producto, error)
	ListarDelProveedor(db *gorm.DB, proveedorID uint, f Filtro) ([]Producto, error)
	ActivosDeProveedor(db *gorm.DB, proveedorID uint) ([]Producto, error)
	ContarDelProveedor(db *gorm.DB, proveedorID uint) (int64, error)
	Actualizar(db *gorm.DB, p *Producto) error
	EliminarDelProveedor(db *gorm.DB, proveedorID, id uint) (int64, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Crear(db *gorm.DB, p *Producto) error {
	return db.Create(p).Error
}

// BuscarDelProveedor filtra siempre por dueño: adivinar el id de un producto
// ajeno termina en registro no encontrado.
func (r *repositoryImpl) BuscarDelProveedor(db *gorm.DB, proveedorID, id uint) (Producto, error) {
	var p Producto
	err := db.Where("proveedor_id = ?", proveedorID).First(&p, id).Error
	return p, err
}

func (r *repositoryImpl) ListarDelProveedor(db *gorm.DB, proveedorID uint, f Filtro) ([]Producto, error) {
	consulta := db.Where("proveedor_id = ?", proveedorID)
	if f.Categoria != "" {
		consulta = consulta.Where("categoria = ?", f.Categoria)
	}
	switch f.Estado {
	case "activos":
		consulta = consulta.Where("activo = ?", true)
	case "inactivos":
		consulta = consulta.Where("activo = ?", false)
	}
	if f.Buscar != "" {
		patron := "%" + f.Buscar + "%"
		consulta = consulta.Where("LOWER(nombre) LIKE LOWER(?) OR LOWER(descripcion) LIKE LOWER(?)", patron, patron)
	}

	var productos []Producto
	err := consulta.Order("destacado DESC, created_at DESC").Find(&productos).Error
	return productos, err
}

// ActivosDeProveedor alimenta la vitrina pública del proveedor.
func (r *repositoryImpl) ActivosDeProveedor(db *gorm.DB, proveedorID uint) ([]Producto, error) {
	var productos []Producto
	err := db.Where("proveedor_id = ? AND activo = ?", proveedorID, true).
		Order("destacado DESC, created_at DESC").
		Find(&productos).Error
	return productos, err
}

func (r *repositoryImpl) ContarDelProveedor(db *gorm.DB, proveedorID uint) (int64, error) {
	var total int64
	err := db.Model(&Producto{}).Where("proveedor_id = ?", proveedorID).Count(&total).Error
	return total, err
}

func (r *repositoryImpl) Actualizar(db *gorm.DB, p *Producto) error {
	return db.Save(p).Error
}

// EliminarDelProveedor devuelve cuántas filas borró: cero significa que el
// producto no existe o pertenece a otro proveedor.
func (r *repositoryImpl) EliminarDelProveedor(db *gorm.DB, proveedorID, id uint) (int64, error) {
	res := db.Where("proveedor_id = ?", proveedorID).Delete(&Producto{}, id)
	return res.RowsAffected, res.Error
}
