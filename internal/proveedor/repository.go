package proveedor

import (
	"strings"

	"gorm.io/gorm"
)

// TamanoPagina es el tamaño fijo de página del directorio público.
const TamanoPagina = 12

// FiltroDirectorio son los filtros combinables del directorio público.
type FiltroDirectorio struct {
	Categoria string // slug
	Region    string
	Comuna    string
	Cobertura string
	Busqueda  string
	Pagina    int
}

type Repository interface {
	Crear(db *gorm.DB, p *Proveedor) error
	BuscarPorID(db *gorm.DB, id uint) (Proveedor, error)
	BuscarActivo(db *gorm.DB, id uint) (Proveedor, error)
	BuscarPorComerciante(db *gorm.DB, comercianteID uint) (Proveedor, error)
	IDPorComerciante(db *gorm.DB, comercianteID uint) (uint, error)
	Directorio(db *gorm.DB, f FiltroDirectorio) ([]Proveedor, int64, error)
	Actualizar(db *gorm.DB, p *Proveedor) error
	ActualizarCampos(db *gorm.DB, id uint, campos map[string]interface{}) error
	ReemplazarCategorias(db *gorm.DB, p *Proveedor, nombres []string) error
	ListarCategorias(db *gorm.DB) ([]CategoriaProveedor, error)
	SumarVisita(db *gorm.DB, id uint) error
	SumarContactoEnviado(db *gorm.DB, id uint) error
	SumarContactoAceptado(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Crear(db *gorm.DB, p *Proveedor) error {
	return db.Create(p).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (Proveedor, error) {
	var p Proveedor
	err := db.Preload("Categorias").First(&p, id).Error
	return p, err
}

// BuscarActivo es la puerta del perfil público: un proveedor desactivado no
// existe para el directorio.
func (r *repositoryImpl) BuscarActivo(db *gorm.DB, id uint) (Proveedor, error) {
	var p Proveedor
	err := db.Preload("Categorias").Where("activo = ?", true).First(&p, id).Error
	return p, err
}

func (r *repositoryImpl) BuscarPorComerciante(db *gorm.DB, comercianteID uint) (Proveedor, error) {
	var p Proveedor
	err := db.Preload("Categorias").Where("comerciante_id = ?", comercianteID).First(&p).Error
	return p, err
}

func (r *repositoryImpl) IDPorComerciante(db *gorm.DB, comercianteID uint) (uint, error) {
	var p Proveedor
	err := db.Select("id").Where("comerciante_id = ?", comercianteID).First(&p).Error
	return p.ID, err
}

// Directorio lista proveedores activos con los filtros combinados, destacados
// primero y luego los más nuevos, paginado de a TamanoPagina.
func (r *repositoryImpl) Directorio(db *gorm.DB, f FiltroDirectorio) ([]Proveedor, int64, error) {
	consulta := db.Model(&Proveedor{}).Where("proveedores.activo = ?", true)

	if f.Categoria != "" {
		consulta = consulta.
			Joins("JOIN proveedor_categorias pc ON pc.proveedor_id = proveedores.id").
			Joins("JOIN categorias_proveedor cp ON cp.id = pc.categoria_proveedor_id").
			Where("cp.slug = ?", f.Categoria)
	}
	if f.Region != "" {
		consulta = consulta.Where("region = ?", f.Region)
	}
	if f.Comuna != "" {
		consulta = consulta.Where("comuna = ?", f.Comuna)
	}
	if f.Cobertura != "" {
		consulta = consulta.Where("cobertura = ?", f.Cobertura)
	}
	if f.Busqueda != "" {
		patron := "%" + f.Busqueda + "%"
		consulta = consulta.Where("LOWER(nombre_empresa) LIKE LOWER(?) OR LOWER(descripcion) LIKE LOWER(?)", patron, patron)
	}

	var total int64
	if err := consulta.Session(&gorm.Session{}).Distinct("proveedores.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	pagina := f.Pagina
	if pagina < 1 {
		pagina = 1
	}

	var proveedores []Proveedor
	err := consulta.Session(&gorm.Session{}).
		Select("proveedores.*").Distinct().
		Preload("Categorias").
		Order("destacado DESC, created_at DESC").
		Offset((pagina - 1) * TamanoPagina).
		Limit(TamanoPagina).
		Find(&proveedores).Error
	return proveedores, total, err
}

func (r *repositoryImpl) Actualizar(db *gorm.DB, p *Proveedor) error {
	return db.Omit("Categorias").Save(p).Error
}

func (r *repositoryImpl) ActualizarCampos(db *gorm.DB, id uint, campos map[string]interface{}) error {
	return db.Model(&Proveedor{}).Where("id = ?", id).Updates(campos).Error
}

// ReemplazarCategorias sustituye las categorías del proveedor, creando por slug
// las que aún no existen.
func (r *repositoryImpl) ReemplazarCategorias(db *gorm.DB, p *Proveedor, nombres []string) error {
	categorias := make([]CategoriaProveedor, 0, len(nombres))
	for _, nombre := range nombres {
		nombre = strings.TrimSpace(nombre)
		if nombre == "" {
			continue
		}
		slug := Slug(nombre)

		var cat CategoriaProveedor
		err := db.Where("slug = ?", slug).
			Attrs(CategoriaProveedor{Nombre: nombre, Slug: slug}).
			FirstOrCreate(&cat).Error
		if err != nil {
			return err
		}
		categorias = append(categorias, cat)
	}

	if err := db.Model(p).Association("Categorias").Replace(categorias); err != nil {
		return err
	}
	p.Categorias = categorias
	return nil
}

func (r *repositoryImpl) ListarCategorias(db *gorm.DB) ([]CategoriaProveedor, error) {
	var categorias []CategoriaProveedor
	err := db.Order("nombre ASC").Find(&categorias).Error
	return categorias, err
}

func (r *repositoryImpl) SumarVisita(db *gorm.DB, id uint) error {
	return db.Model(&Proveedor{}).Where("id = ?", id).
		Update("visitas", gorm.Expr("visitas + 1")).Error
}

func (r *repositoryImpl) SumarContactoEnviado(db *gorm.DB, id uint) error {
	return db.Model(&Proveedor{}).Where("id = ?", id).
		Update("contactos_enviados", gorm.Expr("contactos_enviados + 1")).Error
}

func (r *repositoryImpl) SumarContactoAceptado(db *gorm.DB, id uint) error {
	return db.Model(&Proveedor{}).Where("id = ?", id).
		Update("contactos_aceptados", gorm.Expr("contactos_aceptados + 1")).Error
}

// Slug normaliza un nombre de categoría a su identificador de URL.
func Slug(nombre string) string {
	bajo := strings.ToLower(strings.TrimSpace(nombre))
	reemplazos := strings.NewReplacer(
		"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n", " ", "-",
	)
	return reemplazos.Replace(bajo)
}
