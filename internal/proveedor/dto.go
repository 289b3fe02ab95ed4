package proveedor

import (
	"github.com/clubalmacen/api-comunidad/internal/producto"
	"github.com/clubalmacen/api-comunidad/internal/promocion"
)

type PerfilRequest struct {
	NombreEmpresa string   `json:"nombreEmpresa" validate:"required,min=2,max=150"`
	Descripcion   string   `json:"descripcion"`
	Categorias    []string `json:"categorias" validate:"max=10,dive,max=60"`
	Email         string   `json:"email" validate:"omitempty,email"`
	Telefono      string   `json:"telefono" validate:"max=20"`
	Whatsapp      string   `json:"whatsapp"`
	SitioWeb      string   `json:"sitioWeb" validate:"omitempty,url,max=255"`
	Instagram     string   `json:"instagram" validate:"max=255"`
	Facebook      string   `json:"facebook" validate:"max=255"`
	Region        string   `json:"region"`
	Comuna        string   `json:"comuna"`
	Direccion     string   `json:"direccion" validate:"max=255"`
	Cobertura     string   `json:"cobertura"`
}

type ConfiguracionRequest struct {
	Activo bool `json:"activo"`
}

// ProveedorResponse agrega al modelo los campos derivados.
type ProveedorResponse struct {
	Proveedor
	TasaAceptacion int    `json:"tasaAceptacion"`
	NombreRegion   string `json:"nombreRegion"`
}

type DetalleResponse struct {
	Proveedor   ProveedorResponse     `json:"proveedor"`
	Productos   []producto.Producto   `json:"productos"`
	Promociones []promocion.Promocion `json:"promociones"`
}

type DirectorioResponse struct {
	Proveedores  []ProveedorResponse  `json:"proveedores"`
	Total        int64                `json:"total"`
	Pagina       int                  `json:"pagina"`
	TotalPaginas int                  `json:"totalPaginas"`
	Regiones     []RegionInfo         `json:"regiones"`
	Coberturas   []string             `json:"coberturas"`
	Categorias   []CategoriaProveedor `json:"categorias"`
}

// DashboardResponse es el resumen del panel del proveedor.
type DashboardResponse struct {
	Proveedor             ProveedorResponse `json:"proveedor"`
	TotalProductos        int64             `json:"totalProductos"`
	PromocionesActivas    int64             `json:"promocionesActivas"`
	SolicitudesPendientes int64             `json:"solicitudesPendientes"`
}

func nuevoProveedorResponse(p Proveedor) ProveedorResponse {
	return ProveedorResponse{
		Proveedor:      p,
		TasaAceptacion: p.TasaAceptacion(),
		NombreRegion:   NombreRegion(p.Region),
	}
}
