package producto

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/clubalmacen/api-comunidad/internal/auth"
	"github.com/clubalmacen/api-comunidad/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BuscadorProveedor resuelve el perfil de proveedor del comerciante autenticado.
type BuscadorProveedor interface {
	IDPorComerciante(db *gorm.DB, comercianteID uint) (uint, error)
}

type ProductoRequest struct {
	Nombre           string  `json:"nombre" validate:"required,min=2,max=150"`
	Descripcion      string  `json:"descripcion"`
	PrecioReferencia float64 `json:"precioReferencia" validate:"gte=0"`
	Imagen           string  `json:"imagen" validate:"omitempty,url,max=255"`
	Categoria        string  `json:"categoria" validate:"required"`
	Activo           bool    `json:"activo"`
	Destacado        bool    `json:"destacado"`
}

type Handler struct {
	DB          *gorm.DB
	Repository  Repository
	Proveedores BuscadorProveedor
	Validate    *validator.Validate
	Log         *zap.Logger
}

func NewHandler(db *gorm.DB, proveedores BuscadorProveedor, log *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Repository:  NewRepository(),
		Proveedores: proveedores,
		Validate:    validator.New(),
		Log:         log,
	}
}

// Listar entrega los productos del proveedor autenticado con los filtros del panel.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	proveedorID, ok := h.proveedorDeSesion(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filtro := Filtro{
		Categoria: strings.ToUpper(strings.TrimSpace(q.Get("categoria"))),
		Estado:    q.Get("estado"),
		Buscar:    strings.TrimSpace(q.Get("buscar")),
	}

	productos, err := h.Repository.ListarDelProveedor(h.DB, proveedorID, filtro)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible cargar los productos.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"productos":  productos,
		"categorias": Categorias,
	})
}

// Crear registra un producto del proveedor autenticado.
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	proveedorID, ok := h.proveedorDeSesion(w, r)
	if !ok {
		return
	}

	req, ok := h.decodificar(w, r)
	if !ok {
		return
	}

	p := Producto{
		ProveedorID:      proveedorID,
		Nombre:           strings.TrimSpace(req.Nombre),
		Descripcion:      strings.TrimSpace(req.Descripcion),
		PrecioReferencia: req.PrecioReferencia,
		Imagen:           req.Imagen,
		Categoria:        strings.ToUpper(req.Categoria),
		Activo:           req.Activo,
		Destacado:        req.Destacado,
	}
	if err := h.Repository.Crear(h.DB, &p); err != nil {
		h.Log.Error("error al crear producto", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible crear el producto.")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, p)
}

// Actualizar edita un producto propio; el id de un producto ajeno no existe
// para este proveedor.
func (h *Handler) Actualizar(w http.ResponseWriter, r *http.Request) {
	proveedorID, ok := h.proveedorDeSesion(w, r)
	if !ok {
		return
	}
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}

	p, err := h.Repository.BuscarDelProveedor(h.DB, proveedorID, id)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Producto no encontrado.")
		return
	}

	req, ok := h.decodificar(w, r)
	if !ok {
		return
	}

	p.Nombre = strings.TrimSpace(req.Nombre)
	p.Descripcion = strings.TrimSpace(req.Descripcion)
	p.PrecioReferencia = req.PrecioReferencia
	p.Imagen = req.Imagen
	p.Categoria = strings.ToUpper(req.Categoria)
	p.Activo = req.Activo
	p.Destacado = req.Destacado
	if err := h.Repository.Actualizar(h.DB, &p); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible actualizar el producto.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, p)
}

// Eliminar borra un producto propio.
func (h *Handler) Eliminar(w http.ResponseWriter, r *http.Request) {
	proveedorID, ok := h.proveedorDeSesion(w, r)
	if !ok {
		return
	}
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}

	filas, err := h.Repository.EliminarDelProveedor(h.DB, proveedorID, id)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible eliminar el producto.")
		return
	}
	if filas == 0 {
		utils.RespondError(w, http.StatusNotFound, "Producto no encontrado.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// ToggleDestacado alterna la marca de destacado vía AJAX.
func (h *Handler) ToggleDestacado(w http.ResponseWriter, r *http.Request) {
	proveedorID, ok := h.proveedorDeSesion(w, r)
	if !ok {
		return
	}
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}

	p, err := h.Repository.BuscarDelProveedor(h.DB, proveedorID, id)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Producto no encontrado.")
		return
	}

	p.Destacado = !p.Destacado
	if err := h.Repository.Actualizar(h.DB, &p); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible actualizar el producto.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"destacado": p.Destacado,
	})
}

func (h *Handler) decodificar(w http.ResponseWriter, r *http.Request) (ProductoRequest, bool) {
	var req ProductoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return req, false
	}
	if err := h.Validate.Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Revisa los campos del producto: "+err.Error())
		return req, false
	}
	if !EsCategoriaValida(strings.ToUpper(req.Categoria)) {
		utils.RespondError(w, http.StatusBadRequest, "Categoría de producto desconocida.")
		return req, false
	}
	return req, true
}

func (h *Handler) proveedorDeSesion(w http.ResponseWriter, r *http.Request) (uint, bool) {
	comercianteID, ok := auth.ComercianteID(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Debes iniciar sesión para acceder.")
		return 0, false
	}
	proveedorID, err := h.Proveedores.IDPorComerciante(h.DB, comercianteID)
	if err != nil {
		utils.RespondError(w, http.StatusForbidden, "Primero crea tu perfil de proveedor.")
		return 0, false
	}
	return proveedorID, true
}

func idDeRuta(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Identificador inválido.")
		return 0, false
	}
	return uint(id), true
}
