package promocion

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/clubalmacen/api-comunidad/internal/auth"
	"github.com/clubalmacen/api-comunidad/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const formatoFecha = "2006-01-02"

// BuscadorProveedor resuelve el perfil de proveedor del comerciante autenticado.
type BuscadorProveedor interface {
	IDPorComerciante(db *gorm.DB, comercianteID uint) (uint, error)
}

type PromocionRequest struct {
	Titulo      string `json:"titulo" validate:"required,min=2,max=150"`
	Descripcion string `json:"descripcion"`
	Imagen      string `json:"imagen" validate:"omitempty,url,max=255"`
	FechaInicio string `json:"fechaInicio" validate:"required"`
	FechaFin    string `json:"fechaFin" validate:"required"`
	Activo      bool   `json:"activo"`
}

type PromocionResponse struct {
	Promocion
	Vigente bool `json:"vigente"`
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

// Listar entrega las promociones del proveedor con los filtros del panel.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	proveedorID, ok := h.proveedorDeSesion(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filtro := Filtro{
		Estado:   q.Get("estado"),
		Vigencia: q.Get("vigencia"),
		Buscar:   strings.TrimSpace(q.Get("buscar")),
	}
	if desde, err := time.Parse(formatoFecha, q.Get("fecha_desde")); err == nil {
		filtro.Desde = &desde
	}
	if hasta, err := time.Parse(formatoFecha, q.Get("fecha_hasta")); err == nil {
		filtro.Hasta = &hasta
	}

	hoy := time.Now()
	promociones, err := h.Repository.ListarDelProveedor(h.DB, proveedorID, filtro, hoy)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible cargar las promociones.")
		return
	}

	respuestas := make([]PromocionResponse, 0, len(promociones))
	for _, p := range promociones {
		respuestas = append(respuestas, PromocionResponse{Promocion: p, Vigente: p.EstaVigente(hoy)})
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"promociones": respuestas})
}

// Crear registra una promoción del proveedor autenticado.
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	proveedorID, ok := h.proveedorDeSesion(w, r)
	if !ok {
		return
	}
	req, inicio, fin, ok := h.decodificar(w, r)
	if !ok {
		return
	}

	p := Promocion{
		ProveedorID: proveedorID,
		Titulo:      strings.TrimSpace(req.Titulo),
		Descripcion: strings.TrimSpace(req.Descripcion),
		Imagen:      req.Imagen,
		FechaInicio: inicio,
		FechaFin:    fin,
		Activo:      req.Activo,
	}
	if err := h.Repository.Crear(h.DB, &p); err != nil {
		h.Log.Error("error al crear promoción", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible crear la promoción.")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, PromocionResponse{Promocion: p, Vigente: p.EstaVigente(time.Now())})
}

// Actualizar edita una promoción propia.
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
		utils.RespondError(w, http.StatusNotFound, "Promoción no encontrada.")
		return
	}

	req, inicio, fin, ok := h.decodificar(w, r)
	if !ok {
		return
	}

	p.Titulo = strings.TrimSpace(req.Titulo)
	p.Descripcion = strings.TrimSpace(req.Descripcion)
	p.Imagen = req.Imagen
	p.FechaInicio = inicio
	p.FechaFin = fin
	p.Activo = req.Activo
	if err := h.Repository.Actualizar(h.DB, &p); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible actualizar la promoción.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, PromocionResponse{Promocion: p, Vigente: p.EstaVigente(time.Now())})
}

// Eliminar borra una promoción propia.
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
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible eliminar la promoción.")
		return
	}
	if filas == 0 {
		utils.RespondError(w, http.StatusNotFound, "Promoción no encontrada.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) decodificar(w http.ResponseWriter, r *http.Request) (PromocionRequest, time.Time, time.Time, bool) {
	var req PromocionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return req, time.Time{}, time.Time{}, false
	}
	if err := h.Validate.Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Revisa los campos de la promoción: "+err.Error())
		return req, time.Time{}, time.Time{}, false
	}

	inicio, err := time.Parse(formatoFecha, req.FechaInicio)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Fecha de inicio inválida (usa AAAA-MM-DD).")
		return req, time.Time{}, time.Time{}, false
	}
	fin, err := time.Parse(formatoFecha, req.FechaFin)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Fecha de término inválida (usa AAAA-MM-DD).")
		return req, time.Time{}, time.Time{}, false
	}
	if fin.Before(inicio) {
		utils.RespondError(w, http.StatusBadRequest, "La fecha de término no puede ser anterior al inicio.")
		return req, time.Time{}, time.Time{}, false
	}
	return req, inicio, fin, true
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
