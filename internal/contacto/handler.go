package contacto

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/clubalmacen/api-comunidad/internal/auth"
	"github.com/clubalmacen/api-comunidad/internal/proveedor"
	"github.com/clubalmacen/api-comunidad/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SolicitudRequest struct {
	ProveedorID uint   `json:"proveedorId" validate:"required"`
	Mensaje     string `json:"mensaje" validate:"required,min=5,max=1000"`
}

type Handler struct {
	DB          *gorm.DB
	Repository  Repository
	Proveedores proveedor.Repository
	Validate    *validator.Validate
	Log         *zap.Logger
}

func NewHandler(db *gorm.DB, log *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Repository:  NewRepository(),
		Proveedores: proveedor.NewRepository(),
		Validate:    validator.New(),
		Log:         log,
	}
}

// Crear envía una solicitud de contacto a un proveedor activo y suma el
// contador de enviados en la misma transacción.
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	comercianteID, ok := auth.ComercianteID(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Debes iniciar sesión para contactar proveedores.")
		return
	}

	var req SolicitudRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Revisa el mensaje de contacto: "+err.Error())
		return
	}

	destino, err := h.Proveedores.BuscarActivo(h.DB, req.ProveedorID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Proveedor no encontrado.")
		return
	}
	if destino.ComercianteID == comercianteID {
		utils.RespondError(w, http.StatusBadRequest, "No puedes enviarte una solicitud a ti mismo.")
		return
	}

	s := SolicitudContacto{
		ProveedorID:   destino.ID,
		ComercianteID: comercianteID,
		Mensaje:       strings.TrimSpace(req.Mensaje),
		Estado:        EstadoPendiente,
	}
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := h.Repository.Crear(tx, &s); err != nil {
			return err
		}
		return h.Proveedores.SumarContactoEnviado(tx, destino.ID)
	})
	if err != nil {
		h.Log.Error("error al crear solicitud de contacto", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible enviar la solicitud.")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, s)
}

// Listar entrega las solicitudes recibidas por el proveedor autenticado.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	p, ok := h.proveedorDeSesion(w, r)
	if !ok {
		return
	}

	estado := r.URL.Query().Get("estado")
	solicitudes, err := h.Repository.ListarDelProveedor(h.DB, p.ID, estado)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible cargar las solicitudes.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"solicitudes": solicitudes})
}

// MisSolicitudes entrega las solicitudes enviadas por el comerciante autenticado.
func (h *Handler) MisSolicitudes(w http.ResponseWriter, r *http.Request) {
	comercianteID, ok := auth.ComercianteID(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Debes iniciar sesión para acceder.")
		return
	}

	solicitudes, err := h.Repository.ListarDelComerciante(h.DB, comercianteID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible cargar tus solicitudes.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"solicitudes": solicitudes})
}

// Aceptar responde una solicitud pendiente y suma el contador de aceptados una
// sola vez: aceptar dos veces no duplica el incremento.
func (h *Handler) Aceptar(w http.ResponseWriter, r *http.Request) {
	h.responder(w, r, EstadoAceptada)
}

// Rechazar responde negativamente una solicitud pendiente.
func (h *Handler) Rechazar(w http.ResponseWriter, r *http.Request) {
	h.responder(w, r, EstadoRechazada)
}

func (h *Handler) responder(w http.ResponseWriter, r *http.Request, nuevoEstado string) {
	p, ok := h.proveedorDeSesion(w, r)
	if !ok {
		return
	}
	s, ok := h.solicitudDeRuta(w, r)
	if !ok {
		return
	}
	if s.ProveedorID != p.ID {
		utils.RespondError(w, http.StatusNotFound, "Solicitud no encontrada.")
		return
	}

	ahora := time.Now()
	var filas int64
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		filas, err = h.Repository.CambiarEstadoDesdePendiente(tx, s.ID, nuevoEstado, &ahora)
		if err != nil {
			return err
		}
		if filas > 0 && nuevoEstado == EstadoAceptada {
			return h.Proveedores.SumarContactoAceptado(tx, p.ID)
		}
		return nil
	})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible responder la solicitud.")
		return
	}
	if filas == 0 {
		utils.RespondError(w, http.StatusConflict, "La solicitud ya fue respondida o cancelada.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "estado": nuevoEstado})
}

// Cancelar retira una solicitud pendiente; solo puede hacerlo quien la envió.
func (h *Handler) Cancelar(w http.ResponseWriter, r *http.Request) {
	comercianteID, ok := auth.ComercianteID(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Debes iniciar sesión para acceder.")
		return
	}
	s, ok := h.solicitudDeRuta(w, r)
	if !ok {
		return
	}
	if s.ComercianteID != comercianteID {
		utils.RespondError(w, http.StatusNotFound, "Solicitud no encontrada.")
		return
	}

	filas, err := h.Repository.CambiarEstadoDesdePendiente(h.DB, s.ID, EstadoCancelada, nil)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible cancelar la solicitud.")
		return
	}
	if filas == 0 {
		utils.RespondError(w, http.StatusConflict, "La solicitud ya fue respondida o cancelada.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "estado": EstadoCancelada})
}

func (h *Handler) proveedorDeSesion(w http.ResponseWriter, r *http.Request) (proveedor.Proveedor, bool) {
	comercianteID, ok := auth.ComercianteID(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Debes iniciar sesión para acceder.")
		return proveedor.Proveedor{}, false
	}

	p, err := h.Proveedores.BuscarPorComerciante(h.DB, comercianteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(w, http.StatusForbidden, "Primero crea tu perfil de proveedor.")
		} else {
			utils.RespondError(w, http.StatusInternalServerError, "No fue posible cargar el perfil.")
		}
		return proveedor.Proveedor{}, false
	}
	return p, true
}

func (h *Handler) solicitudDeRuta(w http.ResponseWriter, r *http.Request) (SolicitudContacto, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Identificador inválido.")
		return SolicitudContacto{}, false
	}
	s, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Solicitud no encontrada.")
		return SolicitudContacto{}, false
	}
	return s, true
}
