package soporte

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

type TicketRequest struct {
	Asunto      string `json:"asunto" validate:"required,min=3,max=150"`
	Descripcion string `json:"descripcion" validate:"required,min=10"`
}

type AccionRequest struct {
	Accion string `json:"accion" validate:"required"`
}

// Notificador avisa por un canal externo que se abrió un ticket.
type Notificador interface {
	TicketAbierto(ticketID uint, asunto string)
}

type Handler struct {
	DB          *gorm.DB
	Repository  Repository
	Notificador Notificador
	Validate    *validator.Validate
	Log         *zap.Logger
}

func NewHandler(db *gorm.DB, log *zap.Logger) *Handler {
	return &Handler{DB: db, Repository: NewRepository(), Validate: validator.New(), Log: log}
}

// Crear abre un ticket del comerciante autenticado.
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	comercianteID, ok := auth.ComercianteID(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Debes iniciar sesión para abrir un ticket.")
		return
	}

	var req TicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Revisa los campos del ticket: "+err.Error())
		return
	}

	t := TicketSoporte{
		Asunto:        strings.TrimSpace(req.Asunto),
		Descripcion:   strings.TrimSpace(req.Descripcion),
		ComercianteID: comercianteID,
		Estado:        EstadoAbierto,
	}
	if err := h.Repository.Crear(h.DB, &t); err != nil {
		h.Log.Error("error al crear ticket", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible abrir el ticket.")
		return
	}
	if h.Notificador != nil {
		go h.Notificador.TicketAbierto(t.ID, t.Asunto)
	}
	utils.RespondJSON(w, http.StatusCreated, t)
}

// MisTickets lista los tickets del comerciante autenticado.
func (h *Handler) MisTickets(w http.ResponseWriter, r *http.Request) {
	comercianteID, ok := auth.ComercianteID(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Debes iniciar sesión para acceder.")
		return
	}

	tickets, err := h.Repository.ListarDelComerciante(h.DB, comercianteID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible cargar tus tickets.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"tickets": tickets})
}

// Panel lista todos los tickets para el equipo técnico.
func (h *Handler) Panel(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.Repository.ListarTodos(h.DB, strings.ToUpper(r.URL.Query().Get("estado")))
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible cargar el panel.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"tickets": tickets})
}

// Accion ejecuta tomar/resolver/cerrar sobre un ticket. Cualquier acción vale
// desde cualquier estado y siempre estampa al técnico que la ejecutó; una
// acción desconocida devuelve error sin tocar el ticket.
func (h *Handler) Accion(w http.ResponseWriter, r *http.Request) {
	tecnicoID, ok := auth.ComercianteID(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Debes iniciar sesión para acceder.")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Identificador inválido.")
		return
	}
	t, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Ticket no encontrado.")
		return
	}

	var req AccionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}

	estado, conocida := EstadoDeAccion(strings.ToLower(strings.TrimSpace(req.Accion)))
	if !conocida {
		utils.RespondError(w, http.StatusBadRequest, "Acción desconocida.")
		return
	}

	if err := h.Repository.AplicarAccion(h.DB, t.ID, estado, tecnicoID); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible actualizar el ticket.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"estado":  estado,
	})
}
