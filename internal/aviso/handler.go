package aviso

import (
	"net/http"
	"time"

	"github.com/clubalmacen/api-comunidad/internal/auth"
	"github.com/clubalmacen/api-comunidad/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Log        *zap.Logger
}

func NewHandler(db *gorm.DB, log *zap.Logger) *Handler {
	return &Handler{DB: db, Repository: NewRepository(), Log: log}
}

// Listar entrega los avisos vigentes y, como efecto del render, deja todos
// marcados como leídos para el comerciante. Volver a listar no cambia nada.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	comercianteID, ok := auth.ComercianteID(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Debes iniciar sesión para ver los avisos.")
		return
	}

	avisos, err := h.Repository.ListarVigentes(h.DB, time.Now())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible cargar los avisos.")
		return
	}

	ids := make([]uint, 0, len(avisos))
	for _, a := range avisos {
		ids = append(ids, a.ID)
	}
	if err := h.Repository.MarcarLeidos(h.DB, comercianteID, ids); err != nil {
		h.Log.Warn("no se pudieron marcar avisos como leídos",
			zap.Uint("comerciante", comercianteID), zap.Error(err))
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"avisos": avisos})
}

// NoLeidos entrega el contador de la campanita de avisos.
func (h *Handler) NoLeidos(w http.ResponseWriter, r *http.Request) {
	comercianteID, ok := auth.ComercianteID(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Debes iniciar sesión para ver los avisos.")
		return
	}

	total, err := h.Repository.ContarNoLeidos(h.DB, comercianteID, time.Now())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible contar los avisos.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"noLeidos": total})
}
