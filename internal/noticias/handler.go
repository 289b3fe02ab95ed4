package noticias

import (
	"net/http"

	"github.com/clubalmacen/api-comunidad/internal/utils"
)

type Handler struct {
	Agregador *Agregador
}

func NewHandler(agregador *Agregador) *Handler {
	return &Handler{Agregador: agregador}
}

// Listar entrega las noticias agregadas del sector.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"noticias": h.Agregador.Obtener(r.Context()),
	})
}
