package beneficio

import (
	"net/http"
	"strings"

	"github.com/clubalmacen/api-comunidad/internal/utils"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository()}
}

// Listar entrega el catálogo de beneficios vigentes del club.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	categoria := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("categoria")))
	orden := r.URL.Query().Get("orden")

	beneficios, err := h.Repository.ListarActivos(h.DB, categoria, orden)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible cargar los beneficios.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"beneficios": beneficios,
		"categorias": Categorias,
	})
}
