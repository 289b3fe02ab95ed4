package administrador

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/clubalmacen/api-comunidad/internal/aviso"
	"github.com/clubalmacen/api-comunidad/internal/beneficio"
	"github.com/clubalmacen/api-comunidad/internal/comerciante"
	"github.com/clubalmacen/api-comunidad/internal/foro"
	"github.com/clubalmacen/api-comunidad/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const formatoFecha = "2006-01-02"

// Handler agrupa el back-office. Todas sus rutas van detrás del middleware de
// rol ADMIN.
type Handler struct {
	DB            *gorm.DB
	Comerciantes  comerciante.Repository
	Publicaciones foro.Repository
	Beneficios    beneficio.Repository
	Avisos        aviso.Repository
	Validate      *validator.Validate
	Log           *zap.Logger
}

func NewHandler(db *gorm.DB, log *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Comerciantes:  comerciante.NewRepository(),
		Publicaciones: foro.NewRepository(),
		Beneficios:    beneficio.NewRepository(),
		Avisos:        aviso.NewRepository(),
		Validate:      validator.New(),
		Log:           log,
	}
}

// ---- comerciantes ----

type ComercianteAdminRequest struct {
	NombreApellido string `json:"nombreApellido" validate:"required,min=3,max=100"`
	Email          string `json:"email" validate:"required,email"`
	Whatsapp       string `json:"whatsapp"`
	Rol            string `json:"rol" validate:"required,oneof=COMERCIANTE PROVEEDOR ADMIN TECNICO"`
	Puntos         int    `json:"puntos" validate:"gte=0"`
	ResetPassword  bool   `json:"resetPassword"`
}

// ListarComerciantes entrega todas las cuentas, de la más nueva a la más antigua.
func (h *Handler) ListarComerciantes(w http.ResponseWriter, r *http.Request) {
	comerciantes, err := h.Comerciantes.Listar(h.DB)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible cargar las cuentas.")
		return
	}

	respuestas := make([]comerciante.PerfilResponse, 0, len(comerciantes))
	for _, c := range comerciantes {
		respuestas = append(respuestas, comerciante.NuevoPerfilResponse(c))
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"comerciantes": respuestas})
}

// CrearComerciante da de alta una cuenta desde el back-office. La clave inicial
// se genera y se devuelve una única vez en la respuesta.
func (h *Handler) CrearComerciante(w http.ResponseWriter, r *http.Request) {
	var req ComercianteAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Revisa los campos de la cuenta: "+err.Error())
		return
	}
	if req.Whatsapp != "" {
		if err := comerciante.ValidarWhatsapp(req.Whatsapp); err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	existe, err := h.Comerciantes.ExisteEmail(h.DB, email)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible verificar el correo.")
		return
	}
	if existe {
		utils.RespondError(w, http.StatusConflict, "Este correo electrónico ya está registrado por otra cuenta.")
		return
	}

	passwordTemporal, err := utils.GenerarPasswordTemporal()
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible generar la clave temporal.")
		return
	}
	hash, err := utils.HashPassword(passwordTemporal)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible generar la clave temporal.")
		return
	}

	progreso := comerciante.CalcularNivelYProgreso(req.Puntos)
	c := comerciante.Comerciante{
		NombreApellido: strings.TrimSpace(req.NombreApellido),
		Email:          email,
		PasswordHash:   hash,
		Whatsapp:       req.Whatsapp,
		Rol:            req.Rol,
		Puntos:         req.Puntos,
		NivelActual:    progreso.NivelCodigo,
	}
	if err := h.Comerciantes.Crear(h.DB, &c); err != nil {
		h.Log.Error("error al crear comerciante desde el back-office", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible crear la cuenta.")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success":          true,
		"comerciante":      comerciante.NuevoPerfilResponse(c),
		"passwordTemporal": passwordTemporal,
	})
}

// EditarComerciante actualiza una cuenta; con resetPassword genera una clave
// temporal que se devuelve una única vez en la respuesta.
func (h *Handler) EditarComerciante(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}
	c, err := h.Comerciantes.BuscarPorID(h.DB, id)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Comerciante no encontrado.")
		return
	}

	var req ComercianteAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Revisa los campos de la cuenta: "+err.Error())
		return
	}
	if req.Whatsapp != "" {
		if err := comerciante.ValidarWhatsapp(req.Whatsapp); err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != c.Email {
		existe, err := h.Comerciantes.ExisteEmail(h.DB, email)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "No fue posible verificar el correo.")
			return
		}
		if existe {
			utils.RespondError(w, http.StatusConflict, "Este correo electrónico ya está registrado por otra cuenta.")
			return
		}
	}

	progreso := comerciante.CalcularNivelYProgreso(req.Puntos)
	campos := map[string]interface{}{
		"nombre_apellido": strings.TrimSpace(req.NombreApellido),
		"email":           email,
		"whatsapp":        req.Whatsapp,
		"rol":             req.Rol,
		"puntos":          req.Puntos,
		"nivel_actual":    progreso.NivelCodigo,
	}

	passwordTemporal := ""
	if req.ResetPassword {
		passwordTemporal, err = utils.GenerarPasswordTemporal()
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "No fue posible generar la clave temporal.")
			return
		}
		hash, err := utils.HashPassword(passwordTemporal)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "No fue posible generar la clave temporal.")
			return
		}
		campos["password_hash"] = hash
	}

	if err := h.Comerciantes.ActualizarCampos(h.DB, c.ID, campos); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible actualizar la cuenta.")
		return
	}

	actualizado, err := h.Comerciantes.BuscarPorID(h.DB, c.ID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible cargar la cuenta.")
		return
	}
	resp := map[string]interface{}{
		"success":     true,
		"comerciante": comerciante.NuevoPerfilResponse(actualizado),
	}
	if passwordTemporal != "" {
		resp["passwordTemporal"] = passwordTemporal
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}

// EliminarComerciante borra una cuenta.
func (h *Handler) EliminarComerciante(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}
	if _, err := h.Comerciantes.BuscarPorID(h.DB, id); err != nil {
		utils.RespondError(w, http.StatusNotFound, "Comerciante no encontrado.")
		return
	}
	if err := h.Comerciantes.Eliminar(h.DB, id); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible eliminar la cuenta.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// ---- publicaciones ----

// ListarPublicaciones entrega ambas particiones del foro para moderación.
func (h *Handler) ListarPublicaciones(w http.ResponseWriter, r *http.Request) {
	todas := append(append([]string{}, foro.CategoriasComunidad...), foro.CategoriasAdmin...)
	publicaciones, err := h.Publicaciones.ListarPublicaciones(h.DB, todas, "")
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible cargar las publicaciones.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"publicaciones": publicaciones})
}

type PublicacionAdminRequest struct {
	Titulo    string `json:"titulo" validate:"required,min=3,max=150"`
	Contenido string `json:"contenido" validate:"required,min=3"`
	Categoria string `json:"categoria" validate:"required"`
	ImagenURL string `json:"imagenUrl" validate:"omitempty,url,max=255"`
	Etiquetas string `json:"etiquetas" validate:"max=255"`
}

// EditarPublicacion corrige cualquier publicación del foro sin cambiar a su
// autor. El back-office puede mover una publicación entre categorías de
// cualquiera de las dos particiones.
func (h *Handler) EditarPublicacion(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}
	p, err := h.Publicaciones.BuscarPublicacion(h.DB, id)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Publicación no encontrada.")
		return
	}

	var req PublicacionAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Revisa los campos de la publicación: "+err.Error())
		return
	}
	categoria := strings.ToUpper(strings.TrimSpace(req.Categoria))
	if !foro.EsCategoriaComunidad(categoria) && !foro.EsCategoriaAdmin(categoria) {
		utils.RespondError(w, http.StatusBadRequest, "Categoría de publicación desconocida.")
		return
	}

	p.Titulo = strings.TrimSpace(req.Titulo)
	p.Contenido = strings.TrimSpace(req.Contenido)
	p.Categoria = categoria
	p.ImagenURL = req.ImagenURL
	p.Etiquetas = strings.TrimSpace(req.Etiquetas)
	if err := h.Publicaciones.ActualizarPublicacion(h.DB, &p); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible actualizar la publicación.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, p)
}

// EliminarPublicacion borra cualquier publicación con sus comentarios y likes.
func (h *Handler) EliminarPublicacion(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}
	if _, err := h.Publicaciones.BuscarPublicacion(h.DB, id); err != nil {
		utils.RespondError(w, http.StatusNotFound, "Publicación no encontrada.")
		return
	}
	if err := h.Publicaciones.EliminarPublicacion(h.DB, id); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible eliminar la publicación.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// ---- beneficios ----

type BeneficioRequest struct {
	Titulo           string `json:"titulo" validate:"required,min=3,max=150"`
	Descripcion      string `json:"descripcion"`
	Foto             string `json:"foto" validate:"omitempty,url,max=255"`
	Categoria        string `json:"categoria" validate:"required"`
	Vence            string `json:"vence"`
	Activo           bool   `json:"activo"`
	PuntosRequeridos int    `json:"puntosRequeridos" validate:"gte=0"`
}

func (h *Handler) decodificarBeneficio(w http.ResponseWriter, r *http.Request) (BeneficioRequest, *time.Time, bool) {
	var req BeneficioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return req, nil, false
	}
	if err := h.Validate.Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Revisa los campos del beneficio: "+err.Error())
		return req, nil, false
	}
	req.Categoria = strings.ToUpper(strings.TrimSpace(req.Categoria))
	if !beneficio.EsCategoriaValida(req.Categoria) {
		utils.RespondError(w, http.StatusBadRequest, "Categoría de beneficio desconocida.")
		return req, nil, false
	}

	var vence *time.Time
	if req.Vence != "" {
		fecha, err := time.Parse(formatoFecha, req.Vence)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Fecha de vencimiento inválida (usa AAAA-MM-DD).")
			return req, nil, false
		}
		vence = &fecha
	}
	return req, vence, true
}

// ListarBeneficios incluye también los desactivados.
func (h *Handler) ListarBeneficios(w http.ResponseWriter, r *http.Request) {
	beneficios, err := h.Beneficios.ListarTodos(h.DB)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible cargar los beneficios.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"beneficios": beneficios})
}

func (h *Handler) CrearBeneficio(w http.ResponseWriter, r *http.Request) {
	req, vence, ok := h.decodificarBeneficio(w, r)
	if !ok {
		return
	}

	b := beneficio.Beneficio{
		Titulo:           strings.TrimSpace(req.Titulo),
		Descripcion:      strings.TrimSpace(req.Descripcion),
		Foto:             req.Foto,
		Categoria:        req.Categoria,
		Vence:            vence,
		Activo:           req.Activo,
		PuntosRequeridos: req.PuntosRequeridos,
	}
	if err := h.Beneficios.Crear(h.DB, &b); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible crear el beneficio.")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, b)
}

func (h *Handler) EditarBeneficio(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}
	b, err := h.Beneficios.BuscarPorID(h.DB, id)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Beneficio no encontrado.")
		return
	}

	req, vence, ok := h.decodificarBeneficio(w, r)
	if !ok {
		return
	}

	b.Titulo = strings.TrimSpace(req.Titulo)
	b.Descripcion = strings.TrimSpace(req.Descripcion)
	b.Foto = req.Foto
	b.Categoria = req.Categoria
	b.Vence = vence
	b.Activo = req.Activo
	b.PuntosRequeridos = req.PuntosRequeridos
	if err := h.Beneficios.Actualizar(h.DB, &b); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible actualizar el beneficio.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, b)
}

func (h *Handler) EliminarBeneficio(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}
	if _, err := h.Beneficios.BuscarPorID(h.DB, id); err != nil {
		utils.RespondError(w, http.StatusNotFound, "Beneficio no encontrado.")
		return
	}
	if err := h.Beneficios.Eliminar(h.DB, id); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible eliminar el beneficio.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// ---- avisos ----

type AvisoRequest struct {
	Titulo    string `json:"titulo" validate:"required,min=3,max=150"`
	Contenido string `json:"contenido" validate:"required,min=3"`
	Tipo      string `json:"tipo"`
	Vence     string `json:"vence"`
}

func (h *Handler) decodificarAviso(w http.ResponseWriter, r *http.Request) (AvisoRequest, *time.Time, bool) {
	var req AvisoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return req, nil, false
	}
	if err := h.Validate.Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Revisa los campos del aviso: "+err.Error())
		return req, nil, false
	}
	if req.Tipo == "" {
		req.Tipo = "INFORMATIVO"
	}

	var vence *time.Time
	if req.Vence != "" {
		fecha, err := time.Parse(formatoFecha, req.Vence)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Fecha de vencimiento inválida (usa AAAA-MM-DD).")
			return req, nil, false
		}
		vence = &fecha
	}
	return req, vence, true
}

// ListarAvisos incluye también los vencidos.
func (h *Handler) ListarAvisos(w http.ResponseWriter, r *http.Request) {
	avisos, err := h.Avisos.ListarTodos(h.DB)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible cargar los avisos.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"avisos": avisos})
}

func (h *Handler) CrearAviso(w http.ResponseWriter, r *http.Request) {
	req, vence, ok := h.decodificarAviso(w, r)
	if !ok {
		return
	}

	a := aviso.Aviso{
		Titulo:    strings.TrimSpace(req.Titulo),
		Contenido: strings.TrimSpace(req.Contenido),
		Tipo:      strings.ToUpper(req.Tipo),
		Vence:     vence,
	}
	if err := h.Avisos.Crear(h.DB, &a); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible crear el aviso.")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, a)
}

func (h *Handler) EditarAviso(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}
	a, err := h.Avisos.BuscarPorID(h.DB, id)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Aviso no encontrado.")
		return
	}

	req, vence, ok := h.decodificarAviso(w, r)
	if !ok {
		return
	}

	a.Titulo = strings.TrimSpace(req.Titulo)
	a.Contenido = strings.TrimSpace(req.Contenido)
	a.Tipo = strings.ToUpper(req.Tipo)
	a.Vence = vence
	if err := h.Avisos.Actualizar(h.DB, &a); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible actualizar el aviso.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, a)
}

func (h *Handler) EliminarAviso(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}
	if _, err := h.Avisos.BuscarPorID(h.DB, id); err != nil {
		utils.RespondError(w, http.StatusNotFound, "Aviso no encontrado.")
		return
	}
	if err := h.Avisos.Eliminar(h.DB, id); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible eliminar el aviso.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func idDeRuta(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Identificador inválido.")
		return 0, false
	}
	return uint(id), true
}
