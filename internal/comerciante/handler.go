package comerciante

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/clubalmacen/api-comunidad/internal/auth"
	"github.com/clubalmacen/api-comunidad/internal/storage"
	"github.com/clubalmacen/api-comunidad/internal/utils"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var extensionesFoto = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
}

type Handler struct {
	DB            *gorm.DB
	Repository    Repository
	Almacen       storage.Almacen
	Emisor        *auth.Emisor
	Validate      *validator.Validate
	Log           *zap.Logger
	SesionTTL     time.Duration
	MaxUploadSize int64
}

func NewHandler(db *gorm.DB, almacen storage.Almacen, emisor *auth.Emisor, log *zap.Logger, sesionTTL time.Duration, maxUpload int64) *Handler {
	return &Handler{
		DB:            db,
		Repository:    NewRepository(),
		Almacen:       almacen,
		Emisor:        emisor,
		Validate:      validator.New(),
		Log:           log,
		SesionTTL:     sesionTTL,
		MaxUploadSize: maxUpload,
	}
}

// Registro crea la cuenta y deja al comerciante autenticado de inmediato.
func (h *Handler) Registro(w http.ResponseWriter, r *http.Request) {
	var req RegistroRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Revisa los campos del formulario: "+err.Error())
		return
	}
	if err := ValidarWhatsapp(req.Whatsapp); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Password != req.ConfirmarPassword {
		utils.RespondError(w, http.StatusBadRequest, "Las contraseñas no coinciden.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	existe, err := h.Repository.ExisteEmail(h.DB, email)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible verificar el correo.")
		return
	}
	if existe {
		utils.RespondError(w, http.StatusConflict, "Este correo electrónico ya está registrado. Intenta iniciar sesión.")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible procesar la contraseña.")
		return
	}

	ahora := time.Now()
	c := Comerciante{
		NombreApellido:  strings.TrimSpace(req.NombreApellido),
		Email:           email,
		PasswordHash:    hash,
		Whatsapp:        req.Whatsapp,
		Rol:             RolComerciante,
		RelacionNegocio: req.RelacionNegocio,
		TipoNegocio:     req.TipoNegocio,
		Comuna:          req.Comuna,
		NombreNegocio:   req.NombreNegocio,
		NivelActual:     NivelBronce,
		UltimaConexion:  &ahora,
	}
	if err := h.Repository.Crear(h.DB, &c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate") {
			utils.RespondError(w, http.StatusConflict, "Este correo electrónico ya está registrado. Intenta iniciar sesión.")
			return
		}
		h.Log.Error("error al crear comerciante", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible completar el registro.")
		return
	}

	h.emitirSesion(w, http.StatusCreated, c)
}

// Login valida credenciales, estampa la última conexión y emite la sesión.
// El mensaje distingue correo no registrado de contraseña incorrecta.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Correo y contraseña son obligatorios.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	c, err := h.Repository.BuscarPorEmail(h.DB, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(w, http.StatusUnauthorized, "Este correo no está registrado. Por favor, regístrate primero.")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible iniciar sesión.")
		return
	}
	if !utils.VerificarPassword(c.PasswordHash, req.Password) {
		utils.RespondError(w, http.StatusUnauthorized, "Contraseña incorrecta. Intenta nuevamente.")
		return
	}

	ahora := time.Now()
	progreso := CalcularNivelYProgreso(c.Puntos)
	if err := h.Repository.RegistrarConexion(h.DB, c.ID, ahora, progreso.NivelCodigo); err != nil {
		h.Log.Warn("no se pudo registrar la conexión", zap.Uint("comerciante", c.ID), zap.Error(err))
	}
	c.UltimaConexion = &ahora
	c.NivelActual = progreso.NivelCodigo

	h.emitirSesion(w, http.StatusOK, c)
}

// Logout invalida la cookie de sesión.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.LimpiarCookieSesion(w)
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// Perfil devuelve los datos del comerciante autenticado.
func (h *Handler) Perfil(w http.ResponseWriter, r *http.Request) {
	c, ok := h.comercianteDeSesion(w, r)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, NuevoPerfilResponse(c))
}

// ActualizarContacto edita correo y WhatsApp del perfil. El correo debe seguir
// siendo único entre los demás comerciantes.
func (h *Handler) ActualizarContacto(w http.ResponseWriter, r *http.Request) {
	c, ok := h.comercianteDeSesion(w, r)
	if !ok {
		return
	}

	var req ContactoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Revisa los campos del formulario: "+err.Error())
		return
	}
	if err := ValidarWhatsapp(req.Whatsapp); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != c.Email {
		existe, err := h.Repository.ExisteEmail(h.DB, email)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "No fue posible verificar el correo.")
			return
		}
		if existe {
			utils.RespondError(w, http.StatusConflict, "Este correo electrónico ya está registrado por otra cuenta.")
			return
		}
	}

	if err := h.Repository.ActualizarCampos(h.DB, c.ID, map[string]interface{}{
		"email":    email,
		"whatsapp": req.Whatsapp,
	}); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible actualizar el perfil.")
		return
	}

	c.Email = email
	c.Whatsapp = req.Whatsapp
	utils.RespondJSON(w, http.StatusOK, NuevoPerfilResponse(c))
}

// ActualizarNegocio edita los datos del negocio del perfil.
func (h *Handler) ActualizarNegocio(w http.ResponseWriter, r *http.Request) {
	c, ok := h.comercianteDeSesion(w, r)
	if !ok {
		return
	}

	var req NegocioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Revisa los campos del formulario: "+err.Error())
		return
	}

	if err := h.Repository.ActualizarCampos(h.DB, c.ID, map[string]interface{}{
		"relacion_negocio": req.RelacionNegocio,
		"tipo_negocio":     req.TipoNegocio,
		"comuna":           req.Comuna,
		"nombre_negocio":   req.NombreNegocio,
	}); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible actualizar el negocio.")
		return
	}

	c.RelacionNegocio = req.RelacionNegocio
	c.TipoNegocio = req.TipoNegocio
	c.Comuna = req.Comuna
	c.NombreNegocio = req.NombreNegocio
	utils.RespondJSON(w, http.StatusOK, NuevoPerfilResponse(c))
}

// ActualizarIntereses reemplaza la lista de intereses del comerciante.
func (h *Handler) ActualizarIntereses(w http.ResponseWriter, r *http.Request) {
	c, ok := h.comercianteDeSesion(w, r)
	if !ok {
		return
	}

	var req InteresesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Revisa los intereses seleccionados.")
		return
	}

	csv := UnirIntereses(req.Intereses)
	if err := h.Repository.ActualizarCampos(h.DB, c.ID, map[string]interface{}{"intereses": csv}); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible actualizar los intereses.")
		return
	}

	c.Intereses = csv
	utils.RespondJSON(w, http.StatusOK, NuevoPerfilResponse(c))
}

// SubirFotoPerfil reemplaza la foto de perfil; la anterior se elimina del
// almacén sin bloquear la respuesta si falla.
func (h *Handler) SubirFotoPerfil(w http.ResponseWriter, r *http.Request) {
	c, ok := h.comercianteDeSesion(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(h.MaxUploadSize); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "El archivo excede el tamaño permitido.")
		return
	}
	archivo, encabezado, err := r.FormFile("foto")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Debes adjuntar una imagen en el campo 'foto'.")
		return
	}
	defer archivo.Close()

	ext := strings.ToLower(filepath.Ext(encabezado.Filename))
	if !extensionesFoto[ext] {
		utils.RespondError(w, http.StatusBadRequest, "Formato de imagen no soportado. Usa JPG, PNG o WEBP.")
		return
	}

	url, err := h.Almacen.Subir(r.Context(), "perfiles", encabezado.Filename, archivo, encabezado.Size)
	if err != nil {
		h.Log.Error("error al subir foto de perfil", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible guardar la imagen.")
		return
	}

	anterior := c.FotoPerfil
	if err := h.Repository.ActualizarCampos(h.DB, c.ID, map[string]interface{}{"foto_perfil": url}); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible actualizar el perfil.")
		return
	}
	if anterior != "" {
		utils.BestEffort(h.Log, "eliminar foto anterior", func() error {
			return h.Almacen.Eliminar(r.Context(), anterior)
		})
	}

	c.FotoPerfil = url
	utils.RespondJSON(w, http.StatusOK, NuevoPerfilResponse(c))
}

func (h *Handler) emitirSesion(w http.ResponseWriter, status int, c Comerciante) {
	token, err := h.Emisor.GenerarToken(c.ID, c.Rol, c.EsProveedor)
	if err != nil {
		h.Log.Error("error al generar token de sesión", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible iniciar la sesión.")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieSesion,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.SesionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	utils.RespondJSON(w, status, SesionResponse{
		Success:     true,
		Token:       token,
		Redirect:    RedirectPorRol(c.Rol, c.EsProveedor),
		Comerciante: NuevoPerfilResponse(c),
	})
}

// RedirectPorRol resuelve la pantalla de aterrizaje tras autenticarse.
func RedirectPorRol(rol string, esProveedor bool) string {
	switch {
	case rol == RolAdmin:
		return "/admin/panel"
	case rol == RolTecnico:
		return "/soporte/panel"
	case esProveedor:
		return "/proveedores/perfil"
	default:
		return "/foro"
	}
}

func (h *Handler) comercianteDeSesion(w http.ResponseWriter, r *http.Request) (Comerciante, bool) {
	id, ok := auth.ComercianteID(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Debes iniciar sesión para acceder.")
		return Comerciante{}, false
	}
	c, err := h.Repository.BuscarPorID(h.DB, id)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Comerciante no encontrado.")
		return Comerciante{}, false
	}
	return c, true
}
