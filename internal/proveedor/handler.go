package proveedor

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/clubalmacen/api-comunidad/internal/auth"
	"github.com/clubalmacen/api-comunidad/internal/comerciante"
	"github.com/clubalmacen/api-comunidad/internal/producto"
	"github.com/clubalmacen/api-comunidad/internal/promocion"
	"github.com/clubalmacen/api-comunidad/internal/storage"
	"github.com/clubalmacen/api-comunidad/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var extensionesLogo = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
}

// ContadorSolicitudes entrega las solicitudes de contacto pendientes del panel.
type ContadorSolicitudes interface {
	ContarPendientes(db *gorm.DB, proveedorID uint) (int64, error)
}

type Handler struct {
	DB            *gorm.DB
	Repository    Repository
	Comerciantes  comerciante.Repository
	Productos     producto.Repository
	Promociones   promocion.Repository
	Solicitudes   ContadorSolicitudes
	Almacen       storage.Almacen
	Validate      *validator.Validate
	Log           *zap.Logger
	MaxUploadSize int64
}

func NewHandler(db *gorm.DB, solicitudes ContadorSolicitudes, almacen storage.Almacen, log *zap.Logger, maxUpload int64) *Handler {
	return &Handler{
		DB:            db,
		Repository:    NewRepository(),
		Comerciantes:  comerciante.NewRepository(),
		Productos:     producto.NewRepository(),
		Promociones:   promocion.NewRepository(),
		Solicitudes:   solicitudes,
		Almacen:       almacen,
		Validate:      validator.New(),
		Log:           log,
		MaxUploadSize: maxUpload,
	}
}

// CrearPerfil convierte al comerciante autenticado en proveedor. Si ya tiene un
// perfil, no duplica: devuelve la redirección a la gestión del existente.
func (h *Handler) CrearPerfil(w http.ResponseWriter, r *http.Request) {
	comercianteID, ok := auth.ComercianteID(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Debes iniciar sesión para acceder.")
		return
	}

	if _, err := h.Repository.BuscarPorComerciante(h.DB, comercianteID); err == nil {
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"redirect": "/proveedores/perfil",
			"mensaje":  "Ya tienes un perfil de proveedor.",
		})
		return
	}

	req, ok := h.decodificarPerfil(w, r)
	if !ok {
		return
	}

	duenio, err := h.Comerciantes.BuscarPorID(h.DB, comercianteID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Comerciante no encontrado.")
		return
	}

	// los datos de contacto vacíos heredan los del comerciante
	if req.Email == "" {
		req.Email = duenio.Email
	}
	if req.Whatsapp == "" {
		req.Whatsapp = duenio.Whatsapp
	}

	p := Proveedor{
		ComercianteID: comercianteID,
		NombreEmpresa: strings.TrimSpace(req.NombreEmpresa),
		Descripcion:   strings.TrimSpace(req.Descripcion),
		Email:         strings.ToLower(req.Email),
		Telefono:      req.Telefono,
		Whatsapp:      req.Whatsapp,
		SitioWeb:      req.SitioWeb,
		Instagram:     req.Instagram,
		Facebook:      req.Facebook,
		Pais:          "Chile",
		Region:        req.Region,
		Comuna:        req.Comuna,
		Direccion:     req.Direccion,
		Cobertura:     req.Cobertura,
		Activo:        true,
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := h.Repository.Crear(tx, &p); err != nil {
			return err
		}
		if err := h.Repository.ReemplazarCategorias(tx, &p, req.Categorias); err != nil {
			return err
		}
		return h.Comerciantes.ActualizarCampos(tx, comercianteID, map[string]interface{}{
			"es_proveedor": true,
		})
	})
	if err != nil {
		h.Log.Error("error al crear perfil de proveedor", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible crear el perfil de proveedor.")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success":   true,
		"redirect":  "/proveedores/perfil",
		"proveedor": nuevoProveedorResponse(p),
	})
}

// Directorio es el listado público con filtros combinables y paginación fija.
func (h *Handler) Directorio(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pagina, _ := strconv.Atoi(q.Get("page"))
	filtro := FiltroDirectorio{
		Categoria: strings.TrimSpace(q.Get("categoria")),
		Region:    strings.TrimSpace(q.Get("region")),
		Comuna:    strings.TrimSpace(q.Get("comuna")),
		Cobertura: strings.TrimSpace(q.Get("cobertura")),
		Busqueda:  strings.TrimSpace(q.Get("q")),
		Pagina:    pagina,
	}

	proveedores, total, err := h.Repository.Directorio(h.DB, filtro)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible cargar el directorio.")
		return
	}

	categorias, err := h.Repository.ListarCategorias(h.DB)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible cargar el directorio.")
		return
	}

	respuestas := make([]ProveedorResponse, 0, len(proveedores))
	for _, p := range proveedores {
		respuestas = append(respuestas, nuevoProveedorResponse(p))
	}

	if filtro.Pagina < 1 {
		filtro.Pagina = 1
	}
	totalPaginas := int((total + TamanoPagina - 1) / TamanoPagina)

	utils.RespondJSON(w, http.StatusOK, DirectorioResponse{
		Proveedores:  respuestas,
		Total:        total,
		Pagina:       filtro.Pagina,
		TotalPaginas: totalPaginas,
		Regiones:     Regiones,
		Coberturas:   Coberturas,
		Categorias:   categorias,
	})
}

// Detalle es el perfil público: cuenta la visita de forma atómica y sin
// bloquear la respuesta, y adjunta la vitrina de productos y promociones.
func (h *Handler) Detalle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Identificador inválido.")
		return
	}

	p, err := h.Repository.BuscarActivo(h.DB, uint(id))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Proveedor no encontrado.")
		return
	}

	utils.BestEffort(h.Log, "contar visita de proveedor", func() error {
		return h.Repository.SumarVisita(h.DB, p.ID)
	})
	p.Visitas++

	productos, err := h.Productos.ActivosDeProveedor(h.DB, p.ID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible cargar el perfil.")
		return
	}
	promociones, err := h.Promociones.VigentesDeProveedor(h.DB, p.ID, time.Now())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible cargar el perfil.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, DetalleResponse{
		Proveedor:   nuevoProveedorResponse(p),
		Productos:   productos,
		Promociones: promociones,
	})
}

// Dashboard resume el panel del proveedor autenticado.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	p, ok := h.perfilDeSesion(w, r)
	if !ok {
		return
	}

	totalProductos, err := h.Productos.ContarDelProveedor(h.DB, p.ID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible cargar el panel.")
		return
	}
	promocionesActivas, err := h.Promociones.ContarVigentes(h.DB, p.ID, time.Now())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible cargar el panel.")
		return
	}
	pendientes, err := h.Solicitudes.ContarPendientes(h.DB, p.ID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible cargar el panel.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, DashboardResponse{
		Proveedor:             nuevoProveedorResponse(p),
		TotalProductos:        totalProductos,
		PromocionesActivas:    promocionesActivas,
		SolicitudesPendientes: pendientes,
	})
}

// ActualizarPerfil edita el perfil comercial del proveedor autenticado.
func (h *Handler) ActualizarPerfil(w http.ResponseWriter, r *http.Request) {
	p, ok := h.perfilDeSesion(w, r)
	if !ok {
		return
	}
	req, ok := h.decodificarPerfil(w, r)
	if !ok {
		return
	}

	p.NombreEmpresa = strings.TrimSpace(req.NombreEmpresa)
	p.Descripcion = strings.TrimSpace(req.Descripcion)
	if req.Email != "" {
		p.Email = strings.ToLower(req.Email)
	}
	p.Telefono = req.Telefono
	if req.Whatsapp != "" {
		p.Whatsapp = req.Whatsapp
	}
	p.SitioWeb = req.SitioWeb
	p.Instagram = req.Instagram
	p.Facebook = req.Facebook
	p.Region = req.Region
	p.Comuna = req.Comuna
	p.Direccion = req.Direccion
	p.Cobertura = req.Cobertura

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := h.Repository.Actualizar(tx, &p); err != nil {
			return err
		}
		return h.Repository.ReemplazarCategorias(tx, &p, req.Categorias)
	})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible actualizar el perfil.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, nuevoProveedorResponse(p))
}

// Configuracion controla la visibilidad del perfil en el directorio.
func (h *Handler) Configuracion(w http.ResponseWriter, r *http.Request) {
	p, ok := h.perfilDeSesion(w, r)
	if !ok {
		return
	}

	var req ConfiguracionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}

	if err := h.Repository.ActualizarCampos(h.DB, p.ID, map[string]interface{}{
		"activo": req.Activo,
	}); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible guardar la configuración.")
		return
	}
	p.Activo = req.Activo
	utils.RespondJSON(w, http.StatusOK, nuevoProveedorResponse(p))
}

// SubirLogo reemplaza el logo del proveedor.
func (h *Handler) SubirLogo(w http.ResponseWriter, r *http.Request) {
	p, ok := h.perfilDeSesion(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(h.MaxUploadSize); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "El archivo excede el tamaño permitido.")
		return
	}
	archivo, encabezado, err := r.FormFile("logo")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Debes adjuntar una imagen en el campo 'logo'.")
		return
	}
	defer archivo.Close()

	ext := strings.ToLower(filepath.Ext(encabezado.Filename))
	if !extensionesLogo[ext] {
		utils.RespondError(w, http.StatusBadRequest, "Formato de imagen no soportado. Usa JPG, PNG o WEBP.")
		return
	}

	url, err := h.Almacen.Subir(r.Context(), "proveedores", encabezado.Filename, archivo, encabezado.Size)
	if err != nil {
		h.Log.Error("error al subir logo", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible guardar la imagen.")
		return
	}

	anterior := p.Logo
	if err := h.Repository.ActualizarCampos(h.DB, p.ID, map[string]interface{}{"logo": url}); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible actualizar el perfil.")
		return
	}
	if anterior != "" {
		utils.BestEffort(h.Log, "eliminar logo anterior", func() error {
			return h.Almacen.Eliminar(r.Context(), anterior)
		})
	}

	p.Logo = url
	utils.RespondJSON(w, http.StatusOK, nuevoProveedorResponse(p))
}

// EliminarLogo quita el logo; el borrado en el almacén es best-effort.
func (h *Handler) EliminarLogo(w http.ResponseWriter, r *http.Request) {
	p, ok := h.perfilDeSesion(w, r)
	if !ok {
		return
	}
	if p.Logo == "" {
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
		return
	}

	url := p.Logo
	if err := h.Repository.ActualizarCampos(h.DB, p.ID, map[string]interface{}{"logo": ""}); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible actualizar el perfil.")
		return
	}
	utils.BestEffort(h.Log, "eliminar logo", func() error {
		return h.Almacen.Eliminar(r.Context(), url)
	})
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// Comunas responde el AJAX del selector dependiente región → comunas.
func (h *Handler) Comunas(w http.ResponseWriter, r *http.Request) {
	region := strings.TrimSpace(r.URL.Query().Get("region"))
	if region == "" {
		utils.RespondError(w, http.StatusBadRequest, "Debes indicar la región.")
		return
	}

	comunas, ok := ComunasDeRegion(region)
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "Región desconocida.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"comunas": comunas})
}

func (h *Handler) decodificarPerfil(w http.ResponseWriter, r *http.Request) (PerfilRequest, bool) {
	var req PerfilRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return req, false
	}
	if err := h.Validate.Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Revisa los campos del perfil: "+err.Error())
		return req, false
	}
	if req.Whatsapp != "" {
		if err := comerciante.ValidarWhatsapp(req.Whatsapp); err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return req, false
		}
	}
	if req.Cobertura != "" && !EsCoberturaValida(req.Cobertura) {
		utils.RespondError(w, http.StatusBadRequest, "Cobertura desconocida.")
		return req, false
	}
	if req.Region != "" {
		comunas, ok := ComunasDeRegion(req.Region)
		if !ok {
			utils.RespondError(w, http.StatusBadRequest, "Región desconocida.")
			return req, false
		}
		if req.Comuna != "" && !contieneComuna(comunas, req.Comuna) {
			utils.RespondError(w, http.StatusBadRequest, "La comuna no pertenece a la región indicada.")
			return req, false
		}
	}
	return req, true
}

func (h *Handler) perfilDeSesion(w http.ResponseWriter, r *http.Request) (Proveedor, bool) {
	comercianteID, ok := auth.ComercianteID(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Debes iniciar sesión para acceder.")
		return Proveedor{}, false
	}

	p, err := h.Repository.BuscarPorComerciante(h.DB, comercianteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(w, http.StatusForbidden, "Primero crea tu perfil de proveedor.")
		} else {
			utils.RespondError(w, http.StatusInternalServerError, "No fue posible cargar el perfil.")
		}
		return Proveedor{}, false
	}
	return p, true
}

func contieneComuna(comunas []string, comuna string) bool {
	for _, c := range comunas {
		if strings.EqualFold(c, comuna) {
			return true
		}
	}
	return false
}
