package foro

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/clubalmacen/api-comunidad/internal/auth"
	"github.com/clubalmacen/api-comunidad/internal/noticias"
	"github.com/clubalmacen/api-comunidad/internal/storage"
	"github.com/clubalmacen/api-comunidad/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var extensionesImagen = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

// FuenteNoticias entrega el adelanto de noticias que acompaña a la portada del foro.
type FuenteNoticias interface {
	Preview(ctx context.Context, cantidad int) []noticias.Noticia
}

type Handler struct {
	DB            *gorm.DB
	Repository    Repository
	Almacen       storage.Almacen
	Noticias      FuenteNoticias
	Validate      *validator.Validate
	Log           *zap.Logger
	MaxUploadSize int64
}

func NewHandler(db *gorm.DB, almacen storage.Almacen, fuenteNoticias FuenteNoticias, log *zap.Logger, maxUpload int64) *Handler {
	return &Handler{
		DB:            db,
		Repository:    NewRepository(),
		Almacen:       almacen,
		Noticias:      fuenteNoticias,
		Validate:      validator.New(),
		Log:           log,
		MaxUploadSize: maxUpload,
	}
}

// Listar arma la portada del foro: la partición pedida con sus conteos de
// comentarios y likes, más el adelanto de noticias del sector.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	tipoFiltro := r.URL.Query().Get("tipo_filtro")
	if tipoFiltro != FiltroAdmin {
		tipoFiltro = FiltroComunidad
	}
	categoria := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("categoria")))

	categorias := CategoriasDelFiltro(tipoFiltro)
	publicaciones, err := h.Repository.ListarPublicaciones(h.DB, categorias, categoria)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible cargar el foro.")
		return
	}

	respuestas, err := h.armarRespuestas(r, publicaciones)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible cargar el foro.")
		return
	}

	resp := ForoResponse{
		TipoFiltro:    tipoFiltro,
		Publicaciones: respuestas,
	}
	if contiene(categorias, categoria) {
		resp.Categoria = categoria
	}
	if h.Noticias != nil {
		resp.Noticias = h.Noticias.Preview(r.Context(), 3)
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}

// CrearPublicacion respeta la partición del foro: las categorías oficiales son
// exclusivas del ADMIN y las de comunidad le están vedadas.
func (h *Handler) CrearPublicacion(w http.ResponseWriter, r *http.Request) {
	autorID, ok := auth.ComercianteID(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Debes iniciar sesión para publicar.")
		return
	}

	var req PublicacionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Revisa los campos de la publicación: "+err.Error())
		return
	}

	categoria := strings.ToUpper(strings.TrimSpace(req.Categoria))
	esAdmin := auth.Rol(r) == auth.RolAdmin
	switch {
	case !EsCategoriaComunidad(categoria) && !EsCategoriaAdmin(categoria):
		utils.RespondError(w, http.StatusBadRequest, "Categoría desconocida.")
		return
	case EsCategoriaAdmin(categoria) && !esAdmin:
		utils.RespondError(w, http.StatusForbidden, "No tienes permisos para publicar en esta categoría.")
		return
	case EsCategoriaComunidad(categoria) && esAdmin:
		utils.RespondError(w, http.StatusForbidden, "Las cuentas de administración publican solo en las categorías oficiales.")
		return
	}

	p := Publicacion{
		ComercianteID: autorID,
		Titulo:        strings.TrimSpace(req.Titulo),
		Contenido:     strings.TrimSpace(req.Contenido),
		Categoria:     categoria,
		ImagenURL:     req.ImagenURL,
		Etiquetas:     strings.TrimSpace(req.Etiquetas),
	}
	if err := h.Repository.CrearPublicacion(h.DB, &p); err != nil {
		h.Log.Error("error al crear publicación", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible crear la publicación.")
		return
	}

	creada, err := h.Repository.BuscarPublicacion(h.DB, p.ID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible cargar la publicación.")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, nuevaPublicacionResponse(creada, 0, 0, false))
}

// SubirImagen recibe la imagen por multipart y devuelve la URL pública para
// adjuntarla a una publicación. Imagen subida y URL externa son excluyentes.
func (h *Handler) SubirImagen(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.ComercianteID(r); !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Debes iniciar sesión para publicar.")
		return
	}

	if err := r.ParseMultipartForm(h.MaxUploadSize); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "El archivo excede el tamaño permitido.")
		return
	}
	archivo, encabezado, err := r.FormFile("imagen")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Debes adjuntar una imagen en el campo 'imagen'.")
		return
	}
	defer archivo.Close()

	ext := strings.ToLower(filepath.Ext(encabezado.Filename))
	if !extensionesImagen[ext] {
		utils.RespondError(w, http.StatusBadRequest, "Formato de imagen no soportado.")
		return
	}

	url, err := h.Almacen.Subir(r.Context(), "foro", encabezado.Filename, archivo, encabezado.Size)
	if err != nil {
		h.Log.Error("error al subir imagen del foro", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible guardar la imagen.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "url": url})
}

// Detalle devuelve la publicación con sus comentarios en orden de creación.
func (h *Handler) Detalle(w http.ResponseWriter, r *http.Request) {
	p, ok := h.publicacionDeRuta(w, r)
	if !ok {
		return
	}

	respuestas, err := h.armarRespuestas(r, []Publicacion{p})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible cargar la publicación.")
		return
	}

	comentarios, err := h.Repository.ListarComentarios(h.DB, p.ID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible cargar los comentarios.")
		return
	}
	comentariosResp := make([]ComentarioResponse, 0, len(comentarios))
	for _, c := range comentarios {
		comentariosResp = append(comentariosResp, nuevoComentarioResponse(c))
	}

	utils.RespondJSON(w, http.StatusOK, DetalleResponse{
		Publicacion: respuestas[0],
		Comentarios: comentariosResp,
	})
}

// Comentar agrega un comentario a la publicación.
func (h *Handler) Comentar(w http.ResponseWriter, r *http.Request) {
	autorID, ok := auth.ComercianteID(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Debes iniciar sesión para comentar.")
		return
	}
	p, ok := h.publicacionDeRuta(w, r)
	if !ok {
		return
	}

	var req ComentarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}
	if err := h.Validate.Struct(req); err != nil || strings.TrimSpace(req.Contenido) == "" {
		utils.RespondError(w, http.StatusBadRequest, "El comentario no puede estar vacío.")
		return
	}

	c := Comentario{
		PublicacionID: p.ID,
		ComercianteID: autorID,
		Contenido:     strings.TrimSpace(req.Contenido),
	}
	if err := h.Repository.CrearComentario(h.DB, &c); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible guardar el comentario.")
		return
	}

	guardado, err := h.Repository.BuscarComentario(h.DB, c.ID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible cargar el comentario.")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, nuevoComentarioResponse(guardado))
}

// ToggleLike alterna el like del comerciante sobre la publicación.
func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	autorID, ok := auth.ComercianteID(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Debes iniciar sesión para reaccionar.")
		return
	}
	p, ok := h.publicacionDeRuta(w, r)
	if !ok {
		return
	}

	activo, err := h.Repository.ToggleLike(h.DB, p.ID, autorID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible registrar la reacción.")
		return
	}

	likes, err := h.Repository.ContarLikes(h.DB, []uint{p.ID})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible registrar la reacción.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"meGusta":    activo,
		"totalLikes": likes[p.ID],
	})
}

// EliminarPublicacion permite borrar al autor o a un ADMIN.
func (h *Handler) EliminarPublicacion(w http.ResponseWriter, r *http.Request) {
	autorID, ok := auth.ComercianteID(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Debes iniciar sesión.")
		return
	}
	p, ok := h.publicacionDeRuta(w, r)
	if !ok {
		return
	}
	if p.ComercianteID != autorID && auth.Rol(r) != auth.RolAdmin {
		utils.RespondError(w, http.StatusForbidden, "Solo el autor o un administrador pueden eliminar la publicación.")
		return
	}

	if err := h.Repository.EliminarPublicacion(h.DB, p.ID); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible eliminar la publicación.")
		return
	}
	if p.ImagenURL != "" && h.Almacen != nil {
		utils.BestEffort(h.Log, "eliminar imagen de publicación", func() error {
			return h.Almacen.Eliminar(r.Context(), p.ImagenURL)
		})
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// EliminarComentario permite borrar al autor del comentario o a un ADMIN.
func (h *Handler) EliminarComentario(w http.ResponseWriter, r *http.Request) {
	autorID, ok := auth.ComercianteID(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Debes iniciar sesión.")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Identificador inválido.")
		return
	}
	c, err := h.Repository.BuscarComentario(h.DB, uint(id))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Comentario no encontrado.")
		return
	}
	if c.ComercianteID != autorID && auth.Rol(r) != auth.RolAdmin {
		utils.RespondError(w, http.StatusForbidden, "Solo el autor o un administrador pueden eliminar el comentario.")
		return
	}

	if err := h.Repository.EliminarComentario(h.DB, c.ID); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "No fue posible eliminar el comentario.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) armarRespuestas(r *http.Request, publicaciones []Publicacion) ([]PublicacionResponse, error) {
	ids := make([]uint, 0, len(publicaciones))
	for _, p := range publicaciones {
		ids = append(ids, p.ID)
	}

	comentarios, err := h.Repository.ContarComentarios(h.DB, ids)
	if err != nil {
		return nil, err
	}
	likes, err := h.Repository.ContarLikes(h.DB, ids)
	if err != nil {
		return nil, err
	}

	misLikes := map[uint]bool{}
	if id, ok := auth.ComercianteID(r); ok {
		misLikes, err = h.Repository.LikesDelComerciante(h.DB, id, ids)
		if err != nil {
			return nil, err
		}
	}

	respuestas := make([]PublicacionResponse, 0, len(publicaciones))
	for _, p := range publicaciones {
		respuestas = append(respuestas, nuevaPublicacionResponse(p, comentarios[p.ID], likes[p.ID], misLikes[p.ID]))
	}
	return respuestas, nil
}

func (h *Handler) publicacionDeRuta(w http.ResponseWriter, r *http.Request) (Publicacion, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Identificador inválido.")
		return Publicacion{}, false
	}
	p, err := h.Repository.BuscarPublicacion(h.DB, uint(id))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Publicación no encontrada.")
		return Publicacion{}, false
	}
	return p, true
}
