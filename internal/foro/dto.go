package foro

import (
	"time"

	"github.com/clubalmacen/api-comunidad/internal/comerciante"
	"github.com/clubalmacen/api-comunidad/internal/noticias"
)

type PublicacionRequest struct {
	Titulo    string `json:"titulo" validate:"max=150"`
	Contenido string `json:"contenido" validate:"required,min=1"`
	Categoria string `json:"categoria" validate:"required"`
	ImagenURL string `json:"imagenUrl" validate:"omitempty,url,max=255"`
	Etiquetas string `json:"etiquetas" validate:"max=255"`
}

type ComentarioRequest struct {
	Contenido string `json:"contenido" validate:"required,min=1"`
}

// AutorResponse resume al autor de una publicación o comentario.
type AutorResponse struct {
	ID         uint   `json:"id"`
	Nombre     string `json:"nombre"`
	FotoPerfil string `json:"fotoPerfil"`
	Nivel      string `json:"nivel"`
	Online     bool   `json:"online"`
}

type PublicacionResponse struct {
	ID               uint          `json:"id"`
	Autor            AutorResponse `json:"autor"`
	Titulo           string        `json:"titulo"`
	Contenido        string        `json:"contenido"`
	Categoria        string        `json:"categoria"`
	ImagenURL        string        `json:"imagenUrl"`
	Etiquetas        string        `json:"etiquetas"`
	TotalComentarios int64         `json:"totalComentarios"`
	TotalLikes       int64         `json:"totalLikes"`
	MeGusta          bool          `json:"meGusta"`
	FechaCreacion    time.Time     `json:"fechaCreacion"`
}

type ComentarioResponse struct {
	ID            uint          `json:"id"`
	Autor         AutorResponse `json:"autor"`
	Contenido     string        `json:"contenido"`
	FechaCreacion time.Time     `json:"fechaCreacion"`
}

type ForoResponse struct {
	TipoFiltro    string                `json:"tipoFiltro"`
	Categoria     string                `json:"categoria,omitempty"`
	Publicaciones []PublicacionResponse `json:"publicaciones"`
	Noticias      []noticias.Noticia    `json:"noticias,omitempty"`
}

type DetalleResponse struct {
	Publicacion PublicacionResponse  `json:"publicacion"`
	Comentarios []ComentarioResponse `json:"comentarios"`
}

func nuevoAutorResponse(c comerciante.Comerciante) AutorResponse {
	return AutorResponse{
		ID:         c.ID,
		Nombre:     c.NombreApellido,
		FotoPerfil: c.FotoPerfil,
		Nivel:      comerciante.NombreNivel(c.NivelActual),
		Online:     comerciante.EstaOnline(c.UltimaConexion),
	}
}

func nuevaPublicacionResponse(p Publicacion, comentarios, likes int64, meGusta bool) PublicacionResponse {
	return PublicacionResponse{
		ID:               p.ID,
		Autor:            nuevoAutorResponse(p.Comerciante),
		Titulo:           p.Titulo,
		Contenido:        p.Contenido,
		Categoria:        p.Categoria,
		ImagenURL:        p.ImagenURL,
		Etiquetas:        p.Etiquetas,
		TotalComentarios: comentarios,
		TotalLikes:       likes,
		MeGusta:          meGusta,
		FechaCreacion:    p.CreatedAt,
	}
}

func nuevoComentarioResponse(c Comentario) ComentarioResponse {
	return ComentarioResponse{
		ID:            c.ID,
		Autor:         nuevoAutorResponse(c.Comerciante),
		Contenido:     c.Contenido,
		FechaCreacion: c.CreatedAt,
	}
}
