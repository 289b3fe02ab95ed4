package noticias

import "time"

// Noticia es una entrada ya normalizada de una fuente RSS externa.
type Noticia struct {
	Titulo       string     `json:"titulo"`
	Resumen      string     `json:"resumen"`
	URL          string     `json:"url"`
	Imagen       string     `json:"imagen"`
	Fuente       string     `json:"fuente"`
	FuenteTitulo string     `json:"fuenteTitulo"`
	Publicado    *time.Time `json:"publicado"`
}
