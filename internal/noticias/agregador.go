package noticias

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/clubalmacen/api-comunidad/internal/config"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
)

const (
	maxPorFuente  = 15
	limiteResumen = 300
	ttlCache      = 10 * time.Minute
)

// Palabras que anclan una entrada al mundo del comercio de barrio. Las fuentes
// genéricas traen mucho ruido; solo pasan las entradas relevantes.
var palabrasClave = []string{
	"pyme", "negocio", "comercio", "almacén", "almacen",
	"emprend", "minorista", "retail", "feria", "barrio",
}

// Agregador descarga y normaliza las fuentes RSS configuradas, con un caché
// corto para no golpear las fuentes en cada request.
type Agregador struct {
	fuentes []config.FuenteRSS
	parser  *gofeed.Parser
	log     *zap.Logger

	mu        sync.Mutex
	cache     []Noticia
	cacheadas time.Time
}

func NewAgregador(fuentes []config.FuenteRSS, log *zap.Logger) *Agregador {
	return &Agregador{
		fuentes: fuentes,
		parser:  gofeed.NewParser(),
		log:     log,
	}
}

// Obtener devuelve las noticias agregadas de todas las fuentes. Una fuente
// caída aporta cero entradas y nunca interrumpe a las demás.
func (a *Agregador) Obtener(ctx context.Context) []Noticia {
	a.mu.Lock()
	if a.cache != nil && time.Since(a.cacheadas) < ttlCache {
		noticias := a.cache
		a.mu.Unlock()
		return noticias
	}
	a.mu.Unlock()

	noticias := []Noticia{}
	for _, fuente := range a.fuentes {
		feed, err := a.parser.ParseURLWithContext(fuente.URL, ctx)
		if err != nil {
			a.log.Warn("fuente RSS no disponible",
				zap.String("fuente", fuente.Clave),
				zap.Error(err),
			)
			continue
		}
		noticias = append(noticias, a.normalizarFuente(fuente, feed)...)
	}

	a.mu.Lock()
	a.cache = noticias
	a.cacheadas = time.Now()
	a.mu.Unlock()
	return noticias
}

// Preview entrega el adelanto que acompaña a la portada del foro.
func (a *Agregador) Preview(ctx context.Context, cantidad int) []Noticia {
	noticias := a.Obtener(ctx)
	if len(noticias) > cantidad {
		noticias = noticias[:cantidad]
	}
	return noticias
}

func (a *Agregador) normalizarFuente(fuente config.FuenteRSS, feed *gofeed.Feed) []Noticia {
	noticias := make([]Noticia, 0, maxPorFuente)
	for _, item := range feed.Items {
		if len(noticias) >= maxPorFuente {
			break
		}
		n := normalizarItem(fuente, item)
		if !EsRelevante(n.Titulo + " " + n.Resumen) {
			continue
		}
		noticias = append(noticias, n)
	}
	return noticias
}

func normalizarItem(fuente config.FuenteRSS, item *gofeed.Item) Noticia {
	return Noticia{
		Titulo:       LimpiarHTML(item.Title),
		Resumen:      Truncar(LimpiarHTML(item.Description), limiteResumen),
		URL:          item.Link,
		Imagen:       extraerImagen(item),
		Fuente:       fuente.Clave,
		FuenteTitulo: fuente.Titulo,
		Publicado:    item.PublishedParsed,
	}
}

// extraerImagen prefiere los campos estructurados del feed y solo después
// rastrea el HTML del resumen.
func extraerImagen(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" && !esImagenDescartable(item.Image.URL) {
		return item.Image.URL
	}
	for _, adjunto := range item.Enclosures {
		if strings.HasPrefix(adjunto.Type, "image/") && !esImagenDescartable(adjunto.URL) {
			return adjunto.URL
		}
	}
	if media, ok := item.Extensions["media"]; ok {
		for _, nombre := range []string{"content", "thumbnail"} {
			for _, ext := range media[nombre] {
				if url := ext.Attrs["url"]; url != "" && !esImagenDescartable(url) {
					return url
				}
			}
		}
	}
	if imagen := ExtraerImagenHTML(item.Description); imagen != "" {
		return imagen
	}
	return ExtraerImagenHTML(item.Content)
}

// EsRelevante decide si el texto habla del rubro del comercio de barrio.
func EsRelevante(texto string) bool {
	bajo := strings.ToLower(texto)
	for _, palabra := range palabrasClave {
		if strings.Contains(bajo, palabra) {
			return true
		}
	}
	return false
}
