package noticias

import (
	"testing"

	"github.com/clubalmacen/api-comunidad/internal/config"
	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
)

func TestLimpiarHTML(t *testing.T) {
	assert.Equal(t, "Nuevas ferias para almacenes",
		LimpiarHTML("<b>Nuevas</b> ferias   para <a href=\"#\">almacenes</a>"))
	assert.Equal(t, "Pymes & comercio", LimpiarHTML("Pymes &amp; comercio"))
	assert.Equal(t, "", LimpiarHTML("<p>  </p>"))
}

func TestTruncar(t *testing.T) {
	assert.Equal(t, "corto", Truncar("corto", 20))
	assert.Equal(t, "una frase…", Truncar("una frase bastante larga", 12))
}

func TestExtraerImagenHTMLDescartaIconos(t *testing.T) {
	html := `<img src="https://cdn.ejemplo.cl/logo-diario.png"><img src="https://cdn.ejemplo.cl/foto-feria.jpg">`
	assert.Equal(t, "https://cdn.ejemplo.cl/foto-feria.jpg", ExtraerImagenHTML(html))

	soloIconos := `<img src="https://cdn.ejemplo.cl/icon.png"><img src="https://cdn.ejemplo.cl/thumb-1.jpg">`
	assert.Equal(t, "", ExtraerImagenHTML(soloIconos))
}

func TestEsRelevante(t *testing.T) {
	assert.True(t, EsRelevante("Crecen las pymes del barrio"))
	assert.True(t, EsRelevante("El Almacén de la esquina se moderniza"))
	assert.False(t, EsRelevante("Resultados del campeonato de tenis"))
}

func TestNormalizarFuenteFiltraYLimita(t *testing.T) {
	fuente := config.FuenteRSS{Clave: "prueba", Titulo: "Fuente de prueba"}

	feed := &gofeed.Feed{}
	for i := 0; i < 40; i++ {
		feed.Items = append(feed.Items, &gofeed.Item{
			Title:       "<b>Noticias del comercio</b>",
			Description: "Novedades para el negocio de barrio",
			Link:        "https://ejemplo.cl/nota",
		})
	}
	feed.Items = append(feed.Items, &gofeed.Item{
		Title:       "Campeonato de tenis",
		Description: "Nada que ver con el rubro",
	})

	a := NewAgregador(nil, nil)
	noticias := a.normalizarFuente(fuente, feed)

	assert.Len(t, noticias, 15)
	for _, n := range noticias {
		assert.Equal(t, "Noticias del comercio", n.Titulo)
		assert.Equal(t, "prueba", n.Fuente)
	}
}

func TestExtraerImagenPrefiereCamposEstructurados(t *testing.T) {
	item := &gofeed.Item{
		Image:       &gofeed.Image{URL: "https://cdn.ejemplo.cl/portada.jpg"},
		Description: `<img src="https://cdn.ejemplo.cl/otra.jpg">`,
	}
	assert.Equal(t, "https://cdn.ejemplo.cl/portada.jpg", extraerImagen(item))

	sinEstructura := &gofeed.Item{
		Description: `<img src="https://cdn.ejemplo.cl/en-el-resumen.jpg">`,
	}
	assert.Equal(t, "https://cdn.ejemplo.cl/en-el-resumen.jpg", extraerImagen(sinEstructura))
}
