package noticias

import (
	"html"
	"regexp"
	"strings"
)

var (
	etiquetaHTML = regexp.MustCompile(`<[^>]+>`)
	espacios     = regexp.MustCompile(`\s+`)
	imagenHTML   = regexp.MustCompile(`<img[^>]+src=["']([^"']+)["']`)
)

// LimpiarHTML elimina etiquetas, desescapa entidades y normaliza espacios.
func LimpiarHTML(texto string) string {
	limpio := etiquetaHTML.ReplaceAllString(texto, " ")
	limpio = html.UnescapeString(limpio)
	return strings.TrimSpace(espacios.ReplaceAllString(limpio, " "))
}

// Truncar corta el texto en el límite sin partir la última palabra.
func Truncar(texto string, limite int) string {
	if len(texto) <= limite {
		return texto
	}
	cortado := texto[:limite]
	if i := strings.LastIndex(cortado, " "); i > 0 {
		cortado = cortado[:i]
	}
	return cortado + "…"
}

// esImagenDescartable filtra íconos, miniaturas y logos que los feeds suelen
// colar como primera imagen.
func esImagenDescartable(url string) bool {
	bajo := strings.ToLower(url)
	for _, marca := range []string{"icon", "thumb", "logo", "favicon", "sprite", "avatar"} {
		if strings.Contains(bajo, marca) {
			return true
		}
	}
	return false
}

// ExtraerImagenHTML busca la primera <img src> utilizable dentro de un bloque HTML.
func ExtraerImagenHTML(contenido string) string {
	for _, coincidencia := range imagenHTML.FindAllStringSubmatch(contenido, -1) {
		if len(coincidencia) > 1 && !esImagenDescartable(coincidencia[1]) {
			return coincidencia[1]
		}
	}
	return ""
}
