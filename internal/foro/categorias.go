package foro

// El foro se divide en dos particiones: las categorías de la comunidad, donde
// publica cualquier comerciante, y las categorías oficiales reservadas al equipo
// administrador.
const (
	FiltroComunidad = "comunidad"
	FiltroAdmin     = "admin"
)

var CategoriasComunidad = []string{"DUDA", "OPINION", "RECOMENDACION", "NOTICIA", "GENERAL"}

var CategoriasAdmin = []string{"NOTICIAS_CA", "DESPACHOS", "NUEVOS_SOCIOS", "ACTIVIDADES"}

func contiene(lista []string, valor string) bool {
	for _, v := range lista {
		if v == valor {
			return true
		}
	}
	return false
}

func EsCategoriaComunidad(categoria string) bool {
	return contiene(CategoriasComunidad, categoria)
}

func EsCategoriaAdmin(categoria string) bool {
	return contiene(CategoriasAdmin, categoria)
}

// CategoriasDelFiltro resuelve la partición activa; cualquier valor desconocido
// cae en la comunidad.
func CategoriasDelFiltro(tipoFiltro string) []string {
	if tipoFiltro == FiltroAdmin {
		return CategoriasAdmin
	}
	return CategoriasComunidad
}
