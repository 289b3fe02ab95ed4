package proveedor

// RegionInfo describe una región soportada y sus comunas. El directorio parte
// con las tres regiones donde el club tiene presencia.
type RegionInfo struct {
	Codigo  string   `json:"codigo"`
	Nombre  string   `json:"nombre"`
	Comunas []string `json:"comunas"`
}

var Regiones = []RegionInfo{
	{
		Codigo:  "CL-RM",
		Nombre:  "Región Metropolitana de Santiago",
		Comunas: []string{"Santiago", "Maipú", "Puente Alto"},
	},
	{
		Codigo:  "CL-VS",
		Nombre:  "Región de Valparaíso",
		Comunas: []string{"Valparaíso", "Viña del Mar", "Quilpué"},
	},
	{
		Codigo:  "CL-BI",
		Nombre:  "Región del Biobío",
		Comunas: []string{"Concepción", "Talcahuano", "Los Ángeles"},
	},
}

// ComunasDeRegion devuelve las comunas del código de región, si existe.
func ComunasDeRegion(codigo string) ([]string, bool) {
	for _, region := range Regiones {
		if region.Codigo == codigo {
			return region.Comunas, true
		}
	}
	return nil, false
}

func NombreRegion(codigo string) string {
	for _, region := range Regiones {
		if region.Codigo == codigo {
			return region.Nombre
		}
	}
	return codigo
}
